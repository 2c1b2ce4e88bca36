// Package notifications delivers medication-safety events via pluggable
// notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Per-category switches let users keep reminder pushes while muting
// scan results, or vice versa.
//
// Extend this package if you need alternative transports; callers depend only
// on the simple Service interface.
package notifications
