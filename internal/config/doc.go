// Package config loads, normalizes, and validates the TOML configuration
// shared by the zovida CLI and the zovidad reminder daemon.
package config
