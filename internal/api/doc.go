// Package api implements the HTTP client for the medication-safety backend:
// prescription scanning, reminder sync, scan history, passports, family
// members, community posts, health alerts, and user profiles. Wire field
// names (snake_case) are translated to client types only at this boundary.
package api
