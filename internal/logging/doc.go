// Package logging configures slog for the CLI and daemon: a console handler
// for interactive output, a JSON handler for log files, and shared attribute
// helpers so components emit consistent structured fields.
package logging
