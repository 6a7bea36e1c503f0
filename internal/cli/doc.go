// Package cli implements the storerate command: sign in, browse and rate
// stores, and run the admin and owner views from a terminal.
//
// Each subcommand is a thin cobra wrapper around a runX(ctx, w) int function
// that returns the process exit code, so commands can be tested without
// exiting.
package cli
