// Package cli constructs the reposcan command-line interface, wiring the
// Cobra root command, configuration loader, and structured logging
// primitives. The root command itself performs the repository scan; there is
// no subcommand hierarchy.
package cli
