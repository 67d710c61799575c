// Package cmd implements the command-line interface for mailcompact.
//
// This package provides the following commands:
//   - compact: Generate deduplicated transcripts from an extracted thread corpus
//   - version: Display version information
//
// The compact command is the default command when no subcommand is specified.
package cmd
