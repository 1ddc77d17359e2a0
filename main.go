// =============================================================================
// CSV to JSON Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the CSV to JSON Converter CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   csv2json input.csv output.json     - Convert a CSV file to a JSON array
//   csv2json input.xlsx output.json    - Convert the first worksheet
//   csv2json --version                 - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : The Cobra root command
//   - internal/      : Parsing, grouping, JSON encoding, configuration, logging
//   - pkg/           : Shared file helpers
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/CSV-to-JSON-conversion/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
