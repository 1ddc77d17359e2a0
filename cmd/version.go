// =============================================================================
// CSV to JSON Converter - Version Information
// =============================================================================
//
// The root command prints this information for --version.
//
// OUTPUT:
//   CSV to JSON Converter
//   Version:    1.0.0
//   Build Date: 2024-01-01
//   Go Version: go1.24.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================
// These variables are set at build time using ldflags.
// Example build command:
//   go build -ldflags "-X 'github.com/ginjaninja78/CSV-to-JSON-conversion/cmd.Version=1.0.0' -X 'github.com/ginjaninja78/CSV-to-JSON-conversion/cmd.BuildDate=2024-01-01'"

// Version is the application version.
// Set at build time using ldflags.
var Version = "1.0.0"

// BuildDate is the date the application was built.
// Set at build time using ldflags.
var BuildDate = "unknown"

// versionTemplate renders the --version output.
func versionTemplate() string {
	return fmt.Sprintf("CSV to JSON Converter\nVersion:    %s\nBuild Date: %s\nGo Version: %s\n",
		Version, BuildDate, runtime.Version())
}
