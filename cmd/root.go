// =============================================================================
// CSV to JSON Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. There are no
// subcommands: the root command converts one input file.
//
// COMMAND USAGE:
//   csv2json <input.csv> <output.json> [flags]
//
// FLAGS:
//   --config      : Optional YAML settings file
//   --verbose, -v : Debug logging and stack traces on error
//   --log-level   : debug, info, warn or error
//   --group-by    : Emit an object of buckets keyed by this column
//   --groups      : Only emit these buckets, in this order
//   --dry-run     : Print a preview instead of writing the output file
//   --preview     : Number of rows shown by --dry-run
//   --version     : Print version information
//
// OUTPUT:
//   stdout carries the usage line, the summary line or the dry-run preview.
//   Logs and errors go to stderr. Any failure exits with status 1.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/converter"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/logging"
)

// usageLine is printed to stdout when fewer than two paths are given.
const usageLine = "Usage: python csv_to_json.py input.csv output.json"

// errUsage marks a run that already printed the usage line.
var errUsage = errors.New("missing input or output path")

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// rootOptions holds the values bound to the command line flags.
type rootOptions struct {
	// cfgFile is the path to an optional configuration file.
	cfgFile string

	// verbose enables debug logging and stack traces.
	verbose bool

	logLevel    string
	groupBy     string
	groups      []string
	dryRun      bool
	previewRows int
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// newRootCommand builds the root command bound to opts.
func newRootCommand(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "csv2json <input.csv> <output.json>",
		Short: "CSV to JSON Converter - Turn a CSV file into a JSON array of objects",
		Long: `CSV to JSON Converter reads a CSV file whose first row is a header and
writes a JSON array with one object per data row, keyed by the header names.
Values are always strings and keys keep the column order.

Key Features:
  - Output identical to Python's json.dump(rows, f, indent=2)
  - Excel workbooks (.xlsx) are read like their CSV export
  - Optional grouping into buckets by the value of one column
  - Dry runs print a preview table instead of writing

Example Usage:
  csv2json people.csv people.json
  csv2json timeline.csv timeline.json --group-by type --groups experience,education
  csv2json report.xlsx report.json --dry-run --preview 5`,

		Version: Version,

		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, opts)
		},
	}

	rootCmd.SetVersionTemplate(versionTemplate())

	// ==========================================================================
	// FLAGS
	// ==========================================================================

	flags := rootCmd.Flags()

	flags.StringVar(&opts.cfgFile, "config", "", "Path to an optional YAML configuration file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging and stack traces")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (default warn)")
	flags.StringVar(&opts.groupBy, "group-by", "", "Group rows into buckets by the value of this column")
	flags.StringSliceVar(&opts.groups, "groups", nil, "Only emit these buckets, in this order (used with --group-by)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Print a preview instead of writing the output file")
	flags.IntVar(&opts.previewRows, "preview", 0, "Number of rows shown by --dry-run (default 10)")

	return rootCmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command with the process arguments.
// This is called by main.main(). It exits with status 1 on any failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if code != 0 {
		os.Exit(code)
	}
}

// run executes the command and maps its error to an exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &rootOptions{}

	rootCmd := newRootCommand(opts)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 1
	case opts.verbose:
		fmt.Fprintf(stderr, "Error: %+v\n", err)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}

	return 1
}

// =============================================================================
// CONVERSION
// =============================================================================

// runConvert loads the configuration, applies flag overrides and runs the
// converter on the first two positional arguments. Extra arguments are ignored.
func runConvert(cmd *cobra.Command, args []string, opts *rootOptions) error {
	if len(args) < 2 {
		fmt.Fprintln(cmd.OutOrStdout(), usageLine)
		return errUsage
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if opts.cfgFile != "" {
		logger.Debugf("Using config file: %s", opts.cfgFile)
	}

	conv := converter.New(args[0], args[1], cfg,
		converter.WithLogger(logger),
		converter.WithDryRun(opts.dryRun),
		converter.WithPreviewWriter(cmd.OutOrStdout()),
	)

	result, err := conv.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
	return nil
}

// loadConfig reads the configuration file and lets explicitly set flags
// override its values.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	if flags.Changed("group-by") {
		cfg.Grouping.Column = opts.groupBy
	}
	if flags.Changed("groups") {
		cfg.Grouping.Buckets = opts.groups
	}
	if flags.Changed("preview") {
		cfg.PreviewRows = opts.previewRows
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}
