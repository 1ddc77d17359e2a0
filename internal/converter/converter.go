// =============================================================================
// CSV to JSON Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It runs the whole pipeline
// for one input file:
//
// CONVERSION PIPELINE:
//   1. Parse the input (CSV, or XLSX when the path ends in .xlsx)
//   2. Group the records when a grouping column is configured
//   3. Encode the JSON document
//   4. Write the output file, or print a preview on a dry run
//
// The input is fully read and closed before the output file is opened. The
// context is checked between steps, so a cancelled run never starts writing.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/csvparser"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/jsonwriter"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/logging"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/types"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/xlsxparser"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single file.
type Result struct {
	// RunID identifies the run in log output.
	RunID string

	// InputPath is the file that was read.
	InputPath string

	// OutputPath is the file that was (or on a dry run, would be) written.
	OutputPath string

	// Rows is the number of data rows read from the input.
	Rows int

	// GroupColumn is set when the output was grouped.
	GroupColumn string

	// Groups holds the bucket sizes of grouped output, in output order.
	Groups []BucketCount

	// Bytes is the size of the encoded JSON document.
	Bytes int

	// DryRun is true when nothing was written.
	DryRun bool

	// Duration is the time taken by the run.
	Duration time.Duration
}

// Summary returns the one-line report printed after a run.
//
// EXAMPLES:
//   Wrote 2 rows to out.json
//   Wrote grouped type with 3 experience and 2 education entries to out.json
//   Would write 2 rows to out.json
func (r Result) Summary() string {
	verb := "Wrote"
	if r.DryRun {
		verb = "Would write"
	}

	if r.GroupColumn != "" {
		return fmt.Sprintf("%s grouped %s with %s to %s", verb, r.GroupColumn, describeBuckets(r.Groups), r.OutputPath)
	}

	return fmt.Sprintf("%s %d rows to %s", verb, r.Rows, r.OutputPath)
}

// describeBuckets renders bucket counts as "3 experience and 2 education entries".
func describeBuckets(counts []BucketCount) string {
	if len(counts) == 0 {
		return "no entries"
	}

	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%d %s", c.Count, c.Name)
	}

	if len(parts) == 1 {
		return parts[0] + " entries"
	}

	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1] + " entries"
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Logger is the logging surface the converter needs. *logrus.Logger and
// *logrus.Entry both satisfy it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Converter handles the conversion of a single input file to JSON.
type Converter struct {
	inputPath  string
	outputPath string
	cfg        *config.Config

	logger  Logger
	dryRun  bool
	preview io.Writer
}

// Option customizes a Converter.
type Option func(*Converter)

// WithLogger sets the logger. Without it, log output is discarded.
func WithLogger(logger Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithDryRun skips writing the output file and prints a preview instead.
func WithDryRun(dryRun bool) Option {
	return func(c *Converter) {
		c.dryRun = dryRun
	}
}

// WithPreviewWriter sets where the dry-run preview goes (default os.Stdout).
func WithPreviewWriter(w io.Writer) Option {
	return func(c *Converter) {
		c.preview = w
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - inputPath: The CSV or XLSX file to read.
//   - outputPath: The JSON file to create or truncate.
//   - cfg: The application configuration; nil means config.Default().
//   - opts: Optional settings (logger, dry run, preview writer).
//
// RETURNS:
//   - A new Converter instance.
func New(inputPath, outputPath string, cfg *config.Config, opts ...Option) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}

	c := &Converter{
		inputPath:  inputPath,
		outputPath: outputPath,
		cfg:        cfg,
		logger:     logging.Discard(),
		preview:    os.Stdout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline.
//
// RETURNS:
//   - A Result describing what was (or would be) written. It is partially
//     filled when an error occurs.
//   - An error if any step fails or ctx is cancelled.
func (c *Converter) Run(ctx context.Context) (Result, error) {
	startTime := time.Now()
	result := Result{
		RunID:      uuid.New().String(),
		InputPath:  c.inputPath,
		OutputPath: c.outputPath,
		DryRun:     c.dryRun,
	}

	log := c.logger
	if fl, ok := log.(logrus.FieldLogger); ok {
		log = fl.WithField("run_id", result.RunID)
	}

	// =========================================================================
	// STEP 1: PARSE INPUT
	// =========================================================================

	log.Infof("Processing file: %s", c.inputPath)

	table, err := c.readTable()
	if err != nil {
		return result, err
	}

	result.Rows = table.Len()
	log.Debugf("Parsed %d rows with %d columns from %s", table.Len(), len(table.Headers), c.inputPath)

	if err := checkContext(ctx); err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 2: GROUP RECORDS
	// =========================================================================

	var payload interface{} = table.Records

	if column := c.cfg.Grouping.Column; column != "" {
		groups := Group(table, c.cfg.Grouping)
		if groups == nil {
			log.Warnf("Column '%s' not found in %s, writing a plain array", column, c.inputPath)
		} else {
			payload = groups
			result.GroupColumn = groups.Column
			result.Groups = groups.Counts()
			if groups.Dropped > 0 {
				log.Infof("Dropped %d rows outside the configured buckets", groups.Dropped)
			}
			log.Debugf("Grouped %d rows into %d buckets", groups.Total(), len(result.Groups))
		}
	}

	// =========================================================================
	// STEP 3: ENCODE JSON
	// =========================================================================

	document, err := jsonwriter.Encode(payload, jsonwriter.OptionsFrom(c.cfg.JSON))
	if err != nil {
		return result, err
	}

	result.Bytes = len(document)
	log.Debugf("Encoded %s of JSON", utils.HumanBytes(len(document)))

	if err := checkContext(ctx); err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 4: WRITE OUTPUT
	// =========================================================================

	if c.dryRun {
		if err := c.renderPreview(table); err != nil {
			return result, err
		}
		log.Infof("Dry run, not writing %s", c.outputPath)
	} else {
		if err := jsonwriter.WriteFile(c.outputPath, document); err != nil {
			return result, err
		}
		log.Infof("Wrote output to: %s", c.outputPath)
	}

	result.Duration = time.Since(startTime)
	log.Debugf("Finished in %s", result.Duration)

	return result, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// readTable parses the input with the parser matching its extension.
func (c *Converter) readTable() (*types.Table, error) {
	if xlsxparser.IsWorkbook(c.inputPath) {
		return xlsxparser.Parse(c.inputPath, c.cfg.XLSX, c.cfg.CSV)
	}
	return csvparser.Parse(c.inputPath, c.cfg.CSV)
}

// renderPreview prints the first rows of table as a text table.
func (c *Converter) renderPreview(table *types.Table) error {
	columns := uniqueColumns(table.Headers)
	if len(columns) == 0 {
		return nil
	}

	limit := c.cfg.PreviewRows
	if limit > table.Len() {
		limit = table.Len()
	}

	writer := tablewriter.NewWriter(c.preview)
	writer.SetAutoFormatHeaders(false)
	writer.SetAutoWrapText(false)
	writer.SetHeader(columns)

	for _, record := range table.Records[:limit] {
		writer.Append(record.Values())
	}

	writer.Render()

	if hidden := table.Len() - limit; hidden > 0 {
		if _, err := fmt.Fprintf(c.preview, "... %d more rows\n", hidden); err != nil {
			return errors.Wrap(err, "failed to write preview")
		}
	}

	return nil
}

// uniqueColumns drops repeated header names, keeping the first position.
// This matches the key order of every Record.
func uniqueColumns(headers []string) []string {
	seen := make(map[string]bool, len(headers))
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}

// checkContext returns a wrapped context error once ctx is done.
func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "conversion cancelled")
	}
	return nil
}
