// =============================================================================
// CSV to JSON Converter - Validation Engine
// =============================================================================
//
// The converter performs no schema validation: cell contents are never
// inspected. What this module does check is the *shape* of the input, and only
// as far as the configured policies ask for it:
//   - Header level: duplicate column names (policy "error")
//   - Row level:    field count different from the header (policy "strict")
//
// ERROR HANDLING:
//   - Errors are collected, not returned at the first hit
//   - Each error carries the row number and the offending field counts
//   - The collected errors are returned as one go-multierror value
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/config"
)

// =============================================================================
// VALIDATION ERROR TYPE
// =============================================================================

// ValidationError describes one shape problem in the input.
type ValidationError struct {
	// Rule is the policy that was violated ("duplicate_headers", "ragged_rows").
	Rule string

	// RowNumber is where the offending record starts: the line number for CSV
	// input, the sheet row for XLSX input.
	RowNumber int

	// Field is the column name involved, when there is one.
	Field string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d, field '%s': %s", e.RowNumber, e.Field, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.RowNumber, e.Message)
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator applies the CSV shape policies to a header and its rows.
type Validator struct {
	settings config.CSVSettings
	errors   []*ValidationError
}

// NewValidator creates a Validator for the given settings.
func NewValidator(settings config.CSVSettings) *Validator {
	return &Validator{settings: settings}
}

// ValidateHeader checks the header row. Under "last_wins" nothing is reported.
func (v *Validator) ValidateHeader(rowNumber int, headers []string) {
	if v.settings.DuplicateHeaders != config.DuplicateHeadersError {
		return
	}

	firstSeen := make(map[string]int, len(headers))
	for i, header := range headers {
		if first, ok := firstSeen[header]; ok {
			v.errors = append(v.errors, &ValidationError{
				Rule:      "duplicate_headers",
				RowNumber: rowNumber,
				Field:     header,
				Message:   fmt.Sprintf("column %d repeats the name of column %d", i+1, first+1),
			})
			continue
		}
		firstSeen[header] = i
	}
}

// ValidateRow checks the field count of one data row. Under "pad" nothing is
// reported.
//
// PARAMETERS:
//   - rowNumber: Where the row starts in the input.
//   - headerCount: The number of header columns.
//   - fieldCount: The number of fields in the row.
func (v *Validator) ValidateRow(rowNumber, headerCount, fieldCount int) {
	if v.settings.RaggedRows != config.RaggedRowsStrict {
		return
	}
	if fieldCount == headerCount {
		return
	}

	v.errors = append(v.errors, &ValidationError{
		Rule:      "ragged_rows",
		RowNumber: rowNumber,
		Message:   fmt.Sprintf("expected %d fields, got %d", headerCount, fieldCount),
	})
}

// Errors returns every error collected so far.
func (v *Validator) Errors() []*ValidationError {
	return v.errors
}

// Err returns the collected errors as a single error, or nil.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}

	result := &multierror.Error{ErrorFormat: formatErrors}
	for _, e := range v.errors {
		result = multierror.Append(result, e)
	}
	return result
}

// formatErrors renders a multierror the way the converter reports it on stderr.
func formatErrors(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = "  * " + err.Error()
	}
	noun := "problems"
	if len(errs) == 1 {
		noun = "problem"
	}
	return fmt.Sprintf("%d input shape %s:\n%s", len(errs), noun, strings.Join(lines, "\n"))
}
