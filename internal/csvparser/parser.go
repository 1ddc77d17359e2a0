// =============================================================================
// CSV to JSON Converter - CSV Parser Module
// =============================================================================
//
// This module turns a comma-separated UTF-8 file into a types.Table:
//   - The first record is the header row
//   - Every following record becomes one types.Record keyed by the header
//   - Blank lines are skipped
//   - Quoted fields may contain commas, newlines and doubled quotes
//   - Bare quotes inside unquoted fields are kept literally
//
// The whole file is read into memory before parsing starts; there is no
// streaming mode.
//
// =============================================================================

package csvparser

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/pkg/errors"

	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/types"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/validation"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/pkg/utils"
)

// =============================================================================
// RAW ROWS
// =============================================================================

// RawRow is one record as split by a parser, before it is keyed by the header.
type RawRow struct {
	// Line is where the record starts in the input (1-indexed).
	Line int

	// Fields contains the cell values in file order.
	Fields []string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The duplicate-header and ragged-row policies.
//
// RETURNS:
//   - A pointer to the parsed Table.
//   - An error if the file cannot be read, is not UTF-8, is not valid CSV, or
//     breaks a strict policy.
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	data, err := utils.ReadFileUTF8(filePath)
	if err != nil {
		return nil, err
	}

	return ParseBytes(filePath, data, settings)
}

// ParseBytes parses CSV content that has already been read.
// source is only used for the Table and for error messages.
func ParseBytes(source string, data []byte, settings config.CSVSettings) (*types.Table, error) {
	if err := utils.CheckUTF8(source, data); err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(bytes.NewReader(data))
	configureReader(csvReader)

	var rows []RawRow
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read CSV %s", source)
		}

		line, _ := csvReader.FieldPos(0)
		rows = append(rows, RawRow{Line: line, Fields: record})
	}

	return BuildTable(source, rows, settings)
}

// configureReader sets the dialect: comma separated, lenient quoting, any
// number of fields per record, values left untrimmed.
func configureReader(reader *csv.Reader) {
	reader.Comma = ','
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = false
	reader.ReuseRecord = false
}

// =============================================================================
// TABLE CONSTRUCTION
// =============================================================================

// BuildTable keys raw rows by the first row and applies the shape policies.
// The XLSX parser uses it too, so both inputs behave identically.
//
// PARAMETERS:
//   - source: The input path, recorded on the Table.
//   - rows: Every non-blank record, header first.
//   - settings: The duplicate-header and ragged-row policies.
//
// RETURNS:
//   - The Table. An input without any row yields a Table with no headers and
//     no records.
//   - The aggregated validation error when a strict policy is violated.
func BuildTable(source string, rows []RawRow, settings config.CSVSettings) (*types.Table, error) {
	table := &types.Table{
		Source:  source,
		Records: []*types.Record{},
	}

	if len(rows) == 0 {
		return table, nil
	}

	header := rows[0]
	table.Headers = header.Fields

	validator := validation.NewValidator(settings)
	validator.ValidateHeader(header.Line, header.Fields)

	for _, row := range rows[1:] {
		validator.ValidateRow(row.Line, len(header.Fields), len(row.Fields))
		table.Records = append(table.Records, types.NewRecord(header.Fields, row.Fields))
	}

	if err := validator.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to validate %s", source)
	}

	return table, nil
}
