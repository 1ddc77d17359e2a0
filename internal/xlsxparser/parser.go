// =============================================================================
// CSV to JSON Converter - XLSX Parser Module
// =============================================================================
//
// This module reads a worksheet from an Excel workbook and produces the same
// types.Table the CSV parser produces, so a spreadsheet exported as .xlsx
// converts exactly like its CSV export would:
//
//   Sheet1                       JSON
//   +-------+-----+              [
//   | name  | age |                {
//   +-------+-----+                  "name": "Alice",
//   | Alice | 30  |    ------>       "age": "30"
//   | Bob   | 25  |                },
//   +-------+-----+                ...
//
// Cell values are read as displayed (formatted strings), never as numbers.
//
// =============================================================================

package xlsxparser

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/csvparser"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/types"
)

// IsWorkbook reports whether path names an .xlsx file.
func IsWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// Parse reads one worksheet of an XLSX file.
//
// PARAMETERS:
//   - filePath: The path to the workbook.
//   - xlsx: Which sheet to read (empty means the first one).
//   - settings: The duplicate-header and ragged-row policies.
//
// RETURNS:
//   - A pointer to the parsed Table.
//   - An error if the workbook cannot be opened, the sheet does not exist, or a
//     strict policy is violated.
//
// ROW HANDLING:
//   - Row 1 of the sheet is the header.
//   - Completely empty rows are skipped, like blank lines in a CSV file.
//   - A sheet does not store trailing empty cells, so rows shorter than the
//     header are padded before the ragged-row policy runs. Only cells to the
//     right of the last header column count as extra fields.
func Parse(filePath string, xlsx config.XLSXSettings, settings config.CSVSettings) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open input workbook")
	}
	defer f.Close()

	sheetName, err := resolveSheet(f, xlsx.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read rows of sheet '%s'", sheetName)
	}

	var raw []csvparser.RawRow
	headerWidth := -1

	for i, row := range rows {
		if isRowEmpty(row) {
			continue
		}

		if headerWidth < 0 {
			headerWidth = len(row)
		} else if len(row) < headerWidth {
			padded := make([]string, headerWidth)
			copy(padded, row)
			row = padded
		}

		raw = append(raw, csvparser.RawRow{Line: i + 1, Fields: row})
	}

	return csvparser.BuildTable(filePath, raw, settings)
}

// resolveSheet returns the requested sheet name, or the first sheet when none
// was requested.
func resolveSheet(f *excelize.File, requested string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", errors.New("workbook has no sheets")
	}

	if requested == "" {
		return sheets[0], nil
	}

	for _, name := range sheets {
		if name == requested {
			return name, nil
		}
	}

	return "", errors.Errorf("sheet '%s' not found (available: %s)", requested, strings.Join(sheets, ", "))
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
