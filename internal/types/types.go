// =============================================================================
// CSV to JSON Converter - Shared Types
// =============================================================================
//
// This package contains the types shared by the parsers, the converter and the
// JSON writer. Keeping them here avoids import cycles between:
//   - csvparser / xlsxparser (produce tables)
//   - converter             (groups and counts records)
//   - jsonwriter            (serializes records)
//
// =============================================================================

package types

import (
	"github.com/iancoleman/orderedmap"
)

// =============================================================================
// RECORD
// =============================================================================

// Record is one data row: an ordered mapping from column name to cell value.
//
// Keys keep the order of the header row. Values are always strings; no type
// coercion happens anywhere in the pipeline.
type Record struct {
	fields *orderedmap.OrderedMap
}

// NewRecord builds a Record from a header row and the fields of one data row.
//
// PARAMETERS:
//   - headers: The column names, in file order.
//   - values:  The cells of the data row, in file order.
//
// FIELD COUNT MISMATCHES:
//   - Missing trailing cells become "".
//   - Cells beyond the last header are dropped.
//
// DUPLICATE HEADERS:
//   The first occurrence of a name fixes its position; the value of the last
//   occurrence wins.
func NewRecord(headers []string, values []string) *Record {
	fields := orderedmap.New()
	fields.SetEscapeHTML(false)

	for i, header := range headers {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		fields.Set(header, value)
	}

	return &Record{fields: fields}
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (string, bool) {
	value, ok := r.fields.Get(key)
	if !ok {
		return "", false
	}
	s, _ := value.(string)
	return s, true
}

// Keys returns the column names in output order.
func (r *Record) Keys() []string {
	keys := r.fields.Keys()
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Values returns the cell values in key order.
func (r *Record) Values() []string {
	keys := r.fields.Keys()
	out := make([]string, len(keys))
	for i, key := range keys {
		out[i], _ = r.Get(key)
	}
	return out
}

// Len returns the number of keys in the record.
func (r *Record) Len() int {
	return len(r.fields.Keys())
}

// Without returns a copy of the record with key removed.
// The receiver is left untouched.
func (r *Record) Without(key string) *Record {
	fields := orderedmap.New()
	for _, k := range r.fields.Keys() {
		if k == key {
			continue
		}
		v, _ := r.fields.Get(k)
		fields.Set(k, v)
	}
	clone := &Record{fields: fields}
	clone.SetEscapeHTML(false)
	return clone
}

// SetEscapeHTML controls whether <, > and & are escaped when the record is
// marshaled. Records are created with escaping off.
func (r *Record) SetEscapeHTML(on bool) {
	r.fields.SetEscapeHTML(on)
}

// MarshalJSON encodes the record as a JSON object with keys in header order.
func (r *Record) MarshalJSON() ([]byte, error) {
	return r.fields.MarshalJSON()
}

// =============================================================================
// TABLE
// =============================================================================

// Table is a fully materialized input file.
type Table struct {
	// Source is the path the table was read from.
	Source string

	// Headers contains the column names from the first row, in file order.
	// Duplicate names are kept here even though a Record stores each once.
	Headers []string

	// Records contains the data rows in file order.
	Records []*Record
}

// Len returns the number of data rows (the header row is not counted).
func (t *Table) Len() int {
	return len(t.Records)
}

// HasColumn reports whether name appears in the header row.
func (t *Table) HasColumn(name string) bool {
	for _, header := range t.Headers {
		if header == name {
			return true
		}
	}
	return false
}
