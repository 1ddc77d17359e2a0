// =============================================================================
// CSV to JSON Converter - Grouping
// =============================================================================
//
// Grouped output turns a flat list of records into a JSON object of buckets,
// keyed by the lower-cased value of one column:
//
//   type,title              {
//   Experience,Engineer       "experience": [ { "title": "Engineer" } ],
//   education,BSc     --->    "education":  [ { "title": "BSc" } ]
//                           }
//
// The grouping column itself is removed from every grouped record.
//
// BUCKET ORDER:
//   - With an explicit bucket list, exactly those buckets are emitted, in the
//     given order, even when empty. Records in other buckets are dropped.
//   - Without one, buckets appear in the order their first record appears.
//     Records with an empty grouping value are dropped.
//
// =============================================================================

package converter

import (
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/types"
)

// BucketCount is the number of records that ended up in one bucket.
type BucketCount struct {
	Name  string
	Count int
}

// Groups is the grouped form of a table.
type Groups struct {
	// Column is the header the records were grouped by.
	Column string

	// Dropped counts records that did not land in any emitted bucket.
	Dropped int

	buckets *orderedmap.OrderedMap
}

// Group buckets the records of table by settings.Column.
//
// PARAMETERS:
//   - table: The parsed input.
//   - settings: The grouping column and optional bucket list.
//
// RETURNS:
//   - The grouped records, or nil when no column is configured or the column
//     is not part of the header. Callers fall back to the plain array then.
func Group(table *types.Table, settings config.GroupingSettings) *Groups {
	if settings.Column == "" || !table.HasColumn(settings.Column) {
		return nil
	}

	groups := &Groups{
		Column:  settings.Column,
		buckets: orderedmap.New(),
	}
	groups.buckets.SetEscapeHTML(false)

	allowed := settings.NormalizedBuckets()
	for _, name := range allowed {
		groups.buckets.Set(name, []*types.Record{})
	}

	for _, record := range table.Records {
		value, _ := record.Get(settings.Column)
		name := strings.ToLower(value)

		current, exists := groups.buckets.Get(name)
		switch {
		case exists:
		case len(allowed) > 0 || name == "":
			groups.Dropped++
			continue
		default:
			current = []*types.Record{}
		}

		groups.buckets.Set(name, append(current.([]*types.Record), record.Without(settings.Column)))
	}

	return groups
}

// Counts returns the size of every bucket in output order.
func (g *Groups) Counts() []BucketCount {
	keys := g.buckets.Keys()
	counts := make([]BucketCount, len(keys))
	for i, name := range keys {
		counts[i] = BucketCount{Name: name, Count: len(g.records(name))}
	}
	return counts
}

// Total returns the number of records across all buckets.
func (g *Groups) Total() int {
	total := 0
	for _, c := range g.Counts() {
		total += c.Count
	}
	return total
}

// SetEscapeHTML controls HTML escaping for the bucket names and every record.
func (g *Groups) SetEscapeHTML(on bool) {
	g.buckets.SetEscapeHTML(on)
	for _, name := range g.buckets.Keys() {
		for _, record := range g.records(name) {
			record.SetEscapeHTML(on)
		}
	}
}

// MarshalJSON encodes the buckets as one JSON object.
func (g *Groups) MarshalJSON() ([]byte, error) {
	return g.buckets.MarshalJSON()
}

func (g *Groups) records(name string) []*types.Record {
	value, _ := g.buckets.Get(name)
	records, _ := value.([]*types.Record)
	return records
}
