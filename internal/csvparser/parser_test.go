package csvparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/types"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/pkg/utils"
)

func defaults() config.CSVSettings {
	return config.Default().CSV
}

func parse(t *testing.T, content string, settings config.CSVSettings) *types.Table {
	t.Helper()
	table, err := ParseBytes("test.csv", []byte(content), settings)
	require.NoError(t, err)
	return table
}

func values(table *types.Table) [][]string {
	out := make([][]string, len(table.Records))
	for i, r := range table.Records {
		out[i] = r.Values()
	}
	return out
}

func TestParse_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,age\nAlice,30\nBob,25\n"), 0644))

	table, err := Parse(path, defaults())
	require.NoError(t, err)

	assert.Equal(t, path, table.Source)
	assert.Equal(t, []string{"name", "age"}, table.Headers)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, [][]string{{"Alice", "30"}, {"Bob", "25"}}, values(table))
	for _, r := range table.Records {
		assert.Equal(t, []string{"name", "age"}, r.Keys())
	}
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.csv"), defaults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
}

func TestParse_InvalidUTF8(t *testing.T) {
	_, err := ParseBytes("bad.csv", []byte("name\n\xff\xfe\n"), defaults())
	require.Error(t, err)

	var utfErr *utils.InvalidUTF8Error
	assert.ErrorAs(t, err, &utfErr)
}

func TestParse_Quoting(t *testing.T) {
	content := "a,b\n" +
		"\"x,y\",\"say \"\"hi\"\"\"\n" +
		"\"multi\nline\",plain\n"

	table := parse(t, content, defaults())

	assert.Equal(t, [][]string{
		{"x,y", `say "hi"`},
		{"multi\nline", "plain"},
	}, values(table))
}

func TestParse_QuotedHeader(t *testing.T) {
	table := parse(t, "\"last, first\",\"q\"\"uote\"\n1,2\n", defaults())

	assert.Equal(t, []string{"last, first", `q"uote`}, table.Headers)
}

func TestParse_BareQuoteKeptLiterally(t *testing.T) {
	table := parse(t, "a,b\n5\"6,x\n", defaults())

	assert.Equal(t, [][]string{{`5"6`, "x"}}, values(table))
}

func TestParse_CRLFAndBlankLines(t *testing.T) {
	table := parse(t, "name,age\r\n\r\nAlice,30\r\n\r\nBob,25\r\n", defaults())

	assert.Equal(t, [][]string{{"Alice", "30"}, {"Bob", "25"}}, values(table))
}

func TestParse_NoTrailingNewline(t *testing.T) {
	table := parse(t, "name,age\nAlice,30", defaults())

	assert.Equal(t, 1, table.Len())
}

func TestParse_WhitespaceIsPreserved(t *testing.T) {
	table := parse(t, "a,b\n  padded , x\n", defaults())

	assert.Equal(t, [][]string{{"  padded ", " x"}}, values(table))
}

func TestParse_EmptyFieldsRowIsKept(t *testing.T) {
	table := parse(t, "a,b\n,\n", defaults())

	assert.Equal(t, [][]string{{"", ""}}, values(table))
}

func TestParse_HeaderOnly(t *testing.T) {
	table := parse(t, "name,age\n", defaults())

	assert.Equal(t, []string{"name", "age"}, table.Headers)
	assert.Equal(t, 0, table.Len())
	assert.NotNil(t, table.Records)
}

func TestParse_EmptyInput(t *testing.T) {
	table := parse(t, "", defaults())

	assert.Empty(t, table.Headers)
	assert.Equal(t, 0, table.Len())
}

func TestParse_RaggedRowsPadded(t *testing.T) {
	table := parse(t, "a,b,c\n1\n1,2,3,4,5\n", defaults())

	assert.Equal(t, [][]string{{"1", "", ""}, {"1", "2", "3"}}, values(table))
	assert.Equal(t, []string{"a", "b", "c"}, table.Records[0].Keys())
}

func TestParse_RaggedRowsStrict(t *testing.T) {
	settings := defaults()
	settings.RaggedRows = config.RaggedRowsStrict

	_, err := ParseBytes("ragged.csv", []byte("a,b\n1,2\n1\n\n1,2,3\n"), settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to validate ragged.csv")
	assert.Contains(t, err.Error(), "row 3: expected 2 fields, got 1")
	assert.Contains(t, err.Error(), "row 5: expected 2 fields, got 3")
}

func TestParse_DuplicateHeadersLastWins(t *testing.T) {
	table := parse(t, "id,name,id\n1,Alice,2\n", defaults())

	assert.Equal(t, []string{"id", "name", "id"}, table.Headers)
	rec := table.Records[0]
	assert.Equal(t, []string{"id", "name"}, rec.Keys())
	id, _ := rec.Get("id")
	assert.Equal(t, "2", id)
}

func TestParse_DuplicateHeadersError(t *testing.T) {
	settings := defaults()
	settings.DuplicateHeaders = config.DuplicateHeadersError

	_, err := ParseBytes("dup.csv", []byte("id,name,id\n1,Alice,2\n"), settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1, field 'id': column 3 repeats the name of column 1")
}

func TestBuildTable_LineNumbersFromSource(t *testing.T) {
	settings := defaults()
	settings.RaggedRows = config.RaggedRowsStrict

	rows := []RawRow{
		{Line: 3, Fields: []string{"a", "b"}},
		{Line: 7, Fields: []string{"only"}},
	}

	_, err := BuildTable("sheet", rows, settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 7: expected 2 fields, got 1")
}
