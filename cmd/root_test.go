package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args and returns the exit status and both streams.
func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_UsageWithoutArguments(t *testing.T) {
	for _, args := range [][]string{nil, {"only-input.csv"}} {
		code, stdout, stderr := execute(t, args...)

		assert.Equal(t, 1, code)
		assert.Equal(t, usageLine+"\n", stdout)
		assert.Empty(t, stderr)
	}
}

func TestRun_UsageTouchesNoFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "missing.csv")

	code, stdout, _ := execute(t, input)
	assert.Equal(t, 1, code)
	assert.Equal(t, usageLine+"\n", stdout)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "people.csv", "name,age\nAlice,30\nBob,25\n")
	output := filepath.Join(dir, "people.json")

	code, stdout, stderr := execute(t, input, output)
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, "Wrote 2 rows to "+output+"\n", stdout)
	assert.Empty(t, stderr)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"name\": \"Alice\",\n    \"age\": \"30\"\n  },\n  {\n    \"name\": \"Bob\",\n    \"age\": \"25\"\n  }\n]", string(data))
}

func TestRun_ExtraArgumentsIgnored(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "in.csv", "a\n1\n")
	output := filepath.Join(dir, "out.json")

	code, stdout, _ := execute(t, input, output, "ignored")
	require.Equal(t, 0, code)
	assert.Equal(t, "Wrote 1 rows to "+output+"\n", stdout)
}

func TestRun_EmptyDataset(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "empty.csv", "name,age\n")
	output := filepath.Join(dir, "empty.json")

	code, stdout, _ := execute(t, input, output)
	require.Equal(t, 0, code)
	assert.Equal(t, "Wrote 0 rows to "+output+"\n", stdout)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.json")

	code, stdout, stderr := execute(t, filepath.Join(dir, "nope.csv"), output)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: failed to open input file")
	assert.NoFileExists(t, output)
}

func TestRun_VerboseErrorIncludesStack(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := execute(t, filepath.Join(dir, "nope.csv"), filepath.Join(dir, "out.json"), "-v")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: ")
	assert.Contains(t, stderr, ".go:")
}

func TestRun_Grouping(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "timeline.csv",
		"type,title\nexperience,Engineer\neducation,BSc\nExperience,Intern\naward,Prize\n")
	output := filepath.Join(dir, "timeline.json")

	code, stdout, stderr := execute(t, input, output, "--group-by", "type", "--groups", "experience,education")
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, "Wrote grouped type with 2 experience and 1 education entries to "+output+"\n", stdout)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"experience\": [")
	assert.NotContains(t, string(data), "\"type\"")
	assert.NotContains(t, string(data), "Prize")
}

func TestRun_DryRun(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "in.csv", "name,age\nAlice,30\n")
	output := filepath.Join(dir, "out.json")

	code, stdout, _ := execute(t, input, output, "--dry-run")
	require.Equal(t, 0, code)

	assert.Contains(t, stdout, "Alice")
	assert.Contains(t, stdout, "Would write 1 rows to "+output+"\n")
	assert.NoFileExists(t, output)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "in.csv", "a,b\n1\n")
	cfg := writeFile(t, dir, "config.yaml", "csv:\n  ragged_rows: strict\n")
	output := filepath.Join(dir, "out.json")

	code, _, stderr := execute(t, input, output, "--config", cfg)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "row 2: expected 2 fields, got 1")
	assert.NoFileExists(t, output)
}

func TestRun_InvalidFlagValue(t *testing.T) {
	code, _, stderr := execute(t, "in.csv", "out.json", "--log-level", "loud")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid configuration")
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := execute(t, "--version")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "CSV to JSON Converter")
	assert.Contains(t, stdout, "Version:    "+Version)
	assert.Contains(t, stdout, "Go Version: "+runtime.Version())
}
