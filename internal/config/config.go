// =============================================================================
// CSV to JSON Converter - Configuration Module
// =============================================================================
//
// This module loads the optional YAML settings file. With no file the
// converter behaves exactly like the classic one-shot script: lenient CSV
// parsing, last-wins duplicate headers, 2-space indented JSON with non-ASCII
// characters escaped.
//
// CONFIGURATION FILE (all keys optional):
//
//   log_level: warn
//   preview_rows: 10
//   csv:
//     duplicate_headers: last_wins   # or "error"
//     ragged_rows: pad               # or "strict"
//   json:
//     indent: 2
//     ensure_ascii: true
//     escape_html: false
//   grouping:
//     column: type
//     buckets: [experience, education]
//   xlsx:
//     sheet: Sheet1
//
// Command-line flags override values read from the file.
//
// =============================================================================

package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// POLICY VALUES
// =============================================================================

const (
	// DuplicateHeadersLastWins keeps the first position and the last value.
	DuplicateHeadersLastWins = "last_wins"

	// DuplicateHeadersError rejects a header row that repeats a name.
	DuplicateHeadersError = "error"

	// RaggedRowsPad fills missing fields with "" and drops extra fields.
	RaggedRowsPad = "pad"

	// RaggedRowsStrict fails the run on any field count mismatch.
	RaggedRowsStrict = "strict"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds every tunable of a conversion run.
type Config struct {
	// LogLevel controls the verbosity of stderr logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "warn"
	LogLevel string `yaml:"log_level"`

	// PreviewRows is the number of rows rendered by --dry-run.
	// Default: 10
	PreviewRows int `yaml:"preview_rows"`

	// CSV contains input parsing policies.
	CSV CSVSettings `yaml:"csv"`

	// JSON contains output formatting settings.
	JSON JSONSettings `yaml:"json"`

	// Grouping turns the output array into an object of buckets.
	Grouping GroupingSettings `yaml:"grouping"`

	// XLSX contains settings used when the input is a workbook.
	XLSX XLSXSettings `yaml:"xlsx"`
}

// CSVSettings contains the policies applied while turning rows into records.
type CSVSettings struct {
	// DuplicateHeaders decides what happens when two columns share a name.
	// Default: "last_wins"
	DuplicateHeaders string `yaml:"duplicate_headers"`

	// RaggedRows decides what happens when a row has more or fewer fields
	// than the header.
	// Default: "pad"
	RaggedRows string `yaml:"ragged_rows"`
}

// JSONSettings contains output formatting settings.
type JSONSettings struct {
	// Indent is the number of spaces per nesting level.
	// Default: 2
	Indent int `yaml:"indent"`

	// EnsureASCII escapes every non-ASCII character as \uXXXX.
	// Default: true
	EnsureASCII *bool `yaml:"ensure_ascii"`

	// EscapeHTML escapes <, > and & as \u003c, \u003e and \u0026.
	// Default: false
	EscapeHTML bool `yaml:"escape_html"`
}

// GroupingSettings configures grouped output.
type GroupingSettings struct {
	// Column is the header whose lower-cased value selects the bucket.
	// Empty disables grouping.
	Column string `yaml:"column"`

	// Buckets restricts and orders the emitted buckets.
	// Empty means every value seen, in first-seen order.
	Buckets []string `yaml:"buckets"`
}

// XLSXSettings configures workbook input.
type XLSXSettings struct {
	// Sheet is the worksheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

// ASCIIOnly reports whether non-ASCII output characters must be escaped.
func (s JSONSettings) ASCIIOnly() bool {
	return s.EnsureASCII == nil || *s.EnsureASCII
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a configuration file. An empty path returns Default().
//
// PARAMETERS:
//   - configPath: The path to the YAML file, or "".
//
// RETURNS:
//   - A pointer to the validated Config.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	return Parse(data)
}

// Parse decodes YAML configuration bytes, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset option.
func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.PreviewRows == 0 {
		cfg.PreviewRows = 10
	}
	if cfg.CSV.DuplicateHeaders == "" {
		cfg.CSV.DuplicateHeaders = DuplicateHeadersLastWins
	}
	if cfg.CSV.RaggedRows == "" {
		cfg.CSV.RaggedRows = RaggedRowsPad
	}
	if cfg.JSON.Indent == 0 {
		cfg.JSON.Indent = 2
	}
	if cfg.JSON.EnsureASCII == nil {
		on := true
		cfg.JSON.EnsureASCII = &on
	}
}

// Validate checks that every option holds a supported value.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.Errorf("unknown log_level %q", c.LogLevel)
	}

	switch c.CSV.DuplicateHeaders {
	case DuplicateHeadersLastWins, DuplicateHeadersError:
	default:
		return errors.Errorf("unknown csv.duplicate_headers %q", c.CSV.DuplicateHeaders)
	}

	switch c.CSV.RaggedRows {
	case RaggedRowsPad, RaggedRowsStrict:
	default:
		return errors.Errorf("unknown csv.ragged_rows %q", c.CSV.RaggedRows)
	}

	if c.JSON.Indent < 0 {
		return errors.Errorf("json.indent must not be negative, got %d", c.JSON.Indent)
	}

	if c.PreviewRows < 0 {
		return errors.Errorf("preview_rows must not be negative, got %d", c.PreviewRows)
	}

	if len(c.Grouping.Buckets) > 0 && c.Grouping.Column == "" {
		return errors.New("grouping.buckets requires grouping.column")
	}

	return nil
}

// NormalizedBuckets returns the configured bucket names lower-cased, trimmed
// and de-duplicated, preserving order.
func (g GroupingSettings) NormalizedBuckets() []string {
	seen := make(map[string]bool, len(g.Buckets))
	var out []string
	for _, bucket := range g.Buckets {
		b := strings.ToLower(strings.TrimSpace(bucket))
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}
