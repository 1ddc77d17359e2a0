// =============================================================================
// CSV to JSON Converter - JSON Writer Module
// =============================================================================
//
// This module serializes records and writes the output file. The default
// options reproduce the layout of Python's json.dump(rows, f, indent=2)
// byte for byte:
//
//   [
//     {
//       "name": "Alice",
//       "age": "30"
//     }
//   ]
//
//   - 2-space indentation, ": " between key and value
//   - no trailing newline
//   - "[]" for an empty array
//   - <, > and & left as they are
//   - every non-ASCII character (and DEL) written as \uXXXX, characters above
//     U+FFFF as a UTF-16 surrogate pair
//
// =============================================================================

package jsonwriter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/internal/types"
	"github.com/ginjaninja78/CSV-to-JSON-conversion/pkg/utils"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls the JSON layout.
type Options struct {
	// Indent is the number of spaces per nesting level.
	Indent int

	// EnsureASCII escapes every non-ASCII character.
	EnsureASCII bool

	// EscapeHTML escapes <, > and &.
	EscapeHTML bool
}

// DefaultOptions returns the Python-compatible layout.
func DefaultOptions() Options {
	return Options{
		Indent:      2,
		EnsureASCII: true,
		EscapeHTML:  false,
	}
}

// OptionsFrom converts the JSON section of the configuration.
func OptionsFrom(settings config.JSONSettings) Options {
	return Options{
		Indent:      settings.Indent,
		EnsureASCII: settings.ASCIIOnly(),
		EscapeHTML:  settings.EscapeHTML,
	}
}

// htmlEscaper is implemented by payloads that marshal through their own
// encoder and therefore need to be told about HTML escaping.
type htmlEscaper interface {
	SetEscapeHTML(on bool)
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode serializes payload with the given options.
//
// PARAMETERS:
//   - payload: Usually []*types.Record, or any value implementing
//     json.Marshaler (grouped output).
//   - options: Layout options.
//
// RETURNS:
//   - The encoded document without a trailing newline.
//   - An error if the payload cannot be marshaled.
func Encode(payload interface{}, options Options) ([]byte, error) {
	switch p := payload.(type) {
	case []*types.Record:
		if p == nil {
			payload = []*types.Record{}
		}
		for _, record := range p {
			record.SetEscapeHTML(options.EscapeHTML)
		}
	case htmlEscaper:
		p.SetEscapeHTML(options.EscapeHTML)
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(options.EscapeHTML)
	if options.Indent > 0 {
		encoder.SetIndent("", strings.Repeat(" ", options.Indent))
	}

	if err := encoder.Encode(payload); err != nil {
		return nil, errors.Wrap(err, "failed to encode JSON")
	}

	// Encoder.Encode always terminates the value with a newline.
	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	if options.EnsureASCII {
		out = escapeNonASCII(out)
	}

	return out, nil
}

// escapeNonASCII rewrites every rune outside printable ASCII that survived the
// encoder as a \uXXXX escape. The encoder has already escaped control
// characters, so anything left above 0x7E can only sit inside a string.
func escapeNonASCII(data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data))

	for i := 0; i < len(data); {
		b := data[i]
		if b < utf8.RuneSelf && b != 0x7f {
			buf.WriteByte(b)
			i++
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		i += size

		if r > 0xFFFF {
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&buf, `\u%04x\u%04x`, r1, r2)
			continue
		}
		fmt.Fprintf(&buf, `\u%04x`, r)
	}

	return buf.Bytes()
}

// =============================================================================
// FILE OUTPUT
// =============================================================================

// WriteFile creates or truncates path and writes the encoded document.
func WriteFile(path string, document []byte) error {
	if err := utils.WriteFile(path, document); err != nil {
		return errors.WithMessagef(err, "failed to write %s", path)
	}
	return nil
}
