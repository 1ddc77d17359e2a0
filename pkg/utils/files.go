// =============================================================================
// CSV to JSON Converter - File Utilities
// =============================================================================
//
// Scoped file access for the converter:
//   - Input files are opened, read completely and closed before anything is
//     written.
//   - Output files are created or truncated, written through a buffer, flushed
//     and closed; a failing Close is reported as a write failure.
//
// Nothing here creates directories, renames files or writes temporary copies:
// a failed run may leave a partial output file behind.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// =============================================================================
// ENCODING ERRORS
// =============================================================================

// InvalidUTF8Error reports the first byte sequence that is not valid UTF-8.
type InvalidUTF8Error struct {
	// Path is the file that was being read.
	Path string

	// Offset is the byte position of the invalid sequence.
	Offset int

	// Byte is the first byte of the invalid sequence.
	Byte byte
}

// Error implements the error interface.
func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("%s is not valid UTF-8: invalid byte 0x%02x at offset %d", e.Path, e.Byte, e.Offset)
}

// =============================================================================
// READING
// =============================================================================

// ReadFileUTF8 reads the whole file at path and verifies it is UTF-8 text.
//
// RETURNS:
//   - The file contents.
//   - An error if the file cannot be opened or read, or an *InvalidUTF8Error.
func ReadFileUTF8(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open input file")
	}
	defer file.Close()

	data, err := io.ReadAll(bufio.NewReader(file))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read input file")
	}

	if err := CheckUTF8(path, data); err != nil {
		return nil, err
	}

	return data, nil
}

// CheckUTF8 returns an *InvalidUTF8Error (with a stack) for the first invalid
// sequence in data, or nil.
func CheckUTF8(path string, data []byte) error {
	if utf8.Valid(data) {
		return nil
	}

	for offset := 0; offset < len(data); {
		r, size := utf8.DecodeRune(data[offset:])
		if r == utf8.RuneError && size <= 1 {
			return errors.WithStack(&InvalidUTF8Error{Path: path, Offset: offset, Byte: data[offset]})
		}
		offset += size
	}

	return nil
}

// =============================================================================
// WRITING
// =============================================================================

// WriteFile creates or truncates path and writes data to it.
//
// The buffered writer is flushed and the file closed before returning; errors
// from either step are returned, so a nil error means the bytes reached the
// operating system.
func WriteFile(path string, data []byte) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to open output file")
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close output file")
		}
	}()

	writer := bufio.NewWriter(file)
	if _, err := writer.Write(data); err != nil {
		return errors.Wrap(err, "failed to write output file")
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush output file")
	}

	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// HumanBytes formats a byte count for log messages ("1.2 kB").
func HumanBytes(n int) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
