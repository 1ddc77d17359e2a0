// =============================================================================
// CSV to JSON Converter - Logging
// =============================================================================
//
// Diagnostics go to stderr so that stdout carries nothing but the usage line,
// the summary line or the dry-run preview.
//
// =============================================================================

package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// New creates a logrus logger writing to out at the given level.
// A nil out means os.Stderr.
func New(level string, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stderr
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse log level %q", level)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
		TimestampFormat:  "2006-01-02 15:04:05.000",
	})

	return logger, nil
}

// Discard returns a logger that drops everything. Used by tests and library
// callers that do not care about diagnostics.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
