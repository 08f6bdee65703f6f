// Package logging builds the leveled console logger used across tada.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Options holds configuration for console logging.
type Options struct {
	Level           log.Level
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions logs warnings and errors only, without timestamps.
func DefaultOptions() Options {
	return Options{
		Level:  log.WarnLevel,
		Prefix: "tada",
	}
}

// New returns a logger writing to w, or stderr when w is nil, so log lines
// never interleave with rendered output on stdout.
func New(w io.Writer, opts Options) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}
