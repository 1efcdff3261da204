package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the process logger, writing human-readable output to stderr
// so it never interleaves with scan output on stdout.
func New(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
