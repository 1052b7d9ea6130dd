// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls logger construction.
type Options struct {
	// Level is a zerolog level name; unknown names fall back to info.
	Level string
	// Format is "console" for human-readable output or "json".
	Format string
	// WithCaller adds file:line of the call site.
	WithCaller bool
	// Writer overrides the output destination; defaults to stderr.
	Writer io.Writer
}

// New builds a logger from options.
func New(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	out := opts.Writer
	if out == nil {
		out = os.Stderr
	}
	if strings.ToLower(opts.Format) != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.WithCaller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Init builds a logger and installs it as the global zerolog logger, so
// packages logging through zerolog/log share the same configuration.
func Init(opts Options) zerolog.Logger {
	l := New(opts)
	log.Logger = l
	zerolog.DefaultContextLogger = &l
	return l
}
