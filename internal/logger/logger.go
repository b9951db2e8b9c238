// Package logger builds the zerolog logger shared by the command and the
// persistence observer.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
)

// Format selects the log encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config mirrors the log block of the application config.
type Config struct {
	Level  string
	Format Format
	// File, when set, receives the log output instead of stderr. The file is
	// appended to and created if missing.
	File string
}

// New returns a logger writing to w at the given level. An empty level means
// info; an empty format means console.
func New(level string, format Format, w io.Writer) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	switch format {
	case "", FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !isTerminal(w)}
	case FormatJSON:
	default:
		return zerolog.Nop(), errors.Errorf("log.format %q: want console or json", format)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// Open builds a logger from cfg. The returned close function releases the log
// file, if any, and is safe to call when no file was opened.
func Open(cfg Config) (zerolog.Logger, func() error, error) {
	var (
		w       io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closeFn, errors.Wrap(err, "open log file")
		}
		w, closeFn = f, f.Close
	}

	l, err := New(cfg.Level, cfg.Format, w)
	if err != nil {
		_ = closeFn()
		return zerolog.Nop(), func() error { return nil }, err
	}
	return l, closeFn, nil
}

// ParseLevel accepts zerolog level names case-insensitively; "" is info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(err, "log.level %q", s)
	}
	return lvl, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
