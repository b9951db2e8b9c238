// Package sink delivers a normalized roster to its destination: a database
// through a persistence session, a directory of CSV files or an XLSX
// workbook.
package sink

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"rosteretl/internal/persist"
	"rosteretl/internal/roster"
	"rosteretl/internal/storage"
)

// Kind selects the destination.
type Kind int

const (
	KindDB Kind = iota + 1
	KindCSV
	KindXLSX
)

// ErrUnknownKind is returned for sink names other than db, csv and xlsx.
var ErrUnknownKind = errors.New("unknown sink kind")

func (k Kind) String() string {
	switch k {
	case KindDB:
		return "db"
	case KindCSV:
		return "csv"
	case KindXLSX:
		return "xlsx"
	}
	return "unknown"
}

// ParseKind maps a config value to a Kind. "" means db.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "db":
		return KindDB, nil
	case "csv":
		return KindCSV, nil
	case "xlsx":
		return KindXLSX, nil
	}
	return 0, errors.Wrapf(ErrUnknownKind, "%q", s)
}

// Sink writes one roster. The file sinks stage their output and move it into
// place only after every table is written, so a failed Write leaves no new
// files behind. The db sink keeps whatever tables were committed before a
// failure unless atomic writes are on.
type Sink interface {
	Write(ctx context.Context, r *roster.Roster) error
}

// Config carries the settings of every kind; only those of Kind are read.
type Config struct {
	Kind Kind

	// Dir receives one <table>.csv file per table.
	Dir string
	// Path is the XLSX workbook file.
	Path string

	DB storage.Params
	// Session options for KindDB (observer, atomic writes, run id).
	Session []persist.Option
}

// New builds the sink selected by cfg.Kind.
func New(cfg Config) (Sink, error) {
	switch cfg.Kind {
	case KindDB:
		if err := cfg.DB.Validate(); err != nil {
			return nil, errors.Wrap(err, "db sink")
		}
		return &DB{params: cfg.DB, opts: cfg.Session}, nil
	case KindCSV:
		if cfg.Dir == "" {
			return nil, errors.New("csv sink: sink.dir is required")
		}
		return &CSV{Dir: cfg.Dir}, nil
	case KindXLSX:
		if cfg.Path == "" {
			return nil, errors.New("xlsx sink: sink.path is required")
		}
		return &XLSX{Path: cfg.Path}, nil
	}
	return nil, errors.Wrapf(ErrUnknownKind, "%d", int(cfg.Kind))
}

// DB persists the roster through a new persist.Session per Write. The
// returned error is the session's *persist.Error on failure.
type DB struct {
	params storage.Params
	opts   []persist.Option
}

func (d *DB) Write(ctx context.Context, r *roster.Roster) (err error) {
	s, err := persist.New(d.params, d.opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close session")
		}
	}()
	return s.Persist(ctx, r)
}

// cell renders a row value as text. NULL becomes the empty string.
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return fmt.Sprint(v)
}
