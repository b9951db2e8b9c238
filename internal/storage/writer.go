package storage

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"

	"rosteretl/internal/roster"
)

// ErrColumnMismatch is returned when a record's columns differ from those of
// the first record of the same table.
var ErrColumnMismatch = errors.New("record columns differ from first record")

// Writer inserts whole tables with multi-row INSERT statements.
type Writer struct {
	d    Dialect
	bind int
}

// NewWriter returns a Writer rendering statements for d.
func NewWriter(d Dialect) *Writer {
	return &Writer{d: d, bind: sqlx.BindType(d.DriverName())}
}

// WriteTable inserts rows into table and returns the number of rows written.
//
// Column names come from the first record and every other record must report
// the same columns. Values are always bound as parameters. An empty rows is a
// successful no-op. When the table exceeds the dialect's statement limits it
// is written as consecutive chunks, and the first failing chunk stops the
// write.
func (w *Writer) WriteTable(ctx context.Context, ex Execer, table string, rows []roster.Record) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	cols := rows[0].Columns()
	if len(cols) == 0 {
		return 0, errors.Errorf("%s: first record has no columns", table)
	}
	for i, r := range rows[1:] {
		if !sameColumns(cols, r.Columns()) {
			return 0, errors.Wrapf(ErrColumnMismatch, "%s: row %d", table, i+1)
		}
	}

	var written int64
	for _, chunk := range chunkRows(rows, w.chunkSize(len(cols))) {
		query, args := w.insert(table, cols, chunk)
		if _, err := ex.ExecContext(ctx, query, args...); err != nil {
			return written, errors.Wrapf(err, "insert into %s", table)
		}
		written += int64(len(chunk))
	}
	return written, nil
}

// InsertSQL renders the statement WriteTable would run for n rows of cols.
func (w *Writer) InsertSQL(table string, cols []string, n int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(w.d.Quote(table))
	b.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(w.d.Quote(c))
	}
	b.WriteString(") VALUES ")

	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tuple)
	}
	return w.d.WrapInsert(table, sqlx.Rebind(w.bind, b.String()))
}

func (w *Writer) insert(table string, cols []string, rows []roster.Record) (string, []any) {
	args := make([]any, 0, len(rows)*len(cols))
	for _, r := range rows {
		args = append(args, r.Values()...)
	}
	return w.InsertSQL(table, cols, len(rows)), args
}

func (w *Writer) chunkSize(ncols int) int {
	lim := w.d.Limits()
	size := 0
	if lim.MaxParams > 0 {
		size = lim.MaxParams / ncols
		if size < 1 {
			size = 1
		}
	}
	if lim.MaxRows > 0 && (size == 0 || lim.MaxRows < size) {
		size = lim.MaxRows
	}
	return size
}

// chunkRows splits rows into consecutive slices of at most size rows; a
// non-positive size yields a single chunk.
func chunkRows(rows []roster.Record, size int) [][]roster.Record {
	if size <= 0 || len(rows) <= size {
		return [][]roster.Record{rows}
	}
	out := make([][]roster.Record, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
