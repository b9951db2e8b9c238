package sink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"rosteretl/internal/roster"
)

// CSV writes each table to Dir/<table>.csv with a header row. All tables are
// staged under temporary names and renamed into place only once every one of
// them is complete.
type CSV struct {
	Dir string
}

func (c *CSV) Write(ctx context.Context, r *roster.Roster) (err error) {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return errors.Wrap(err, "csv sink: create dir")
	}

	var staged []string
	defer func() {
		if err != nil {
			for _, tmp := range staged {
				_ = os.Remove(tmp)
			}
		}
	}()

	tables := r.Tables()
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		tmp, err := c.writeTable(t)
		if err != nil {
			return errors.Wrapf(err, "csv sink: %s", t.Name)
		}
		staged = append(staged, tmp)
	}

	for _, t := range tables {
		dst := c.path(t.Name)
		if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
			return errors.Errorf("csv sink: %s is a directory", dst)
		}
	}
	for i, t := range tables {
		if err := os.Rename(staged[i], c.path(t.Name)); err != nil {
			return errors.Wrapf(err, "csv sink: %s", t.Name)
		}
	}
	return nil
}

func (c *CSV) path(table string) string { return filepath.Join(c.Dir, table+".csv") }

// writeTable writes t to a temporary file in Dir and returns its name.
func (c *CSV) writeTable(t roster.Table) (_ string, err error) {
	f, err := os.CreateTemp(c.Dir, "."+t.Name+"-*.csv")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(roster.Columns[t.Name]); err != nil {
		return "", err
	}
	rec := make([]string, len(roster.Columns[t.Name]))
	for _, row := range t.Rows {
		for i, v := range row.Values() {
			rec[i] = cell(v)
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}
