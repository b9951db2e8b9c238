package sink

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"rosteretl/internal/roster"
)

// XLSX writes the roster to a workbook at Path with one sheet per table, in
// write order. Ids are stored as numbers and NULL mottos as empty cells.
type XLSX struct {
	Path string
}

func (x *XLSX) Write(ctx context.Context, r *roster.Roster) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range r.Tables() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), t.Name); err != nil {
				return errors.Wrapf(err, "xlsx sink: rename sheet %s", t.Name)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return errors.Wrapf(err, "xlsx sink: new sheet %s", t.Name)
		}
		if err := writeSheet(f, t); err != nil {
			return errors.Wrapf(err, "xlsx sink: %s", t.Name)
		}
	}
	f.SetActiveSheet(0)

	dir := filepath.Dir(x.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "xlsx sink: create dir")
	}
	tmp, err := os.CreateTemp(dir, ".roster-*"+filepath.Ext(x.Path))
	if err != nil {
		return errors.Wrap(err, "xlsx sink: create temp file")
	}
	if _, err := f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "xlsx sink: save")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "xlsx sink: save")
	}
	if err := os.Rename(tmp.Name(), x.Path); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "xlsx sink: rename")
	}
	return nil
}

func writeSheet(f *excelize.File, t roster.Table) error {
	cols := roster.Columns[t.Name]
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := row.Values()
		if err := f.SetSheetRow(t.Name, axis, &vals); err != nil {
			return err
		}
	}
	return nil
}
