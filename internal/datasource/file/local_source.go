// Package file reads team lists and location lists from the local disk.
package file

import (
	"context"
	"io"
	"os"

	"github.com/go-faster/errors"
)

// ErrIsDir is returned when a location names a directory.
var ErrIsDir = errors.New("location is a directory")

// Local opens one team-list file. It is safe for concurrent use.
type Local struct{ path string }

func NewLocal(path string) *Local { return &Local{path: path} }

func (l *Local) Path() string { return l.path }

// Open opens the file for reading. A done context short-circuits before the
// filesystem is touched. Errors name the path and keep matching
// errors.Is(err, os.ErrNotExist).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", l.path)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "stat %s", l.path)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, errors.Wrapf(ErrIsDir, "open %s", l.path)
	}
	return f, nil
}
