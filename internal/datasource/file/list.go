package file

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
)

// ReadList reads a list of source locations, one per line, in file order.
// Blank lines and lines starting with '#' are skipped. Relative local paths
// are resolved against the directory of the list file, so a list can sit
// next to the team files it names; URLs are returned as written.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open list")
	}
	defer f.Close()

	base := filepath.Dir(path)
	var out []string
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		loc := strings.TrimSpace(sc.Text())
		if n == 1 {
			loc = strings.TrimPrefix(loc, "\ufeff")
		}
		if loc == "" || strings.HasPrefix(loc, "#") {
			continue
		}
		if !strings.Contains(loc, "://") && !filepath.IsAbs(loc) {
			loc = filepath.Join(base, loc)
		}
		out = append(out, loc)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read list %s", path)
	}
	return out, nil
}
