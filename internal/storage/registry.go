package storage

import (
	"sort"
	"sync"

	"github.com/go-faster/errors"
)

// ErrUnsupported is returned by Lookup for kinds nobody registered.
var ErrUnsupported = errors.New("unsupported storage driver")

var (
	mu       sync.RWMutex
	dialects = map[string]Dialect{}
)

// Register makes a dialect available under d.Kind(). Registering the same
// kind twice replaces the earlier dialect.
func Register(d Dialect) {
	mu.Lock()
	defer mu.Unlock()
	dialects[d.Kind()] = d
}

// Lookup returns the dialect registered for kind.
func Lookup(kind string) (Dialect, error) {
	mu.RLock()
	d, ok := dialects[kind]
	mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnsupported, "driver=%q (have %v)", kind, ListKinds())
	}
	return d, nil
}

// ListKinds returns a sorted snapshot of the registered kinds.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(dialects))
	for k := range dialects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
