package roster

// Named is a row that can be matched by its natural key.
type Named interface {
	RowID() int64
	RowName() string
}

// FindByName returns the id of the first row whose name equals name
// exactly. ok is false when no row matches; a matching row with id 0 still
// reports ok.
func FindByName[T Named](rows []T, name string) (id int64, ok bool) {
	for _, r := range rows {
		if r.RowName() == name {
			return r.RowID(), true
		}
	}
	return 0, false
}

// Index answers the same question as FindByName in constant time for a
// collection that only grows by Add.
type Index struct {
	ids map[string]int64
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{ids: make(map[string]int64)}
}

// Lookup returns the id registered for name.
func (x *Index) Lookup(name string) (int64, bool) {
	id, ok := x.ids[name]
	return id, ok
}

// Add registers id for name unless name is already known; the first id
// wins, matching FindByName over the same rows.
func (x *Index) Add(name string, id int64) {
	if _, ok := x.ids[name]; ok {
		return
	}
	x.ids[name] = id
}
