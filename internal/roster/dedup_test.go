package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindByName(t *testing.T) {
	t.Parallel()

	rows := []SportsKind{
		{ID: 0, Name: "Zero"},
		{ID: 4, Name: "Chess"},
		{ID: 7, Name: "Chess"},
	}

	tests := []struct {
		name   string
		query  string
		wantID int64
		wantOK bool
	}{
		{name: "id zero is still found", query: "Zero", wantID: 0, wantOK: true},
		{name: "first match wins", query: "Chess", wantID: 4, wantOK: true},
		{name: "case sensitive", query: "chess", wantOK: false},
		{name: "missing", query: "Go", wantOK: false},
		{name: "empty name", query: "", wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, ok := FindByName(rows, tt.query)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestFindByName_EmptyCollection(t *testing.T) {
	t.Parallel()

	_, ok := FindByName([]Member(nil), "Alice")
	assert.False(t, ok)
}

func TestIndex_FirstIDWins(t *testing.T) {
	t.Parallel()

	x := NewIndex()
	_, ok := x.Lookup("Alice")
	assert.False(t, ok)

	x.Add("Alice", 0)
	x.Add("Alice", 3)

	id, ok := x.Lookup("Alice")
	assert.True(t, ok)
	assert.Equal(t, int64(0), id)
}
