package competition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberListKeepsOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	team := Team{
		Name:       "Falcons",
		SportsKind: "Chess",
		Members: []Member{
			{Name: "Bob", Passport: "P2"},
			{Name: "Alice", Passport: "P1"},
			{Name: "Bob", Passport: "P9"},
		},
	}

	assert.Equal(t, []string{"Bob", "Alice", "Bob"}, team.MemberList())
}

func TestMemberByReturnsFirstMatch(t *testing.T) {
	t.Parallel()

	team := Team{Members: []Member{
		{Name: "Bob", Passport: "P2"},
		{Name: "Bob", Passport: "P9"},
	}}

	m, ok := team.MemberBy("Bob")
	require.True(t, ok)
	assert.Equal(t, "P2", m.Passport)

	_, ok = team.MemberBy("bob")
	assert.False(t, ok, "lookup is case-sensitive")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	motto := "Fly high"
	tests := []struct {
		name    string
		teams   []Team
		wantErr string
	}{
		{name: "empty list", teams: nil},
		{
			name: "valid",
			teams: []Team{{
				Name: "Falcons", SportsKind: "Chess", Motto: &motto,
				Members: []Member{{Name: "Alice", Passport: "P1"}},
			}},
		},
		{name: "team without members", teams: []Team{{Name: "Solo", SportsKind: "Chess"}}},
		{
			name:    "missing sports kind",
			teams:   []Team{{Name: "Falcons"}},
			wantErr: `team[0] "Falcons"`,
		},
		{
			name: "member without passport",
			teams: []Team{
				{Name: "A", SportsKind: "Chess"},
				{Name: "B", SportsKind: "Chess", Members: []Member{{Name: "Carol"}}},
			},
			wantErr: "Passport failed required",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.teams)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
