package roster

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosteretl/internal/competition"
)

func strPtr(s string) *string { return &s }

func member(name, passport string) competition.Member {
	return competition.Member{Name: name, Passport: passport}
}

// TestNormalize_TwoTeamsSharedMember covers two teams in the same sports kind
// sharing one member.
func TestNormalize_TwoTeamsSharedMember(t *testing.T) {
	t.Parallel()

	teams := []competition.Team{
		{
			Name: "Falcons", SportsKind: "Chess", Motto: strPtr("Fly high"),
			Members: []competition.Member{member("Alice", "P1"), member("Bob", "P2")},
		},
		{
			Name: "Eagles", SportsKind: "Chess",
			Members: []competition.Member{member("Alice", "P1"), member("Carol", "P3")},
		},
	}

	r := Normalize(teams)

	assert.Equal(t, []SportsKind{{ID: 1, Name: "Chess"}}, r.SportsKinds)
	assert.Equal(t, []Team{
		{ID: 1, Name: "Falcons", SportsKindID: 1, Motto: strPtr("Fly high")},
		{ID: 2, Name: "Eagles", SportsKindID: 1, Motto: nil},
	}, r.Teams)
	assert.Equal(t, []Member{
		{ID: 1, Name: "Alice", Passport: "P1"},
		{ID: 2, Name: "Bob", Passport: "P2"},
		{ID: 3, Name: "Carol", Passport: "P3"},
	}, r.Members)
	assert.Equal(t, []Membership{
		{ID: 1, MemberID: 1, TeamID: 1},
		{ID: 2, MemberID: 2, TeamID: 1},
		{ID: 3, MemberID: 1, TeamID: 2},
		{ID: 4, MemberID: 3, TeamID: 2},
	}, r.Memberships)
}

func TestNormalize_EmptyInput(t *testing.T) {
	t.Parallel()

	r := Normalize(nil)

	assert.Empty(t, r.SportsKinds)
	assert.Empty(t, r.Teams)
	assert.Empty(t, r.Members)
	assert.Empty(t, r.Memberships)
	for _, tbl := range r.Tables() {
		assert.Empty(t, tbl.Rows, tbl.Name)
	}
}

func TestNormalize_TeamWithoutMembers(t *testing.T) {
	t.Parallel()

	r := Normalize([]competition.Team{{Name: "Ghosts", SportsKind: "Go"}})

	require.Len(t, r.Teams, 1)
	assert.Equal(t, int64(1), r.Teams[0].SportsKindID)
	assert.Empty(t, r.Members)
	assert.Empty(t, r.Memberships)
}

func TestNormalize_DuplicateNameInSameTeam(t *testing.T) {
	t.Parallel()

	r := Normalize([]competition.Team{{
		Name: "Echo", SportsKind: "Chess",
		Members: []competition.Member{member("Dan", "P4"), member("Dan", "P5")},
	}})

	// One member (first directory entry wins), two links.
	assert.Equal(t, []Member{{ID: 1, Name: "Dan", Passport: "P4"}}, r.Members)
	assert.Equal(t, []Membership{
		{ID: 1, MemberID: 1, TeamID: 1},
		{ID: 2, MemberID: 1, TeamID: 1},
	}, r.Memberships)
}

func TestNormalize_CaseSensitiveNames(t *testing.T) {
	t.Parallel()

	r := Normalize([]competition.Team{
		{Name: "A", SportsKind: "chess", Members: []competition.Member{member("ann", "1")}},
		{Name: "B", SportsKind: "Chess", Members: []competition.Member{member("Ann", "2")}},
	})

	assert.Len(t, r.SportsKinds, 2)
	assert.Len(t, r.Members, 2)
}

func TestTables_WriteOrderAndColumns(t *testing.T) {
	t.Parallel()

	r := Normalize([]competition.Team{{
		Name: "Falcons", SportsKind: "Chess",
		Members: []competition.Member{member("Alice", "P1")},
	}})

	tables := r.Tables()
	names := make([]string, len(tables))
	for i, tbl := range tables {
		names[i] = tbl.Name
	}
	assert.Equal(t, WriteOrder, names)
	assert.Equal(t, []string{TableSportsKinds, TableTeams, TableMembers, TableMemberships}, names)

	assert.Equal(t, []string{"id", "name"}, tables[0].Rows[0].Columns())
	assert.Equal(t, []string{"id", "name", "sports_kind_id", "motto"}, tables[1].Rows[0].Columns())
	assert.Equal(t, []any{int64(1), "Falcons", int64(1), nil}, tables[1].Rows[0].Values())
	assert.Equal(t, []string{"id", "name", "passport"}, tables[2].Rows[0].Columns())
	assert.Equal(t, []string{"id", "member_id", "team_id"}, tables[3].Rows[0].Columns())

	for _, tbl := range tables {
		assert.Equal(t, Columns[tbl.Name], tbl.Rows[0].Columns(), tbl.Name)
	}

	assert.Equal(t, map[string]int{
		TableSportsKinds: 1, TableTeams: 1, TableMembers: 1, TableMemberships: 1,
	}, r.Stats())
}

// randomTeams builds a deterministic pseudo-random roster with heavy name
// reuse so that de-duplication paths are exercised.
func randomTeams(seed int64, n int) []competition.Team {
	rng := rand.New(rand.NewSource(seed))
	kinds := []string{"Chess", "Go", "Curling", "Darts"}
	teams := make([]competition.Team, 0, n)
	for i := 0; i < n; i++ {
		t := competition.Team{
			Name:       fmt.Sprintf("team-%d", i),
			SportsKind: kinds[rng.Intn(len(kinds))],
		}
		if rng.Intn(2) == 0 {
			t.Motto = strPtr(fmt.Sprintf("motto-%d", i))
		}
		for j := rng.Intn(6); j > 0; j-- {
			id := rng.Intn(15)
			t.Members = append(t.Members, member(fmt.Sprintf("m%d", id), fmt.Sprintf("P%d", id)))
		}
		teams = append(teams, t)
	}
	return teams
}

func TestNormalize_Properties(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 25; seed++ {
		teams := randomTeams(seed, int(seed)*3)
		r := Normalize(teams)

		distinctKinds := map[string]struct{}{}
		distinctMembers := map[string]struct{}{}
		links := 0
		for _, tm := range teams {
			distinctKinds[tm.SportsKind] = struct{}{}
			for _, n := range tm.MemberList() {
				distinctMembers[n] = struct{}{}
				links++
			}
		}

		require.Len(t, r.SportsKinds, len(distinctKinds), "seed %d", seed)
		require.Len(t, r.Members, len(distinctMembers), "seed %d", seed)
		require.Len(t, r.Teams, len(teams), "seed %d", seed)
		require.Len(t, r.Memberships, links, "seed %d", seed)

		// Dense ids 1..N in order.
		for i, k := range r.SportsKinds {
			require.Equal(t, int64(i+1), k.ID)
		}
		for i, tm := range r.Teams {
			require.Equal(t, int64(i+1), tm.ID)
		}
		for i, m := range r.Members {
			require.Equal(t, int64(i+1), m.ID)
		}
		for i, l := range r.Memberships {
			require.Equal(t, int64(i+1), l.ID)
		}

		// Referential closure.
		for _, tm := range r.Teams {
			require.True(t, tm.SportsKindID >= 1 && tm.SportsKindID <= int64(len(r.SportsKinds)))
		}
		for _, l := range r.Memberships {
			require.True(t, l.MemberID >= 1 && l.MemberID <= int64(len(r.Members)))
			require.True(t, l.TeamID >= 1 && l.TeamID <= int64(len(r.Teams)))
		}

		// Index-backed normalization agrees with the linear lookup.
		for _, tm := range teams {
			id, ok := FindByName(r.SportsKinds, tm.SportsKind)
			require.True(t, ok)
			require.Equal(t, tm.SportsKind, r.SportsKinds[id-1].Name)
		}

		// Re-running on the same input is deterministic.
		require.Equal(t, r, Normalize(teams), "seed %d", seed)
	}
}
