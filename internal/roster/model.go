// Package roster turns a flat list of competition teams into the four
// normalized collections persisted by the storage layer: sports kinds,
// teams, members and team memberships.
//
// All surrogate ids are assigned here, densely from 1 per collection in
// first-seen order, so foreign keys are known before anything is written.
package roster

// Table names of the fixed schema.
const (
	TableSportsKinds = "sports_kinds"
	TableMembers     = "members"
	TableTeams       = "teams"
	TableMemberships = "members_teams"
)

// WriteOrder is the order tables are filled in: every foreign key points at
// a table earlier in the list.
var WriteOrder = []string{TableSportsKinds, TableTeams, TableMembers, TableMemberships}

// CreateOrder is the order tables are created in; drops run in reverse.
var CreateOrder = []string{TableSportsKinds, TableMembers, TableTeams, TableMemberships}

// Columns lists the columns of each table in insert order.
var Columns = map[string][]string{
	TableSportsKinds: SportsKind{}.Columns(),
	TableMembers:     Member{}.Columns(),
	TableTeams:       Team{}.Columns(),
	TableMemberships: Membership{}.Columns(),
}

// Record is one row of a table with a fixed column order.
type Record interface {
	Columns() []string
	Values() []any
}

// SportsKind is a row of sports_kinds.
type SportsKind struct {
	ID   int64
	Name string
}

func (s SportsKind) RowID() int64    { return s.ID }
func (s SportsKind) RowName() string { return s.Name }
func (SportsKind) Columns() []string { return []string{"id", "name"} }
func (s SportsKind) Values() []any   { return []any{s.ID, s.Name} }

// Member is a row of members.
type Member struct {
	ID       int64
	Name     string
	Passport string
}

func (m Member) RowID() int64    { return m.ID }
func (m Member) RowName() string { return m.Name }
func (Member) Columns() []string { return []string{"id", "name", "passport"} }
func (m Member) Values() []any   { return []any{m.ID, m.Name, m.Passport} }

// Team is a row of teams. A nil Motto is stored as NULL.
type Team struct {
	ID           int64
	Name         string
	SportsKindID int64
	Motto        *string
}

func (Team) Columns() []string { return []string{"id", "name", "sports_kind_id", "motto"} }

func (t Team) Values() []any {
	var motto any
	if t.Motto != nil {
		motto = *t.Motto
	}
	return []any{t.ID, t.Name, t.SportsKindID, motto}
}

// Membership is a row of members_teams linking one member to one team.
type Membership struct {
	ID       int64
	MemberID int64
	TeamID   int64
}

func (Membership) Columns() []string { return []string{"id", "member_id", "team_id"} }
func (l Membership) Values() []any   { return []any{l.ID, l.MemberID, l.TeamID} }

// Roster is the result of one normalization pass.
type Roster struct {
	SportsKinds []SportsKind
	Teams       []Team
	Members     []Member
	Memberships []Membership
}

// Table is a named, ordered set of uniform records.
type Table struct {
	Name string
	Rows []Record
}

// Tables returns the four collections in WriteOrder.
func (r *Roster) Tables() []Table {
	return []Table{
		{Name: TableSportsKinds, Rows: records(r.SportsKinds)},
		{Name: TableTeams, Rows: records(r.Teams)},
		{Name: TableMembers, Rows: records(r.Members)},
		{Name: TableMemberships, Rows: records(r.Memberships)},
	}
}

// Stats returns row counts keyed by table name.
func (r *Roster) Stats() map[string]int {
	return map[string]int{
		TableSportsKinds: len(r.SportsKinds),
		TableTeams:       len(r.Teams),
		TableMembers:     len(r.Members),
		TableMemberships: len(r.Memberships),
	}
}

func records[T Record](rows []T) []Record {
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
