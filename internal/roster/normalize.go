package roster

import "rosteretl/internal/competition"

// Normalize walks teams once, in order, and builds the four collections.
//
// Sports kinds and members are de-duplicated by exact name across the whole
// list; teams are never merged. Every occurrence of a member name in a
// team's list yields one membership row, so a name listed twice in the same
// team produces two links to the same member.
func Normalize(teams []competition.Team) *Roster {
	r := &Roster{
		SportsKinds: []SportsKind{},
		Teams:       []Team{},
		Members:     []Member{},
		Memberships: []Membership{},
	}
	kinds := NewIndex()
	members := NewIndex()

	for _, t := range teams {
		kindID, ok := kinds.Lookup(t.SportsKind)
		if !ok {
			kindID = int64(len(r.SportsKinds) + 1)
			r.SportsKinds = append(r.SportsKinds, SportsKind{ID: kindID, Name: t.SportsKind})
			kinds.Add(t.SportsKind, kindID)
		}

		teamID := int64(len(r.Teams) + 1)
		r.Teams = append(r.Teams, Team{
			ID:           teamID,
			Name:         t.Name,
			SportsKindID: kindID,
			Motto:        t.Motto,
		})

		for _, name := range t.MemberList() {
			memberID, ok := members.Lookup(name)
			if !ok {
				m, _ := t.MemberBy(name)
				memberID = int64(len(r.Members) + 1)
				r.Members = append(r.Members, Member{ID: memberID, Name: m.Name, Passport: m.Passport})
				members.Add(name, memberID)
			}

			r.Memberships = append(r.Memberships, Membership{
				ID:       int64(len(r.Memberships) + 1),
				MemberID: memberID,
				TeamID:   teamID,
			})
		}
	}
	return r
}
