// Package competition holds the input model produced by the team-list
// parsers: teams as they appear in a source document, before any
// normalization or key assignment.
package competition

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

// Member is a single participant as listed inside a team.
type Member struct {
	Name     string `json:"name" xml:"name,attr" validate:"required"`
	Passport string `json:"passport" xml:"passport,attr" validate:"required"`
}

// Team is one competition team. Members keeps the source order; the same
// member name may appear more than once.
type Team struct {
	Name       string   `json:"name" validate:"required"`
	Motto      *string  `json:"motto,omitempty"`
	SportsKind string   `json:"sports_kind" validate:"required"`
	Members    []Member `json:"members" validate:"dive"`
}

// MemberList returns member names in listed order, duplicates included.
func (t Team) MemberList() []string {
	names := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		names = append(names, m.Name)
	}
	return names
}

// MemberBy returns the first member with the given name.
func (t Team) MemberBy(name string) (Member, bool) {
	for _, m := range t.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every team and reports the first invalid one with its
// position in the list.
func Validate(teams []Team) error {
	for i, t := range teams {
		if err := validate.Struct(t); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				return errors.Errorf("team[%d] %q: %s", i, t.Name, describe(verrs))
			}
			return errors.Wrapf(err, "team[%d]", i)
		}
	}
	return nil
}

func describe(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Namespace()+" failed "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}
