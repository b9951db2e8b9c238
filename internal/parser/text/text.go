// Package text normalizes the free-text fields of parsed teams so that
// equal names compare equal during deduplication.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"rosteretl/internal/competition"
)

// CollapseWhitespace replaces runs of Unicode whitespace with a single ASCII
// space and trims both ends.
func CollapseWhitespace(s string) string {
	if s == "" {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	seenSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !seenSpace {
				b.WriteByte(' ')
				seenSpace = true
			}
			continue
		}
		b.WriteRune(r)
		seenSpace = false
	}
	return strings.TrimSpace(b.String())
}

// Clean returns s in Unicode NFC with whitespace collapsed. Names that differ
// only in composition or spacing become identical; case is preserved.
func Clean(s string) string {
	return norm.NFC.String(CollapseWhitespace(s))
}

// CleanTeams applies Clean in place to every name, sport kind, passport and
// motto. A motto that cleans to "" stays a non-nil empty string.
func CleanTeams(teams []competition.Team) {
	for i := range teams {
		t := &teams[i]
		t.Name = Clean(t.Name)
		t.SportsKind = Clean(t.SportsKind)
		if t.Motto != nil {
			m := Clean(*t.Motto)
			t.Motto = &m
		}
		for j := range t.Members {
			t.Members[j].Name = Clean(t.Members[j].Name)
			t.Members[j].Passport = Clean(t.Members[j].Passport)
		}
	}
}
