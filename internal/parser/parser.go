// Package parser defines the contract shared by the team-list parsers.
package parser

import (
	"io"

	"rosteretl/internal/competition"
)

// Parser decodes one team-list document. Teams come back in document order
// with names cleaned by text.CleanTeams.
type Parser interface {
	Parse(r io.Reader) ([]competition.Team, error)
}

// Func adapts a plain function to Parser.
type Func func(r io.Reader) ([]competition.Team, error)

func (f Func) Parse(r io.Reader) ([]competition.Team, error) { return f(r) }
