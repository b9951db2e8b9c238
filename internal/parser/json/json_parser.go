// Package jsonparser decodes JSON team lists.
//
// Three document shapes are accepted:
//
//   - a top-level array of teams: [{"name":"Falcons",...}, ...]
//   - an object wrapping the array: {"teams":[...]}
//   - a stream of team objects (NDJSON): one object per line
//
// A team object has "name", "sports_kind", an optional "motto" (null or
// absent means no motto) and "members", an array of {"name","passport"}.
package jsonparser

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/go-faster/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"rosteretl/internal/competition"
	"rosteretl/internal/parser"
	"rosteretl/internal/parser/text"
)

// ErrShape is returned when the top-level value is neither an array, a
// {"teams":[...]} object nor a team object.
var ErrShape = errors.New("json parser: unsupported document shape")

// Parser implements parser.Parser for JSON.
type Parser struct{}

var _ parser.Parser = Parser{}

// Parse decodes r. A leading byte order mark is dropped and UTF-16 input is
// transcoded. An empty document yields no teams.
func (Parser) Parse(r io.Reader) ([]competition.Team, error) {
	teams, err := decode(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return nil, err
	}
	text.CleanTeams(teams)
	return teams, nil
}

func decode(r io.Reader) ([]competition.Team, error) {
	dec := json.NewDecoder(r)

	var root json.RawMessage
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "json parser: decode root")
	}

	switch firstByte(root) {
	case '[':
		var teams []competition.Team
		if err := json.Unmarshal(root, &teams); err != nil {
			return nil, errors.Wrap(err, "json parser: decode team array")
		}
		return teams, trailing(dec)

	case '{':
		var wrapper struct {
			Teams *[]competition.Team `json:"teams"`
		}
		if err := json.Unmarshal(root, &wrapper); err == nil && wrapper.Teams != nil {
			return *wrapper.Teams, trailing(dec)
		}
		return stream(root, dec)
	}
	return nil, errors.Wrapf(ErrShape, "top-level %s", kindOf(root))
}

// stream decodes first and every following value as a team object.
func stream(first json.RawMessage, dec *json.Decoder) ([]competition.Team, error) {
	var t competition.Team
	if err := json.Unmarshal(first, &t); err != nil {
		return nil, errors.Wrap(err, "json parser: team 0")
	}
	teams := []competition.Team{t}

	for i := 1; ; i++ {
		var t competition.Team
		if err := dec.Decode(&t); err != nil {
			if errors.Is(err, io.EOF) {
				return teams, nil
			}
			return nil, errors.Wrapf(err, "json parser: team %d", i)
		}
		teams = append(teams, t)
	}
}

// trailing rejects content after a complete array or wrapper document.
func trailing(dec *json.Decoder) error {
	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return errors.Wrap(err, "json parser: trailing data")
	}
	return errors.Errorf("json parser: unexpected %s after document", kindOf(extra))
}

func firstByte(raw json.RawMessage) byte {
	b := bytes.TrimLeft(raw, " \t\r\n")
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

func kindOf(raw json.RawMessage) string {
	switch firstByte(raw) {
	case '[':
		return "array"
	case '{':
		return "object"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	}
	return "number"
}
