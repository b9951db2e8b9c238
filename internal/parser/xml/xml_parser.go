// Package xmlparser decodes XML team lists.
//
// Every <team> element is a team, wherever it appears in the document:
//
//	<competition>
//	  <team name="Falcons" sports_kind="Football">
//	    <motto>Fly high</motto>
//	    <members>
//	      <member name="Alice" passport="P1"/>
//	    </members>
//	  </team>
//	</competition>
//
// A missing <motto> element means no motto. Documents declaring a non-UTF-8
// encoding (windows-1251, koi8-r, ...) are transcoded while reading.
package xmlparser

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"golang.org/x/text/encoding/htmlindex"

	"rosteretl/internal/competition"
	"rosteretl/internal/parser"
	"rosteretl/internal/parser/text"
)

// TeamTag is the element decoded as one team.
const TeamTag = "team"

// xmlTeam is the wire shape of a <team> element.
type xmlTeam struct {
	Name       string               `xml:"name,attr"`
	SportsKind string               `xml:"sports_kind,attr"`
	Motto      *string              `xml:"motto"`
	Members    []competition.Member `xml:"members>member"`
}

// Parser implements parser.Parser for XML.
type Parser struct{}

var _ parser.Parser = Parser{}

// Parse streams r and returns its teams in document order. A document
// without <team> elements yields no teams, as does an empty or blank input.
// Content without a root element is an error.
func (Parser) Parse(r io.Reader) ([]competition.Team, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var (
		teams   []competition.Team
		root    bool
		content bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "xml parser: line %d", line(dec))
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			if cd, isText := tok.(xml.CharData); !isText || len(strings.TrimSpace(string(cd))) > 0 {
				content = true
			}
			continue
		}
		root = true
		if se.Name.Local != TeamTag {
			continue
		}

		var xt xmlTeam
		if err := dec.DecodeElement(&xt, &se); err != nil {
			return nil, errors.Wrapf(err, "xml parser: team %d", len(teams))
		}
		teams = append(teams, competition.Team{
			Name:       xt.Name,
			SportsKind: xt.SportsKind,
			Motto:      xt.Motto,
			Members:    xt.Members,
		})
	}
	if !root {
		if !content {
			return nil, nil
		}
		return nil, errors.New("xml parser: no root element")
	}

	text.CleanTeams(teams)
	return teams, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(strings.TrimSpace(label))
	if err != nil {
		return nil, errors.Wrapf(err, "xml parser: encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func line(dec *xml.Decoder) int {
	l, _ := dec.InputPos()
	return l
}
