// Package source ties locations to parsers: it picks the document format of
// each location and decodes it into teams.
package source

import (
	"bytes"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"rosteretl/internal/competition"
	"rosteretl/internal/parser"
	jsonparser "rosteretl/internal/parser/json"
	xmlparser "rosteretl/internal/parser/xml"
)

// Format is the document format of a team list.
type Format int

const (
	// FormatAuto picks XML or JSON per location, from its extension or,
	// failing that, its first non-blank byte.
	FormatAuto Format = iota
	FormatXML
	FormatJSON
)

// ErrUnknownFormat is returned for format names other than auto, xml and json.
var ErrUnknownFormat = errors.New("unknown source format")

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatXML:
		return "xml"
	case FormatJSON:
		return "json"
	}
	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// ParseFormat maps a config value to a Format. "" means auto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "xml":
		return FormatXML, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatAuto, errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// Parser returns the parser for a concrete format.
func (f Format) Parser() (parser.Parser, error) {
	switch f {
	case FormatXML:
		return xmlparser.Parser{}, nil
	case FormatJSON:
		return jsonparser.Parser{}, nil
	}
	return nil, errors.Errorf("no parser for format %s", f)
}

// FromExtension infers the format from the path of loc. It returns
// FormatAuto when the extension says nothing.
func FromExtension(loc string) Format {
	p := loc
	if u, err := url.Parse(loc); err == nil && u.Scheme != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".xml":
		return FormatXML
	case ".json", ".ndjson":
		return FormatJSON
	}
	return FormatAuto
}

// Sniff infers the format from the head of a document.
func Sniff(head []byte) Format {
	b := bytes.TrimLeft(head, " \t\r\n\ufeff")
	if len(b) == 0 {
		return FormatAuto
	}
	switch b[0] {
	case '<':
		return FormatXML
	case '[', '{':
		return FormatJSON
	}
	return FormatAuto
}

const sniffLen = 512

// Decode parses r as format f. For FormatAuto the location's extension is
// tried first, then the document head.
func Decode(f Format, loc string, r io.Reader) ([]competition.Team, error) {
	if f == FormatAuto {
		f = FromExtension(loc)
	}
	if f == FormatAuto {
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(r, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, errors.Wrapf(err, "read %s", loc)
		}
		head = head[:n]
		if f = Sniff(head); f == FormatAuto {
			if n == 0 {
				return nil, nil
			}
			return nil, errors.Errorf("%s: cannot detect format", loc)
		}
		r = io.MultiReader(bytes.NewReader(head), r)
	}

	p, err := f.Parser()
	if err != nil {
		return nil, err
	}
	teams, err := p.Parse(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s as %s", loc, f)
	}
	return teams, nil
}
