package pipeline

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosteretl/internal/datasource"
	"rosteretl/internal/roster"
	"rosteretl/internal/source"
)

type fakeSource struct {
	body  string
	delay time.Duration
	err   error
}

func (s fakeSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.body)), nil
}

type fakeResolver map[string]fakeSource

func (r fakeResolver) Resolve(_ context.Context, loc string) (datasource.Source, error) {
	s, ok := r[loc]
	if !ok {
		return nil, errors.Wrapf(datasource.ErrUnsupportedScheme, "%q", loc)
	}
	return s, nil
}

// captureSink records the rosters it is given.
type captureSink struct {
	mu  sync.Mutex
	got []*roster.Roster
	err error
}

func (c *captureSink) Write(_ context.Context, r *roster.Roster) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, r)
	return c.err
}

const falconsJSON = `[{"name":"Falcons","sports_kind":"Chess","motto":"Fly high",
	"members":[{"name":"Alice","passport":"P1"},{"name":"Bob","passport":"P2"}]}]`

const eaglesXML = `<teams>
  <team name="Eagles" sports_kind="Chess">
    <members><member name="Alice" passport="P1"/><member name="Carol" passport="P3"/></members>
  </team>
</teams>`

func TestRun_ConcatenatesInLocationOrder(t *testing.T) {
	t.Parallel()

	// The first location finishes last.
	res := fakeResolver{
		"falcons.json": {body: falconsJSON, delay: 50 * time.Millisecond},
		"eagles.xml":   {body: eaglesXML},
	}
	snk := &captureSink{}
	p := New(Config{Job: "test", Locations: []string{"falcons.json", "eagles.xml"}, FetchWorkers: 2}, res, snk, nil)

	out, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, out.Teams)
	assert.Equal(t, map[string]int{
		roster.TableSportsKinds: 1,
		roster.TableTeams:       2,
		roster.TableMembers:     3,
		roster.TableMemberships: 4,
	}, out.Rows)

	require.Len(t, snk.got, 1)
	r := snk.got[0]
	require.Len(t, r.Teams, 2)
	assert.Equal(t, "Falcons", r.Teams[0].Name)
	assert.Equal(t, "Eagles", r.Teams[1].Name)
	assert.Equal(t, []roster.Membership{
		{ID: 1, MemberID: 1, TeamID: 1},
		{ID: 2, MemberID: 2, TeamID: 1},
		{ID: 3, MemberID: 1, TeamID: 2},
		{ID: 4, MemberID: 3, TeamID: 2},
	}, r.Memberships)
}

func TestRun_ForcedFormat(t *testing.T) {
	t.Parallel()

	res := fakeResolver{"teams.dat": {body: falconsJSON}}
	snk := &captureSink{}
	p := New(Config{Job: "test", Locations: []string{"teams.dat"}, Format: source.FormatJSON}, res, snk, nil)

	out, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Teams)
}

func TestRun_EmptySourceWritesEmptyRoster(t *testing.T) {
	t.Parallel()

	res := fakeResolver{"empty.json": {body: ""}}
	snk := &captureSink{}
	p := New(Config{Job: "test", Locations: []string{"empty.json"}}, res, snk, nil)

	out, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, out.Teams)
	require.Len(t, snk.got, 1)
	assert.Empty(t, snk.got[0].Teams)
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	tests := []struct {
		name      string
		locations []string
		resolver  fakeResolver
		sinkErr   error
		wantIs    error
		contains  string
	}{
		{
			name:   "no locations",
			wantIs: ErrNoLocations,
		},
		{
			name:      "unresolvable location",
			locations: []string{"ftp://host/teams.json"},
			resolver:  fakeResolver{},
			wantIs:    datasource.ErrUnsupportedScheme,
			contains:  "resolve ftp://host/teams.json",
		},
		{
			name:      "open fails",
			locations: []string{"a.json", "b.json"},
			resolver:  fakeResolver{"a.json": {body: falconsJSON}, "b.json": {err: boom}},
			wantIs:    boom,
			contains:  "fetch b.json",
		},
		{
			name:      "undecodable document",
			locations: []string{"a.json"},
			resolver:  fakeResolver{"a.json": {body: `[{"name": 1}]`}},
			contains:  "fetch a.json",
		},
		{
			name:      "invalid team",
			locations: []string{"a.json"},
			resolver:  fakeResolver{"a.json": {body: `[{"name":"Falcons","members":[]}]`}},
			contains:  "validate teams",
		},
		{
			name:      "sink fails",
			locations: []string{"a.json"},
			resolver:  fakeResolver{"a.json": {body: falconsJSON}},
			sinkErr:   boom,
			wantIs:    boom,
			contains:  "write roster",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snk := &captureSink{err: tt.sinkErr}
			p := New(Config{Job: "test", Locations: tt.locations, FetchWorkers: 4}, tt.resolver, snk, nil)

			_, err := p.Run(context.Background())
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
			if tt.sinkErr == nil {
				assert.Empty(t, snk.got, "sink must not run after an earlier failure")
			}
		})
	}
}

func TestRun_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := fakeResolver{"slow.json": {body: falconsJSON, delay: time.Second}}
	p := New(Config{Job: "test", Locations: []string{"slow.json"}}, res, &captureSink{}, nil)

	_, err := p.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
