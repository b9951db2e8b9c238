// Package pipeline runs one roster load: fetch every source location, decode
// the team lists, validate them, normalize them into a roster and hand the
// roster to a sink.
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"rosteretl/internal/competition"
	"rosteretl/internal/datasource"
	"rosteretl/internal/metrics"
	"rosteretl/internal/roster"
	"rosteretl/internal/sink"
	"rosteretl/internal/source"
)

// Step names reported to metrics.
const (
	StepFetch     = "fetch"
	StepValidate  = "validate"
	StepNormalize = "normalize"
	StepWrite     = "write"
)

// ErrNoLocations is returned by Run when there is nothing to read.
var ErrNoLocations = errors.New("no source locations")

// Resolver turns a location into an openable Source.
type Resolver interface {
	Resolve(ctx context.Context, loc string) (datasource.Source, error)
}

// Config is the run-level configuration of a Pipeline.
type Config struct {
	Job       string
	Locations []string
	Format    source.Format
	// FetchWorkers bounds concurrent downloads; zero or less means one.
	FetchWorkers int
}

// Result summarizes a successful run.
type Result struct {
	Teams int
	// Rows per table as handed to the sink.
	Rows map[string]int
	Took time.Duration
}

type Pipeline struct {
	cfg      Config
	resolver Resolver
	sink     sink.Sink
	log      *zerolog.Logger
}

func New(cfg Config, r Resolver, s sink.Sink, log *zerolog.Logger) *Pipeline {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Pipeline{cfg: cfg, resolver: r, sink: s, log: log}
}

// Run executes the pipeline once. Teams from all locations are concatenated
// in location order, so the roster is the same regardless of which download
// finishes first.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	if len(p.cfg.Locations) == 0 {
		return nil, ErrNoLocations
	}

	teams, err := p.step(StepFetch, func() ([]competition.Team, error) {
		return p.fetchAll(ctx)
	})
	if err != nil {
		return nil, err
	}

	if _, err := p.step(StepValidate, func() ([]competition.Team, error) {
		return nil, competition.Validate(teams)
	}); err != nil {
		return nil, errors.Wrap(err, "validate teams")
	}

	stepStart := time.Now()
	r := roster.Normalize(teams)
	metrics.RecordStep(p.cfg.Job, StepNormalize, nil, time.Since(stepStart))
	stats := r.Stats()
	p.log.Info().
		Int("teams", len(teams)).
		Interface("rows", stats).
		Msg("roster normalized")

	if _, err := p.step(StepWrite, func() ([]competition.Team, error) {
		return nil, p.sink.Write(ctx, r)
	}); err != nil {
		return nil, errors.Wrap(err, "write roster")
	}

	res := &Result{Teams: len(teams), Rows: stats, Took: time.Since(start)}
	p.log.Info().
		Str("job", p.cfg.Job).
		Int("teams", res.Teams).
		Dur("took", res.Took).
		Msg("run completed")
	return res, nil
}

// step times fn and records it under name.
func (p *Pipeline) step(name string, fn func() ([]competition.Team, error)) ([]competition.Team, error) {
	start := time.Now()
	teams, err := fn()
	metrics.RecordStep(p.cfg.Job, name, err, time.Since(start))
	return teams, err
}

// fetchAll downloads and decodes every location with at most FetchWorkers in
// flight. The first failure cancels the rest.
func (p *Pipeline) fetchAll(ctx context.Context) ([]competition.Team, error) {
	sources := make([]datasource.Source, len(p.cfg.Locations))
	for i, loc := range p.cfg.Locations {
		src, err := p.resolver.Resolve(ctx, loc)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve %s", loc)
		}
		sources[i] = src
	}

	workers := p.cfg.FetchWorkers
	if workers < 1 {
		workers = 1
	}

	parts := make([][]competition.Team, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range sources {
		loc := p.cfg.Locations[i]
		g.Go(func() error {
			teams, err := p.fetch(gctx, loc, src)
			if err != nil {
				return errors.Wrapf(err, "fetch %s", loc)
			}
			parts[i] = teams
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []competition.Team
	for _, part := range parts {
		all = append(all, part...)
	}
	return all, nil
}

func (p *Pipeline) fetch(ctx context.Context, loc string, src datasource.Source) ([]competition.Team, error) {
	start := time.Now()
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	teams, err := source.Decode(p.cfg.Format, loc, rc)
	if err != nil {
		return nil, err
	}
	// Drain so keep-alive connections can be reused.
	_, _ = io.Copy(io.Discard, rc)

	p.log.Debug().
		Str("location", loc).
		Int("teams", len(teams)).
		Dur("took", time.Since(start)).
		Msg("source decoded")
	return teams, nil
}
