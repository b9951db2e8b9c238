package pipeline

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"rosteretl/internal/config"
	"rosteretl/internal/datasource"
	"rosteretl/internal/datasource/file"
	"rosteretl/internal/datasource/httpds"
	"rosteretl/internal/datasource/s3src"
	"rosteretl/internal/persist"
	"rosteretl/internal/sink"
	"rosteretl/internal/source"
)

// FromConfig wires a Pipeline from a loaded configuration. obs receives the
// events of the db sink's persistence session; it may be nil.
func FromConfig(cfg *config.Config, log *zerolog.Logger, obs persist.Observer) (*Pipeline, error) {
	format, err := source.ParseFormat(cfg.Source.Format)
	if err != nil {
		return nil, err
	}

	locations, err := Locations(cfg.Source)
	if err != nil {
		return nil, err
	}

	kind, err := sink.ParseKind(cfg.Sink.Kind)
	if err != nil {
		return nil, err
	}
	snk, err := sink.New(sink.Config{
		Kind: kind,
		Dir:  cfg.Sink.Dir,
		Path: cfg.Sink.Path,
		DB:   cfg.DB.Params(),
		Session: []persist.Option{
			persist.WithObserver(obs),
			persist.WithAtomicWrites(cfg.Runtime.AtomicWrites),
		},
	})
	if err != nil {
		return nil, err
	}

	resolver := datasource.NewResolver(ResolverOptions(cfg.Source))
	return New(Config{
		Job:          cfg.Job,
		Locations:    locations,
		Format:       format,
		FetchWorkers: cfg.Runtime.FetchWorkers,
	}, resolver, snk, log), nil
}

// Locations returns the configured locations followed by those listed in the
// list file.
func Locations(s config.Source) ([]string, error) {
	out := append([]string(nil), s.Locations...)
	if s.ListFile != "" {
		listed, err := file.ReadList(s.ListFile)
		if err != nil {
			return nil, errors.Wrap(err, "source.list_file")
		}
		out = append(out, listed...)
	}
	return out, nil
}

// ResolverOptions maps the source block to datasource client settings.
func ResolverOptions(s config.Source) datasource.Options {
	var header http.Header
	if len(s.HTTP.Headers) > 0 {
		header = make(http.Header, len(s.HTTP.Headers))
		for k, v := range s.HTTP.Headers {
			header.Set(k, v)
		}
	}
	return datasource.Options{
		HTTP: httpds.Config{
			Timeout:            s.HTTP.Timeout,
			MaxRetries:         s.HTTP.MaxRetries,
			InsecureSkipVerify: s.HTTP.Insecure,
			BaseHeaders:        header,
		},
		S3: s3src.Config{
			Region:          s.S3.Region,
			Endpoint:        s.S3.Endpoint,
			PathStyle:       s.S3.PathStyle,
			AccessKeyID:     s.S3.AccessKeyID,
			SecretAccessKey: s.S3.SecretAccessKey,
		},
	}
}
