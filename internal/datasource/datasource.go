// Package datasource opens the byte streams team lists are parsed from.
// A location is a local path, an http(s) URL or an s3://bucket/key URL.
package datasource

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/go-faster/errors"

	"rosteretl/internal/datasource/file"
	"rosteretl/internal/datasource/httpds"
	"rosteretl/internal/datasource/s3src"
)

// Source opens one team-list document. The caller closes the reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Scheme is the kind of a location.
type Scheme string

const (
	SchemeFile Scheme = "file"
	SchemeHTTP Scheme = "http"
	SchemeS3   Scheme = "s3"
)

// ErrUnsupportedScheme is returned for locations of unknown schemes.
var ErrUnsupportedScheme = errors.New("unsupported location scheme")

// SchemeOf classifies loc. Plain paths and file:// URLs are SchemeFile.
func SchemeOf(loc string) (Scheme, error) {
	i := strings.Index(loc, "://")
	if i < 0 {
		return SchemeFile, nil
	}
	switch strings.ToLower(loc[:i]) {
	case "file":
		return SchemeFile, nil
	case "http", "https":
		return SchemeHTTP, nil
	case "s3":
		return SchemeS3, nil
	}
	return "", errors.Wrapf(ErrUnsupportedScheme, "%q", loc)
}

// Options configures the remote clients a Resolver builds.
type Options struct {
	HTTP httpds.Config
	S3   s3src.Config
}

// Resolver turns locations into Sources. Remote clients are created on first
// use and shared by every Source of the same scheme. A Resolver is not safe
// for concurrent use; the Sources it returns are.
type Resolver struct {
	opts Options
	http *httpds.Client
	s3   s3src.GetObjectAPI
}

func NewResolver(opts Options) *Resolver { return &Resolver{opts: opts} }

// Resolve returns the Source for loc.
func (r *Resolver) Resolve(ctx context.Context, loc string) (Source, error) {
	scheme, err := SchemeOf(loc)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case SchemeFile:
		path := loc
		if strings.HasPrefix(strings.ToLower(loc), "file://") {
			u, err := url.Parse(loc)
			if err != nil {
				return nil, errors.Wrapf(err, "parse %q", loc)
			}
			path = u.Path
		}
		return file.NewLocal(path), nil

	case SchemeHTTP:
		if r.http == nil {
			r.http = httpds.NewClient(r.opts.HTTP)
		}
		return httpds.NewSource(r.http, loc), nil

	case SchemeS3:
		if r.s3 == nil {
			c, err := s3src.NewClient(ctx, r.opts.S3)
			if err != nil {
				return nil, err
			}
			r.s3 = c
		}
		return s3src.NewObject(r.s3, loc)
	}
	return nil, errors.Wrapf(ErrUnsupportedScheme, "%q", loc)
}
