package httpds

import (
	"context"
	"io"
	"net/http"

	"github.com/go-faster/errors"
)

// ErrStatus is returned by Source.Open for a final non-2xx response.
var ErrStatus = errors.New("unexpected HTTP status")

// Source is a datasource that downloads one URL with GET.
type Source struct {
	c      *Client
	url    string
	header http.Header
}

// NewSource returns a Source fetching url through c.
func NewSource(c *Client, url string) *Source {
	return &Source{c: c, url: url, header: http.Header{
		"Accept": {"application/json, application/xml;q=0.9, text/xml;q=0.9, */*;q=0.1"},
	}}
}

func (s *Source) URL() string { return s.url }

// Open performs the request and returns the response body. Retries follow
// the client's policy; a final non-2xx status yields ErrStatus.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.c.Get(ctx, s.url, s.header)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", s.url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, errors.Wrapf(ErrStatus, "get %s: %s", s.url, resp.Status)
	}
	return resp.Body, nil
}
