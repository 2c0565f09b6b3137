package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/carlmjohnson/requests"
)

// HTTPSource fetches dataset objects from an HTTP(S) mirror, e.g. a public
// corpus release.
type HTTPSource struct {
	base   string
	client *http.Client
}

// NewHTTPSource creates a source rooted at base (e.g.
// "https://corpora.example.com/ljspeech/v1"). A nil client uses
// http.DefaultClient.
func NewHTTPSource(base string, client *http.Client) *HTTPSource {
	return &HTTPSource{base: strings.TrimRight(base, "/"), client: client}
}

// Fetch streams the named object. Non-2xx responses fail; 404 maps to
// ErrNotFound.
func (s *HTTPSource) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	url := s.base + "/" + name

	pr, pw := io.Pipe()
	go func() {
		rb := requests.URL(url).ToWriter(pw)
		if s.client != nil {
			rb = rb.Client(s.client)
		}
		err := rb.Fetch(ctx)
		if requests.HasStatusErr(err, http.StatusNotFound) {
			err = ErrNotFound
		}
		_ = pw.CloseWithError(err)
	}()
	return pr, nil
}

func (s *HTTPSource) String() string {
	return s.base
}
