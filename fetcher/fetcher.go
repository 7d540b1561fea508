package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/scipunch/fbdaily/article"
)

const (
	// UserAgent is sent with every outgoing request
	UserAgent = "FashionBusinessDaily/0.1 (+https://github.com/example/fashion-business-daily)"
	// Timeout bounds a single request, including reading the body
	Timeout = 30 * time.Second
)

// ErrMissingAPIKey is returned when a source needs a credential that is not set
var ErrMissingAPIKey = errors.New("missing API key")

// Source is anything that can produce articles
type Source interface {
	// Name identifies the source in logs and in rendered output
	Name() string
	// Fetch returns at most limit articles
	Fetch(ctx context.Context, limit int) ([]article.Article, error)
}

// HTTPStatusError is returned when a source answers with a non-2xx status
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %s from %s", e.Status, e.URL)
}

type options struct {
	client    *http.Client
	baseURL   string
	lookupKey func() string
}

// Option customizes how a source talks to its upstream
type Option func(*options)

// WithHTTPClient replaces the default client (30s timeout)
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithBaseURL points an API source at a different host, e.g. a test server
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithAPIKey overrides where an API source reads its key from
func WithAPIKey(lookup func() string) Option {
	return func(o *options) {
		o.lookupKey = lookup
	}
}

func newOptions(opts []Option) options {
	o := options{
		client: &http.Client{Timeout: Timeout},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func truncate[T any](items []T, limit int) []T {
	if limit <= 0 {
		return nil
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
