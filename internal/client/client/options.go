package client

import (
	"net/http"
	"time"
)

const defaultTimeout = 12 * time.Second

type options struct {
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a transport client.
type Option func(*options)

// WithTimeout bounds every request. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client of the HTTP transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

func buildOptions(opts []Option) options {
	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
