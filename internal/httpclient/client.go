// Package httpclient builds the shared HTTP client used for every download a
// run performs: the classification document and the translation archive.
package httpclient

import (
	"fmt"
	"net/http"
	"time"
)

// Options configures the shared client.
type Options struct {
	// Timeout bounds one whole request, body included. Zero means no timeout.
	Timeout   string
	UserAgent string
}

// New returns a live *http.Client that callers share to reuse connections.
func New(opts Options) (*http.Client, error) {
	var timeout time.Duration
	if opts.Timeout != "" {
		d, err := time.ParseDuration(opts.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid http timeout %q: %w", opts.Timeout, err)
		}
		timeout = d
	}

	var transport http.RoundTripper = &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}
	if opts.UserAgent != "" {
		transport = &userAgentTransport{next: transport, agent: opts.UserAgent}
	}

	return &http.Client{Timeout: timeout, Transport: transport}, nil
}

// Close releases idle connections held by the client.
func Close(client *http.Client) {
	if client != nil {
		client.CloseIdleConnections()
	}
}

type userAgentTransport struct {
	next  http.RoundTripper
	agent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.agent)
	}
	return t.next.RoundTrip(req)
}
