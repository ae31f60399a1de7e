// Package http provides an HTTP-based implementation of fasub.Fetcher that
// authenticates with the site's session cookies.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/fasub"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxBinaryBytes bounds media downloads.
const DefaultMaxBinaryBytes = 64 << 20

// DefaultUserAgent identifies the client when none is configured.
const DefaultUserAgent = "fasub/1.0"

// Ensure Fetcher implements fasub.Fetcher at compile time.
var _ fasub.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages and media over HTTP.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	cookieA   string
	cookieB   string
	maxBinary int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithCookies sets the "a" and "b" session cookies sent with every request.
func WithCookies(a, b string) Option {
	return func(f *Fetcher) {
		f.cookieA = a
		f.cookieB = b
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithClient replaces the underlying HTTP client. The timeout option is
// ignored when a client is supplied.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithMaxBinaryBytes sets the largest media payload FetchBinary will read.
func WithMaxBinaryBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBinary = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		maxBinary: DefaultMaxBinaryBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// FetchDocument retrieves the HTML of the page at url. Pages served with a
// client error status are still returned, since the site renders its
// "not found" notices that way.
func (f *Fetcher) FetchDocument(ctx context.Context, url string) (string, error) {
	resp, err := f.do(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fasub.TransportError(err)
	}

	return string(body), nil
}

// FetchBinary retrieves the media at url. Any non-2xx status is an error.
func (f *Fetcher) FetchBinary(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fasub.StatusError(resp.StatusCode, url)
	}
	if f.maxBinary > 0 && resp.ContentLength > f.maxBinary {
		return nil, fasub.Errorf(false, "media exceeds max size (%d > %d) for %s", resp.ContentLength, f.maxBinary, url)
	}

	r := io.Reader(resp.Body)
	if f.maxBinary > 0 {
		r = io.LimitReader(resp.Body, f.maxBinary+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fasub.TransportError(err)
	}
	if f.maxBinary > 0 && int64(len(body)) > f.maxBinary {
		return nil, fasub.Errorf(false, "media exceeds max size (%d bytes) for %s", f.maxBinary, url)
	}

	return body, nil
}

// do sends an authenticated GET and classifies transport failures and
// retryable statuses. The caller closes the body on success.
func (f *Fetcher) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fasub.Errorf(false, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if cookie := f.cookieHeader(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fasub.TransportError(err)
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		return nil, fasub.StatusError(resp.StatusCode, url)
	}

	return resp, nil
}

func (f *Fetcher) cookieHeader() string {
	var parts []string
	if f.cookieA != "" {
		parts = append(parts, fmt.Sprintf("a=%s", f.cookieA))
	}
	if f.cookieB != "" {
		parts = append(parts, fmt.Sprintf("b=%s", f.cookieB))
	}
	return strings.Join(parts, "; ")
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
