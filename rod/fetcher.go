// Package rod implements fasub.Fetcher with a headless Chrome browser for
// pages that only render behind a JavaScript challenge.
package rod

import (
	"context"
	"errors"
	"net/http"

	"github.com/fwojciec/fasub"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements fasub.Fetcher at compile time.
var _ fasub.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using browser automation. Media downloads
// are delegated to a plain binary fetcher, since the browser adds nothing
// there. Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager   *BrowserManager
	binary    fasub.Fetcher
	userAgent string
}

type config struct {
	maxPages  int64
	siteURL   string
	cookieA   string
	cookieB   string
	userAgent string
	binary    fasub.Fetcher
}

// Option configures a Fetcher.
type Option func(*config)

// WithCookies installs the "a" and "b" session cookies for siteURL.
func WithCookies(siteURL, a, b string) Option {
	return func(c *config) {
		c.siteURL = siteURL
		c.cookieA = a
		c.cookieB = b
	}
}

// WithUserAgent overrides the browser's User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *config) {
		c.userAgent = ua
	}
}

// WithBinaryFetcher sets the fetcher used by FetchBinary. The Fetcher
// takes ownership and closes it on Close.
func WithBinaryFetcher(f fasub.Fetcher) Option {
	return func(c *config) {
		c.binary = f
	}
}

// WithBrowserMaxPages sets how many pages a browser serves before it is
// recycled.
func WithBrowserMaxPages(n int64) Option {
	return func(c *config) {
		c.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser.
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	cfg := config{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(&cfg)
	}

	managerOpts := []ManagerOption{WithMaxPages(cfg.maxPages)}
	if cookies := sessionCookies(cfg); cookies != nil {
		managerOpts = append(managerOpts, WithSetup(func(b *rod.Browser) error {
			return b.SetCookies(cookies)
		}))
	}

	manager, err := NewBrowserManager(managerOpts...)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		manager:   manager,
		binary:    cfg.binary,
		userAgent: cfg.userAgent,
	}, nil
}

func sessionCookies(cfg config) []*proto.NetworkCookieParam {
	if cfg.siteURL == "" || (cfg.cookieA == "" && cfg.cookieB == "") {
		return nil
	}
	return []*proto.NetworkCookieParam{
		{Name: "a", Value: cfg.cookieA, URL: cfg.siteURL},
		{Name: "b", Value: cfg.cookieB, URL: cfg.siteURL},
	}
}

// FetchDocument navigates to url and returns the rendered HTML. Server
// errors and rate-limit responses for the main document are reported as
// status errors; other statuses return the rendered page.
func (f *Fetcher) FetchDocument(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser := f.manager.Browser()
	if browser == nil {
		return "", fasub.Errorf(false, "browser fetcher is closed")
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fasub.TransportError(err)
	}
	defer f.manager.IncrementPageCount()
	defer page.Close()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", f.classify(ctx, err)
		}
	}

	var status int
	waitResponse := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument || e.FrameID != page.FrameID {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := page.Navigate(url); err != nil {
		return "", f.classify(ctx, err)
	}
	waitResponse()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if status >= 500 || status == http.StatusTooManyRequests {
		return "", fasub.StatusError(status, url)
	}

	if err := page.WaitLoad(); err != nil {
		return "", f.classify(ctx, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", f.classify(ctx, err)
	}
	return html, nil
}

// classify reports cancellation as the context error and any other
// browser failure as a retryable transport error.
func (f *Fetcher) classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fasub.TransportError(err)
}

// FetchBinary delegates to the binary fetcher.
func (f *Fetcher) FetchBinary(ctx context.Context, url string) ([]byte, error) {
	if f.binary == nil {
		return nil, fasub.Errorf(false, "browser fetcher cannot download binaries")
	}
	return f.binary.FetchBinary(ctx, url)
}

// Close releases browser resources and closes the binary fetcher.
func (f *Fetcher) Close() error {
	err := f.manager.Close()
	if f.binary != nil {
		err = errors.Join(err, f.binary.Close())
	}
	return err
}

// LauncherPID returns the process ID of the current browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
