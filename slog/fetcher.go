// Package slog provides logging decorators for fasub services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/fasub"
)

// Ensure LoggingFetcher implements fasub.Fetcher.
var _ fasub.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with request logging.
type LoggingFetcher struct {
	next   fasub.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next fasub.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// FetchDocument logs the page fetch and delegates to the wrapped fetcher.
func (f *LoggingFetcher) FetchDocument(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.log(ctx, "fetch document", url, len(html), time.Since(begin), err)
	}(time.Now())
	return f.next.FetchDocument(ctx, url)
}

// FetchBinary logs the media fetch and delegates to the wrapped fetcher.
func (f *LoggingFetcher) FetchBinary(ctx context.Context, url string) (data []byte, err error) {
	defer func(begin time.Time) {
		f.log(ctx, "fetch binary", url, len(data), time.Since(begin), err)
	}(time.Now())
	return f.next.FetchBinary(ctx, url)
}

func (f *LoggingFetcher) log(ctx context.Context, msg, url string, n int, d time.Duration, err error) {
	if err != nil {
		f.logger.WarnContext(ctx, msg,
			"url", url,
			"duration", d,
			"err", err,
			"retry", fasub.IsRetryable(err),
		)
		return
	}
	f.logger.InfoContext(ctx, msg,
		"url", url,
		"bytes", n,
		"duration", d,
	)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
