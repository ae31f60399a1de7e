package mock

import (
	"context"

	"github.com/fwojciec/fasub"
)

var _ fasub.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of fasub.Fetcher.
type Fetcher struct {
	FetchDocumentFn func(ctx context.Context, url string) (string, error)
	FetchBinaryFn   func(ctx context.Context, url string) ([]byte, error)
	CloseFn         func() error
}

func (f *Fetcher) FetchDocument(ctx context.Context, url string) (string, error) {
	return f.FetchDocumentFn(ctx, url)
}

func (f *Fetcher) FetchBinary(ctx context.Context, url string) ([]byte, error) {
	return f.FetchBinaryFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
