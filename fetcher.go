package fasub

import "context"

// Fetcher retrieves pages and media from the site.
// Implementations own cookies, headers and connection reuse, and return
// an *Error classified as retryable for transport failures and server
// errors.
type Fetcher interface {
	// FetchDocument returns the HTML of the page at url.
	FetchDocument(ctx context.Context, url string) (html string, err error)

	// FetchBinary returns the raw bytes of the media at url.
	FetchBinary(ctx context.Context, url string) ([]byte, error)

	// Close releases transport resources.
	Close() error
}
