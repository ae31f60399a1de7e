package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/fasub"
)

// Client combines a Fetcher, an Extractor and a Fingerprinter into the
// site-level operations. It applies the caller-side policy the core leaves
// out: rate limiting and retrying errors marked retryable.
type Client struct {
	BaseURL       string
	Fetcher       fasub.Fetcher
	Extractor     fasub.Extractor
	Fingerprinter fasub.Fingerprinter
	RateLimiter   fasub.DomainLimiter

	// RetryDelays defaults to DefaultRetryDelays when nil. An empty slice
	// disables retries.
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return fasub.DefaultBaseURL
	}
	return c.BaseURL
}

func (c *Client) delays() []time.Duration {
	if c.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return c.RetryDelays
}

func (c *Client) fetchDocument(ctx context.Context, url string) (string, error) {
	if err := waitURL(ctx, c.RateLimiter, url); err != nil {
		return "", err
	}
	return c.Fetcher.FetchDocument(ctx, url)
}

// LatestID returns the id of the newest submission on the front page.
func (c *Client) LatestID(ctx context.Context) (int, error) {
	url := fasub.FrontPageURL(c.baseURL())
	return Retry(ctx, c.delays(), c.Logger, func(ctx context.Context) (int, error) {
		html, err := c.fetchDocument(ctx, url)
		if err != nil {
			return 0, err
		}
		return c.Extractor.ExtractLatestID(html)
	})
}

// OnlineCounts returns the online user counters from the front page.
func (c *Client) OnlineCounts(ctx context.Context) (*fasub.OnlineCounts, error) {
	url := fasub.FrontPageURL(c.baseURL())
	return Retry(ctx, c.delays(), c.Logger, func(ctx context.Context) (*fasub.OnlineCounts, error) {
		html, err := c.fetchDocument(ctx, url)
		if err != nil {
			return nil, err
		}
		return c.Extractor.ExtractOnlineCounts(html)
	})
}

// Submission fetches and extracts the submission with the given id.
// Returns nil and no error if the submission does not exist.
func (c *Client) Submission(ctx context.Context, id int) (*fasub.Submission, error) {
	url := fasub.ViewURL(c.baseURL(), id)
	return Retry(ctx, c.delays(), c.Logger, func(ctx context.Context) (*fasub.Submission, error) {
		html, err := c.fetchDocument(ctx, url)
		if err != nil {
			return nil, err
		}
		return c.Extractor.ExtractSubmission(id, html)
	})
}

// FingerprintSubmission returns a copy of sub with its fingerprint set.
// Animation content cannot be hashed, so sub is returned unchanged.
func (c *Client) FingerprintSubmission(ctx context.Context, sub *fasub.Submission) (*fasub.Submission, error) {
	switch sub.Content.Kind {
	case fasub.ContentAnimation:
		return sub, nil
	case fasub.ContentImage:
	default:
		return nil, fasub.InvalidSubmissionTypeError()
	}

	url := sub.Content.URL
	return Retry(ctx, c.delays(), c.Logger, func(ctx context.Context) (*fasub.Submission, error) {
		if err := waitURL(ctx, c.RateLimiter, url); err != nil {
			return nil, err
		}
		data, err := c.Fetcher.FetchBinary(ctx, url)
		if err != nil {
			return nil, err
		}
		fp, err := c.Fingerprinter.Fingerprint(data)
		if err != nil {
			return nil, err
		}
		return sub.WithFingerprint(fp), nil
	})
}

// NavLinks parses the sequence links from the submission's description.
func (c *Client) NavLinks(sub *fasub.Submission) (*fasub.NavLinks, error) {
	return c.Extractor.ExtractNavLinks(sub.Description)
}
