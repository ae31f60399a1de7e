package crawl_test

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/fasub"
	"github.com/fwojciec/fasub/crawl"
	"github.com/fwojciec/fasub/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newScanClient returns a client whose pages are the decimal id, whose
// content URL is the id, and whose fingerprint digest is derived from
// the downloaded bytes.
func newScanClient(extract func(id int) (*fasub.Submission, error), binary func(url string) ([]byte, error)) *crawl.Client {
	return &crawl.Client{
		BaseURL: "https://fa.test",
		Fetcher: &mock.Fetcher{
			FetchDocumentFn: func(_ context.Context, url string) (string, error) {
				return url, nil
			},
			FetchBinaryFn: func(_ context.Context, url string) ([]byte, error) {
				return binary(url)
			},
		},
		Extractor: &mock.Extractor{
			ExtractSubmissionFn: func(id int, _ string) (*fasub.Submission, error) {
				return extract(id)
			},
		},
		Fingerprinter: &mock.Fingerprinter{
			FingerprintFn: func(data []byte) (*fasub.Fingerprint, error) {
				return &fasub.Fingerprint{ContentDigest: sha256.Sum256(data), ContentSize: len(data)}, nil
			},
		},
		RetryDelays: []time.Duration{},
	}
}

func imageAt(id int) *fasub.Submission {
	return newSubmission(id, fmt.Sprintf("https://d.furaffinity.net/art/a/%d/%d.a_img.png", id, id))
}

func TestCrawler_Scan(t *testing.T) {
	t.Parallel()

	t.Run("saves every existing submission", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var saved []int
		c := &crawl.Crawler{
			Client: newScanClient(
				func(id int) (*fasub.Submission, error) { return imageAt(id), nil },
				func(url string) ([]byte, error) { return []byte(url), nil },
			),
			Submissions: &mock.SubmissionService{
				SaveSubmissionFn: func(_ context.Context, sub *fasub.Submission) (bool, error) {
					mu.Lock()
					defer mu.Unlock()
					require.NotNil(t, sub.Fingerprint)
					saved = append(saved, sub.ID)
					return true, nil
				},
			},
			Concurrency: 3,
		}

		result, err := c.Scan(context.Background(), 10, 14, nil)

		require.NoError(t, err)
		assert.Equal(t, &crawl.Result{Saved: 5}, result)
		sort.Ints(saved)
		assert.Equal(t, []int{10, 11, 12, 13, 14}, saved)
	})

	t.Run("counts missing and failed ids", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Client: newScanClient(
				func(id int) (*fasub.Submission, error) {
					switch id {
					case 2:
						return nil, nil
					case 3:
						return nil, fasub.MissingFieldError("title")
					}
					return imageAt(id), nil
				},
				func(url string) ([]byte, error) { return []byte(url), nil },
			),
			Submissions: &mock.SubmissionService{
				SaveSubmissionFn: func(_ context.Context, _ *fasub.Submission) (bool, error) { return true, nil },
			},
			Concurrency: 2,
		}

		result, err := c.Scan(context.Background(), 1, 4, nil)

		require.NoError(t, err)
		assert.Equal(t, &crawl.Result{Saved: 2, Missing: 1, Failed: 1}, result)
	})

	t.Run("flags duplicate content digests", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Client: newScanClient(
				func(id int) (*fasub.Submission, error) { return imageAt(id), nil },
				func(_ string) ([]byte, error) { return []byte("same bytes"), nil },
			),
			Submissions: &mock.SubmissionService{
				SaveSubmissionFn: func(_ context.Context, _ *fasub.Submission) (bool, error) { return true, nil },
			},
			Concurrency: 2,
		}

		result, err := c.Scan(context.Background(), 1, 3, nil)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Saved)
		assert.Equal(t, 2, result.Duplicates)
	})

	t.Run("does not count a failed save as a duplicate", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Client: newScanClient(
				func(id int) (*fasub.Submission, error) { return imageAt(id), nil },
				func(_ string) ([]byte, error) { return []byte("same bytes"), nil },
			),
			Submissions: &mock.SubmissionService{
				SaveSubmissionFn: func(_ context.Context, sub *fasub.Submission) (bool, error) {
					if sub.ID == 1 {
						return false, assert.AnError
					}
					return true, nil
				},
			},
			Concurrency: 1,
		}

		result, err := c.Scan(context.Background(), 1, 2, nil)

		require.NoError(t, err)
		assert.Equal(t, &crawl.Result{Saved: 1, Failed: 1}, result)
	})

	t.Run("counts submissions that were already stored", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Client: newScanClient(
				func(id int) (*fasub.Submission, error) { return imageAt(id), nil },
				func(url string) ([]byte, error) { return []byte(url), nil },
			),
			Submissions: &mock.SubmissionService{
				SaveSubmissionFn: func(_ context.Context, sub *fasub.Submission) (bool, error) {
					return sub.ID%2 == 0, nil
				},
			},
			Concurrency: 2,
		}

		result, err := c.Scan(context.Background(), 1, 5, nil)

		require.NoError(t, err)
		assert.Equal(t, &crawl.Result{Saved: 5, Unchanged: 3}, result)
	})

	t.Run("skips fingerprinting when disabled", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Client: newScanClient(
				func(id int) (*fasub.Submission, error) { return imageAt(id), nil },
				func(_ string) ([]byte, error) {
					t.Error("binary must not be fetched")
					return nil, nil
				},
			),
			Submissions: &mock.SubmissionService{
				SaveSubmissionFn: func(_ context.Context, sub *fasub.Submission) (bool, error) {
					assert.Nil(t, sub.Fingerprint)
					return true, nil
				},
			},
			SkipFingerprint: true,
		}

		result, err := c.Scan(context.Background(), 1, 2, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Saved)
	})

	t.Run("counts save errors as failures", func(t *testing.T) {
		t.Parallel()

		var events []crawl.ProgressEvent
		c := &crawl.Crawler{
			Client: newScanClient(
				func(id int) (*fasub.Submission, error) { return imageAt(id), nil },
				func(url string) ([]byte, error) { return []byte(url), nil },
			),
			Submissions: &mock.SubmissionService{
				SaveSubmissionFn: func(_ context.Context, _ *fasub.Submission) (bool, error) {
					return false, assert.AnError
				},
			},
			Concurrency: 1,
		}

		result, err := c.Scan(context.Background(), 5, 5, func(e crawl.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, events, 3)
		assert.Equal(t, crawl.ProgressFailed, events[1].Type)
		assert.Equal(t, 5, events[1].ID)
		assert.ErrorIs(t, events[1].Error, assert.AnError)
	})

	t.Run("reports progress", func(t *testing.T) {
		t.Parallel()

		var events []crawl.ProgressEvent
		c := &crawl.Crawler{
			Client: newScanClient(
				func(id int) (*fasub.Submission, error) {
					if id == 2 {
						return nil, nil
					}
					return imageAt(id), nil
				},
				func(url string) ([]byte, error) { return []byte(url), nil },
			),
			Submissions: &mock.SubmissionService{
				SaveSubmissionFn: func(_ context.Context, _ *fasub.Submission) (bool, error) { return true, nil },
			},
			Concurrency: 1,
		}

		_, err := c.Scan(context.Background(), 1, 3, func(e crawl.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 5)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, 3, events[0].Total)
		assert.Equal(t, crawl.ProgressFinished, events[4].Type)

		var types []crawl.ProgressType
		for i, e := range events[1:4] {
			assert.Equal(t, i+1, e.Completed)
			types = append(types, e.Type)
		}
		assert.ElementsMatch(t, []crawl.ProgressType{crawl.ProgressCompleted, crawl.ProgressMissing, crawl.ProgressCompleted}, types)
	})

	t.Run("rejects invalid range", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{}

		_, err := c.Scan(context.Background(), 10, 5, nil)

		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "invalid id range"))
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := &crawl.Crawler{
			Client: newScanClient(
				func(id int) (*fasub.Submission, error) { return imageAt(id), nil },
				func(url string) ([]byte, error) { return []byte(url), nil },
			),
			Submissions: &mock.SubmissionService{
				SaveSubmissionFn: func(_ context.Context, _ *fasub.Submission) (bool, error) { return true, nil },
			},
		}

		_, err := c.Scan(ctx, 1, 100, nil)

		require.ErrorIs(t, err, context.Canceled)
	})
}
