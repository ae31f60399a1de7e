// Package crawl provides submission scanning orchestration.
// It coordinates rate-limited fetching, extraction, fingerprinting, and
// storage of submissions.
package crawl

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/fwojciec/fasub"
	"github.com/fwojciec/fasub/bloom"
	"golang.org/x/sync/errgroup"
)

// Duplicate filter configuration.
const (
	// digestFalsePositiveRate is the acceptable false positive rate for
	// duplicate detection.
	digestFalsePositiveRate = 0.001
	// minExpectedDigests is the smallest Bloom filter size used for a scan.
	minExpectedDigests = 1000
)

// Crawler scans ranges of submission ids and saves what it finds.
type Crawler struct {
	Client      *Client
	Submissions fasub.SubmissionService
	Concurrency int

	// SkipFingerprint disables fetching and hashing image content.
	SkipFingerprint bool
}

// Result holds the outcome of a scan. Unchanged counts the saved
// submissions that already matched the stored record.
type Result struct {
	Saved      int
	Missing    int
	Failed     int
	Duplicates int
	Unchanged  int
}

// ProgressEvent reports progress during a scan.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	ID        int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressMissing
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting scan progress.
type ProgressFunc func(event ProgressEvent)

// scanResult holds the outcome of processing a single id.
type scanResult struct {
	id  int
	sub *fasub.Submission
	err error
}

// Scan processes every id in [from, to] and saves the submissions found.
// Ids that do not exist are counted as missing. Submissions whose content
// digest was already seen in this scan are saved and counted as duplicates.
// The progress callback, if provided, receives events as scanning proceeds.
func (c *Crawler) Scan(ctx context.Context, from, to int, progress ProgressFunc) (*Result, error) {
	if from <= 0 || to < from {
		return nil, fmt.Errorf("invalid id range %d-%d", from, to)
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	total := to - from + 1
	resultCh := make(chan scanResult, concurrency)

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for id := from; id <= to; id++ {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				resultCh <- c.process(gctx, id)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	seen := bloom.NewFilter(uint(max(total, minExpectedDigests)), digestFalsePositiveRate)

	var result Result
	var completed atomic.Int64
	for r := range resultCh {
		event := ProgressEvent{
			Completed: int(completed.Add(1)),
			Total:     total,
			ID:        r.id,
		}

		switch {
		case r.err != nil:
			result.Failed++
			event.Type = ProgressFailed
			event.Error = r.err
		case r.sub == nil:
			result.Missing++
			event.Type = ProgressMissing
		default:
			changed, err := c.Submissions.SaveSubmission(ctx, r.sub)
			if err != nil {
				result.Failed++
				event.Type = ProgressFailed
				event.Error = fmt.Errorf("save submission %d: %w", r.id, err)
				break
			}
			result.Saved++
			if !changed {
				result.Unchanged++
			}
			if fp := r.sub.Fingerprint; fp != nil && seen.TestAndAdd(fp.ContentDigest[:]) {
				result.Duplicates++
			}
			event.Type = ProgressCompleted
		}

		if progress != nil {
			progress(event)
		}
	}

	if err := ctx.Err(); err != nil {
		return &result, err
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return &result, nil
}

// process fetches, extracts, and fingerprints a single id.
func (c *Crawler) process(ctx context.Context, id int) scanResult {
	result := scanResult{id: id}

	sub, err := c.Client.Submission(ctx, id)
	if err != nil {
		result.err = err
		return result
	}
	if sub == nil {
		return result
	}

	if !c.SkipFingerprint {
		sub, err = c.Client.FingerprintSubmission(ctx, sub)
		if err != nil {
			result.err = err
			return result
		}
	}

	result.sub = sub
	return result
}
