package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/fasub"
	"github.com/fwojciec/fasub/crawl"
)

// Run executes the scan command.
func (c *ScanCmd) Run(deps *Dependencies) error {
	to := c.To
	if to == 0 {
		latest, err := deps.Client.LatestID(deps.Ctx)
		if err != nil {
			return errorf(deps, err)
		}
		to = latest
	}

	run := &fasub.ScanRun{From: c.From, To: to, StartedAt: time.Now().UTC()}
	if err := run.Validate(); err != nil {
		return errorf(deps, err)
	}

	if c.Concurrency > 0 {
		deps.Crawler.Concurrency = c.Concurrency
	}
	deps.Crawler.SkipFingerprint = c.NoHash

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Scanning %d submissions (%d-%d)\n", event.Total, run.From, run.To)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %d: %s\n", event.ID, fasub.ErrorMessage(event.Error))
		}
	}

	result, err := deps.Crawler.Scan(deps.Ctx, run.From, run.To, progress)
	if result != nil {
		run.Saved = result.Saved
		run.Missing = result.Missing
		run.Failed = result.Failed
		run.Duplicates = result.Duplicates
		run.Unchanged = result.Unchanged
	}
	run.FinishedAt = time.Now().UTC()

	// Interrupted scans are recorded too.
	if result != nil {
		if err := deps.Scans.CreateScan(deps.Ctx, run); err != nil {
			deps.Logger.Warn("record scan", "err", err)
		}
	}

	if err != nil {
		fmt.Fprintf(deps.Stderr, "error scanning: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Done: %s\n", result)
	return nil
}
