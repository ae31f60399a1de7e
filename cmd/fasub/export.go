package main

import (
	"fmt"

	"github.com/fwojciec/fasub"
)

// exportPageSize is the number of submissions loaded per query.
const exportPageSize = 500

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	filter := fasub.SubmissionFilter{Limit: exportPageSize}
	if c.Rating != "" {
		rating, err := fasub.ParseRating(c.Rating)
		if err != nil {
			_ = deps.Exporter.Abort()
			return errorf(deps, err)
		}
		filter.Rating = &rating
	}
	if c.Artist != "" {
		filter.Artist = &c.Artist
	}
	if c.Tag != "" {
		filter.Tag = &c.Tag
	}

	var count int
	for {
		subs, err := deps.Submissions.FindSubmissions(deps.Ctx, filter)
		if err != nil {
			_ = deps.Exporter.Abort()
			return errorf(deps, err)
		}
		for _, sub := range subs {
			if err := deps.Exporter.Save(deps.Ctx, sub); err != nil {
				_ = deps.Exporter.Abort()
				return errorf(deps, fmt.Errorf("export submission %d: %w", sub.ID, err))
			}
			count++
		}
		if len(subs) < exportPageSize {
			break
		}
		filter.Offset += exportPageSize
	}

	if count == 0 {
		_ = deps.Exporter.Abort()
		fmt.Fprintln(deps.Stdout, "No submissions match. Nothing exported.")
		return nil
	}

	if err := deps.Exporter.Commit(); err != nil {
		return errorf(deps, err)
	}

	fmt.Fprintf(deps.Stdout, "Exported %d submissions to %s\n", count, c.Path)
	return nil
}
