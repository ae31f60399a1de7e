package main

import (
	"fmt"
	"time"
)

// Run executes the scans command.
func (c *ScansCmd) Run(deps *Dependencies) error {
	runs, err := deps.Scans.FindScans(deps.Ctx, c.Limit)
	if err != nil {
		return errorf(deps, err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No scans recorded. Use 'fasub scan' to run one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d-%d  saved %d, missing %d, failed %d, duplicates %d, unchanged %d (%s)\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.From, r.To,
			r.Saved, r.Missing, r.Failed, r.Duplicates, r.Unchanged, r.FinishedAt.Sub(r.StartedAt).Round(time.Second))
	}
	return nil
}
