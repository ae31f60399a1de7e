package main

import (
	"errors"
	"fmt"

	"github.com/fwojciec/fasub"
	"github.com/fwojciec/fasub/crawl"
)

// Run executes the similar command.
func (c *SimilarCmd) Run(deps *Dependencies) error {
	if (c.ID == 0) == (c.Hash == "") {
		err := fasub.Errorf(false, "give either a submission id or --hash")
		return errorf(deps, err)
	}

	hash, label, err := c.query(deps)
	if err != nil {
		return err
	}

	similar, err := deps.Submissions.FindSimilarSubmissions(deps.Ctx, hash, c.Distance)
	if err != nil {
		return errorf(deps, err)
	}

	var found int
	for _, s := range similar {
		if c.ID != 0 && s.Submission.ID == c.ID {
			continue
		}
		found++
		fmt.Fprintf(deps.Stdout, "%2d  %d  %s by %s\n", s.Distance, s.Submission.ID, s.Submission.Title, s.Submission.Artist)
		fmt.Fprintf(deps.Stdout, "        %s\n", crawl.TruncateURL(s.Submission.Content.URL, 60))
	}

	if found == 0 {
		fmt.Fprintf(deps.Stdout, "No submissions within distance %d of %s.\n", c.Distance, label)
	}
	return nil
}

// query resolves the hash to search for and how to name it in output.
func (c *SimilarCmd) query(deps *Dependencies) (fasub.PerceptualHash, string, error) {
	if c.Hash != "" {
		hash, err := fasub.ParsePerceptualHash(c.Hash)
		if err != nil {
			return hash, "", errorf(deps, err)
		}
		return hash, c.Hash, nil
	}

	sub, err := deps.Submissions.FindSubmissionByID(deps.Ctx, c.ID)
	if errors.Is(err, fasub.ErrNotFound) {
		fmt.Fprintf(deps.Stderr, "error: submission %d is not stored. Run 'fasub scan --from %d --to %d' first.\n", c.ID, c.ID, c.ID)
		return fasub.PerceptualHash{}, "", err
	}
	if err != nil {
		return fasub.PerceptualHash{}, "", errorf(deps, err)
	}
	if sub.Fingerprint == nil {
		err := fasub.Errorf(false, "submission %d has no fingerprint", c.ID)
		return fasub.PerceptualHash{}, "", errorf(deps, err)
	}
	return sub.Fingerprint.PerceptualHash, fmt.Sprint(c.ID), nil
}
