package fasub

// Extractor maps site pages onto fasub records.
// Implementations are pure: they hold no mutable state and are safe for
// concurrent use.
type Extractor interface {
	// ExtractSubmission parses a view page into a Submission with the
	// caller-supplied id. Returns nil and no error if the page states the
	// submission does not exist or was removed.
	ExtractSubmission(id int, html string) (*Submission, error)

	// ExtractLatestID returns the id of the newest submission linked from
	// the front page.
	ExtractLatestID(html string) (int, error)

	// ExtractOnlineCounts parses the online user counters from the front
	// page. Missing counters are reported as zero.
	ExtractOnlineCounts(html string) (*OnlineCounts, error)

	// ExtractNavLinks parses sequence links embedded in a submission
	// description.
	ExtractNavLinks(description string) (*NavLinks, error)
}
