package mock

import "github.com/fwojciec/fasub"

var _ fasub.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of fasub.Extractor.
type Extractor struct {
	ExtractSubmissionFn   func(id int, html string) (*fasub.Submission, error)
	ExtractLatestIDFn     func(html string) (int, error)
	ExtractOnlineCountsFn func(html string) (*fasub.OnlineCounts, error)
	ExtractNavLinksFn     func(description string) (*fasub.NavLinks, error)
}

func (e *Extractor) ExtractSubmission(id int, html string) (*fasub.Submission, error) {
	return e.ExtractSubmissionFn(id, html)
}

func (e *Extractor) ExtractLatestID(html string) (int, error) {
	return e.ExtractLatestIDFn(html)
}

func (e *Extractor) ExtractOnlineCounts(html string) (*fasub.OnlineCounts, error) {
	return e.ExtractOnlineCountsFn(html)
}

func (e *Extractor) ExtractNavLinks(description string) (*fasub.NavLinks, error) {
	return e.ExtractNavLinksFn(description)
}
