package fasub

import "context"

// SubmissionService persists extracted submissions.
type SubmissionService interface {
	// SaveSubmission inserts a submission or replaces the stored one with
	// the same ID. It reports false when the stored record already matched
	// and nothing was written.
	SaveSubmission(ctx context.Context, sub *Submission) (bool, error)

	// FindSubmissionByID retrieves a submission by ID.
	// Returns ErrNotFound if the submission is not stored.
	FindSubmissionByID(ctx context.Context, id int) (*Submission, error)

	// FindSubmissions retrieves submissions matching the filter.
	FindSubmissions(ctx context.Context, filter SubmissionFilter) ([]*Submission, error)

	// FindSimilarSubmissions returns fingerprinted submissions whose
	// perceptual hash is within maxDistance bits of hash, closest first.
	FindSimilarSubmissions(ctx context.Context, hash PerceptualHash, maxDistance int) ([]*SimilarSubmission, error)

	// DeleteSubmission removes a submission.
	// Returns ErrNotFound if the submission is not stored.
	DeleteSubmission(ctx context.Context, id int) error
}

// SubmissionFilter represents a filter for FindSubmissions.
type SubmissionFilter struct {
	Artist *string `json:"artist"`
	Rating *Rating `json:"rating"`
	Tag    *string `json:"tag"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SimilarSubmission pairs a stored submission with its hash distance
// from the query.
type SimilarSubmission struct {
	Submission *Submission `json:"submission"`
	Distance   int         `json:"distance"`
}
