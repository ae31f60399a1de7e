package mock

import (
	"context"

	"github.com/fwojciec/fasub"
)

var _ fasub.SubmissionService = (*SubmissionService)(nil)

// SubmissionService is a mock implementation of fasub.SubmissionService.
type SubmissionService struct {
	SaveSubmissionFn         func(ctx context.Context, sub *fasub.Submission) (bool, error)
	FindSubmissionByIDFn     func(ctx context.Context, id int) (*fasub.Submission, error)
	FindSubmissionsFn        func(ctx context.Context, filter fasub.SubmissionFilter) ([]*fasub.Submission, error)
	FindSimilarSubmissionsFn func(ctx context.Context, hash fasub.PerceptualHash, maxDistance int) ([]*fasub.SimilarSubmission, error)
	DeleteSubmissionFn       func(ctx context.Context, id int) error
}

func (s *SubmissionService) SaveSubmission(ctx context.Context, sub *fasub.Submission) (bool, error) {
	return s.SaveSubmissionFn(ctx, sub)
}

func (s *SubmissionService) FindSubmissionByID(ctx context.Context, id int) (*fasub.Submission, error) {
	return s.FindSubmissionByIDFn(ctx, id)
}

func (s *SubmissionService) FindSubmissions(ctx context.Context, filter fasub.SubmissionFilter) ([]*fasub.Submission, error) {
	return s.FindSubmissionsFn(ctx, filter)
}

func (s *SubmissionService) FindSimilarSubmissions(ctx context.Context, hash fasub.PerceptualHash, maxDistance int) ([]*fasub.SimilarSubmission, error) {
	return s.FindSimilarSubmissionsFn(ctx, hash, maxDistance)
}

func (s *SubmissionService) DeleteSubmission(ctx context.Context, id int) error {
	return s.DeleteSubmissionFn(ctx, id)
}
