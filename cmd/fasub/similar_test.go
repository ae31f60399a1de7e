package main_test

import (
	"context"
	"testing"

	"github.com/fwojciec/fasub"
	main "github.com/fwojciec/fasub/cmd/fasub"
	"github.com/fwojciec/fasub/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarCmd_Run(t *testing.T) {
	t.Parallel()

	hashed := func(id int, n int64) *fasub.Submission {
		return testSubmission(id).WithFingerprint(&fasub.Fingerprint{PerceptualHash: fasub.PerceptualHashFromInt64(n)})
	}

	t.Run("lists similar submissions except the query", func(t *testing.T) {
		t.Parallel()

		query := hashed(1, 0)
		deps, stdout, _ := testDeps(htmlFetcher(), &mock.Extractor{})
		deps.Submissions = &mock.SubmissionService{
			FindSubmissionByIDFn: func(_ context.Context, id int) (*fasub.Submission, error) {
				return query, nil
			},
			FindSimilarSubmissionsFn: func(_ context.Context, hash fasub.PerceptualHash, maxDistance int) ([]*fasub.SimilarSubmission, error) {
				assert.Equal(t, query.Fingerprint.PerceptualHash, hash)
				assert.Equal(t, 4, maxDistance)
				return []*fasub.SimilarSubmission{
					{Submission: query, Distance: 0},
					{Submission: hashed(2, 3), Distance: 2},
				}, nil
			},
		}

		err := (&main.SimilarCmd{ID: 1, Distance: 4}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, " 2  2  Sketch by artist")
		assert.NotContains(t, out, " 0  1 ")
		assert.Contains(t, out, hashed(2, 3).Content.URL)
	})

	t.Run("reports when nothing is similar", func(t *testing.T) {
		t.Parallel()

		query := hashed(1, 0)
		deps, stdout, _ := testDeps(htmlFetcher(), &mock.Extractor{})
		deps.Submissions = &mock.SubmissionService{
			FindSubmissionByIDFn: func(_ context.Context, _ int) (*fasub.Submission, error) {
				return query, nil
			},
			FindSimilarSubmissionsFn: func(_ context.Context, _ fasub.PerceptualHash, _ int) ([]*fasub.SimilarSubmission, error) {
				return []*fasub.SimilarSubmission{{Submission: query}}, nil
			},
		}

		err := (&main.SimilarCmd{ID: 1, Distance: 8}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No submissions within distance 8 of 1.")
	})

	t.Run("requires a stored submission", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := testDeps(htmlFetcher(), &mock.Extractor{})
		deps.Submissions = &mock.SubmissionService{
			FindSubmissionByIDFn: func(_ context.Context, _ int) (*fasub.Submission, error) {
				return nil, fasub.ErrNotFound
			},
		}

		err := (&main.SimilarCmd{ID: 9}).Run(deps)

		require.ErrorIs(t, err, fasub.ErrNotFound)
		assert.Contains(t, stderr.String(), "submission 9 is not stored")
	})

	t.Run("requires a fingerprint", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := testDeps(htmlFetcher(), &mock.Extractor{})
		deps.Submissions = &mock.SubmissionService{
			FindSubmissionByIDFn: func(_ context.Context, id int) (*fasub.Submission, error) {
				return testSubmission(id), nil
			},
		}

		err := (&main.SimilarCmd{ID: 9}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "submission 9 has no fingerprint")
	})

	t.Run("searches by a base64 hash", func(t *testing.T) {
		t.Parallel()

		want := fasub.PerceptualHashFromInt64(0x0102030405060708)
		deps, stdout, _ := testDeps(htmlFetcher(), &mock.Extractor{})
		deps.Submissions = &mock.SubmissionService{
			FindSimilarSubmissionsFn: func(_ context.Context, hash fasub.PerceptualHash, maxDistance int) ([]*fasub.SimilarSubmission, error) {
				assert.Equal(t, want, hash)
				assert.Equal(t, 3, maxDistance)
				return []*fasub.SimilarSubmission{{Submission: hashed(5, 1), Distance: 1}}, nil
			},
		}

		err := (&main.SimilarCmd{Hash: want.Base64(), Distance: 3}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), " 1  5  Sketch by artist")
	})

	t.Run("rejects a malformed hash", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := testDeps(htmlFetcher(), &mock.Extractor{})

		err := (&main.SimilarCmd{Hash: "AQID", Distance: 3}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "invalid perceptual hash")
	})

	t.Run("requires exactly one of id and hash", func(t *testing.T) {
		t.Parallel()

		for _, cmd := range []*main.SimilarCmd{
			{},
			{ID: 1, Hash: fasub.PerceptualHash{}.Base64()},
		} {
			deps, _, stderr := testDeps(htmlFetcher(), &mock.Extractor{})

			err := cmd.Run(deps)

			require.Error(t, err)
			assert.Contains(t, stderr.String(), "either a submission id or --hash")
		}
	})
}
