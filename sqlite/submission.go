package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fwojciec/fasub"
)

// Compile-time interface verification.
var _ fasub.SubmissionService = (*SubmissionService)(nil)

// SubmissionService implements fasub.SubmissionService using SQLite.
type SubmissionService struct {
	db *DB
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(db *DB) *SubmissionService {
	return &SubmissionService{db: db}
}

const submissionColumns = `id, title, artist, content_kind, content_url, extension, filename,
	rating, posted_at, description, phash_num, content_digest, content_size`

// SaveSubmission inserts a submission or replaces the stored one with the
// same ID. A stored fingerprint survives a save without one as long as the
// content URL is unchanged. Nothing is written, and false is returned, when
// the stored record already matches sub.
func (s *SubmissionService) SaveSubmission(ctx context.Context, sub *fasub.Submission) (bool, error) {
	if err := sub.Validate(); err != nil {
		return false, err
	}
	recordHash := hashRecord(sub)

	var phash sql.NullInt64
	var digest sql.NullString
	var size sql.NullInt64
	if fp := sub.Fingerprint; fp != nil {
		phash = sql.NullInt64{Int64: fp.PerceptualHashNumeric(), Valid: true}
		digest = sql.NullString{String: hex.EncodeToString(fp.ContentDigest[:]), Valid: true}
		size = sql.NullInt64{Int64: int64(fp.ContentSize), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var storedHash string
	var storedPhash sql.NullInt64
	var storedDigest sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT record_hash, phash_num, content_digest FROM submissions WHERE id = ?
	`, sub.ID).Scan(&storedHash, &storedPhash, &storedDigest)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("failed to read submission %d: %w", sub.ID, err)
	case storedHash == recordHash && (!phash.Valid || (phash == storedPhash && digest == storedDigest)):
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO submissions (id, title, artist, content_kind, content_url, extension, filename,
			rating, posted_at, description, record_hash, phash_num, content_digest, content_size, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			content_kind = excluded.content_kind,
			extension = excluded.extension,
			filename = excluded.filename,
			rating = excluded.rating,
			posted_at = excluded.posted_at,
			description = excluded.description,
			record_hash = excluded.record_hash,
			phash_num = CASE WHEN excluded.phash_num IS NULL AND submissions.content_url = excluded.content_url
				THEN submissions.phash_num ELSE excluded.phash_num END,
			content_digest = CASE WHEN excluded.content_digest IS NULL AND submissions.content_url = excluded.content_url
				THEN submissions.content_digest ELSE excluded.content_digest END,
			content_size = CASE WHEN excluded.content_size IS NULL AND submissions.content_url = excluded.content_url
				THEN submissions.content_size ELSE excluded.content_size END,
			content_url = excluded.content_url,
			updated_at = excluded.updated_at
	`, sub.ID, sub.Title, sub.Artist, string(sub.Content.Kind), sub.Content.URL, sub.Extension, sub.Filename,
		sub.Rating.Code(), sub.PostedAt.Format(time.RFC3339), sub.Description, recordHash,
		phash, digest, size, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("failed to save submission %d: %w", sub.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM submission_tags WHERE submission_id = ?`, sub.ID); err != nil {
		return false, err
	}
	for i, tag := range sub.Tags {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO submission_tags (submission_id, position, tag) VALUES (?, ?, ?)
		`, sub.ID, i, tag); err != nil {
			return false, fmt.Errorf("failed to save tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// FindSubmissionByID retrieves a submission by ID.
func (s *SubmissionService) FindSubmissionByID(ctx context.Context, id int) (*fasub.Submission, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fasub.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, []*fasub.Submission{sub}); err != nil {
		return nil, err
	}
	return sub, nil
}

// FindSubmissions retrieves submissions matching the filter, newest ID first.
func (s *SubmissionService) FindSubmissions(ctx context.Context, filter fasub.SubmissionFilter) ([]*fasub.Submission, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT ` + submissionColumns + ` FROM submissions WHERE 1=1`)

	if filter.Artist != nil {
		query.WriteString(" AND artist = ?")
		args = append(args, *filter.Artist)
	}
	if filter.Rating != nil {
		query.WriteString(" AND rating = ?")
		args = append(args, filter.Rating.Code())
	}
	if filter.Tag != nil {
		query.WriteString(" AND EXISTS (SELECT 1 FROM submission_tags t WHERE t.submission_id = submissions.id AND t.tag = ?)")
		args = append(args, *filter.Tag)
	}

	query.WriteString(" ORDER BY id DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}

	var subs []*fasub.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// The pool holds one connection; release it before loading tags.
	rows.Close()

	if err := s.attachTags(ctx, subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// FindSimilarSubmissions returns fingerprinted submissions whose perceptual
// hash is within maxDistance bits of hash, closest first. Ties are broken
// by ascending ID.
func (s *SubmissionService) FindSimilarSubmissions(ctx context.Context, hash fasub.PerceptualHash, maxDistance int) ([]*fasub.SimilarSubmission, error) {
	if maxDistance < 0 {
		return nil, fasub.Errorf(false, "max distance must not be negative")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, phash_num FROM submissions WHERE phash_num IS NOT NULL`)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		id       int
		distance int
	}
	var candidates []candidate
	for rows.Next() {
		var id int
		var num int64
		if err := rows.Scan(&id, &num); err != nil {
			rows.Close()
			return nil, err
		}
		if d := hash.Distance(fasub.PerceptualHashFromInt64(num)); d <= maxDistance {
			candidates = append(candidates, candidate{id: id, distance: d})
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].id < candidates[j].id
	})

	similar := make([]*fasub.SimilarSubmission, 0, len(candidates))
	for _, c := range candidates {
		sub, err := s.FindSubmissionByID(ctx, c.id)
		if err != nil {
			return nil, err
		}
		similar = append(similar, &fasub.SimilarSubmission{Submission: sub, Distance: c.distance})
	}
	return similar, nil
}

// DeleteSubmission removes a submission and its tags.
func (s *SubmissionService) DeleteSubmission(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fasub.ErrNotFound
	}
	return nil
}

// attachTags loads the ordered tags of each submission.
func (s *SubmissionService) attachTags(ctx context.Context, subs []*fasub.Submission) error {
	for _, sub := range subs {
		rows, err := s.db.QueryContext(ctx, `
			SELECT tag FROM submission_tags WHERE submission_id = ? ORDER BY position
		`, sub.ID)
		if err != nil {
			return err
		}

		tags := []string{}
		for rows.Next() {
			var tag string
			if err := rows.Scan(&tag); err != nil {
				rows.Close()
				return err
			}
			tags = append(tags, tag)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return err
		}
		sub.Tags = tags
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*fasub.Submission, error) {
	var sub fasub.Submission
	var kind, rating, postedAt string
	var phash sql.NullInt64
	var digest sql.NullString
	var size sql.NullInt64

	if err := row.Scan(&sub.ID, &sub.Title, &sub.Artist, &kind, &sub.Content.URL, &sub.Extension,
		&sub.Filename, &rating, &postedAt, &sub.Description, &phash, &digest, &size); err != nil {
		return nil, err
	}
	sub.Content.Kind = fasub.ContentKind(kind)

	var err error
	if sub.Rating, err = fasub.ParseRatingCode(rating); err != nil {
		return nil, err
	}
	if sub.PostedAt, err = parseRFC3339(postedAt, "posted_at"); err != nil {
		return nil, err
	}

	if phash.Valid {
		fp := &fasub.Fingerprint{
			PerceptualHash: fasub.PerceptualHashFromInt64(phash.Int64),
			ContentSize:    int(size.Int64),
		}
		b, err := hex.DecodeString(digest.String)
		if err != nil || len(b) != len(fp.ContentDigest) {
			return nil, fmt.Errorf("invalid content digest for submission %d", sub.ID)
		}
		copy(fp.ContentDigest[:], b)
		sub.Fingerprint = fp
	}

	return &sub, nil
}
