package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/fasub"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ fasub.ScanService = (*ScanService)(nil)

// ScanService implements fasub.ScanService using SQLite.
type ScanService struct {
	db *DB
}

// NewScanService creates a new ScanService.
func NewScanService(db *DB) *ScanService {
	return &ScanService{db: db}
}

// CreateScan stores a run with a generated ID.
func (s *ScanService) CreateScan(ctx context.Context, run *fasub.ScanRun) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scans (id, range_from, range_to, saved, missing, failed, duplicates, unchanged, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.From, run.To, run.Saved, run.Missing, run.Failed, run.Duplicates, run.Unchanged,
		run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339))

	return err
}

// FindScans returns recorded runs, newest first.
func (s *ScanService) FindScans(ctx context.Context, limit int) ([]*fasub.ScanRun, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT id, range_from, range_to, saved, missing, failed, duplicates, unchanged, started_at, finished_at
		FROM scans ORDER BY started_at DESC, rowid DESC`)
	appendPagination(&query, &args, limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*fasub.ScanRun
	for rows.Next() {
		var run fasub.ScanRun
		var startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.From, &run.To, &run.Saved, &run.Missing, &run.Failed,
			&run.Duplicates, &run.Unchanged, &startedAt, &finishedAt); err != nil {
			return nil, err
		}

		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}
