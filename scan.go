package fasub

import (
	"context"
	"time"
)

// ScanRun records one pass over a range of submission ids.
type ScanRun struct {
	ID   string `json:"id"`
	From int    `json:"from"`
	To   int    `json:"to"`

	Saved      int `json:"saved"`
	Missing    int `json:"missing"`
	Failed     int `json:"failed"`
	Duplicates int `json:"duplicates"`
	Unchanged  int `json:"unchanged"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the run has an impossible id range.
func (r *ScanRun) Validate() error {
	if r.From <= 0 {
		return Errorf(false, "scan range start must be positive")
	}
	if r.To < r.From {
		return Errorf(false, "scan range end must not precede start")
	}
	return nil
}

// ScanService persists the history of scans.
type ScanService interface {
	// CreateScan stores a run and assigns its ID.
	CreateScan(ctx context.Context, run *ScanRun) error

	// FindScans returns recorded runs, newest first. A limit of zero
	// returns all of them.
	FindScans(ctx context.Context, limit int) ([]*ScanRun, error)
}
