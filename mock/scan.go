package mock

import (
	"context"

	"github.com/fwojciec/fasub"
)

var _ fasub.ScanService = (*ScanService)(nil)

// ScanService is a mock implementation of fasub.ScanService.
type ScanService struct {
	CreateScanFn func(ctx context.Context, run *fasub.ScanRun) error
	FindScansFn  func(ctx context.Context, limit int) ([]*fasub.ScanRun, error)
}

func (s *ScanService) CreateScan(ctx context.Context, run *fasub.ScanRun) error {
	return s.CreateScanFn(ctx, run)
}

func (s *ScanService) FindScans(ctx context.Context, limit int) ([]*fasub.ScanRun, error) {
	return s.FindScansFn(ctx, limit)
}
