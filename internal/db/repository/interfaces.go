// Package repository provides data access layer implementations.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/saltfish/pairscan/internal/db"
	"github.com/saltfish/pairscan/internal/domain"
)

// ScanRunRepository defines the interface for scan run data access.
type ScanRunRepository interface {
	// Create creates a new scan run record.
	Create(ctx context.Context, run *domain.ScanRun) error

	// Complete records the completion time and outcome counts of a run.
	Complete(ctx context.Context, run *domain.ScanRun) error

	// ListRecent retrieves the most recent scan runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.ScanRun, error)
}

// PairReportRepository defines the interface for per-pair report rows.
type PairReportRepository interface {
	// CreateBatch persists all report rows of one run in a single transaction.
	CreateBatch(ctx context.Context, runID uuid.UUID, reports []*domain.PairReport) error
}

// Repositories aggregates all repository interfaces.
type Repositories struct {
	ScanRun    ScanRunRepository
	PairReport PairReportRepository
}

// NewRepositories creates a new Repositories instance with all PostgreSQL
// implementations.
func NewRepositories(pool *db.Pool) *Repositories {
	return &Repositories{
		ScanRun:    NewScanRunRepository(pool),
		PairReport: NewPairReportRepository(pool),
	}
}
