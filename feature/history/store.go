package history

import (
	"context"
	"fmt"
	"time"

	"feed-sync/core/poller"
	"feed-sync/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultLimit is used by Recent when the requested limit is not positive.
const DefaultLimit = 20

// MaxLimit caps the number of rows Recent returns.
const MaxLimit = 500

// Store persists finished passes. Nothing in a pass reads it back.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a store over an open connection.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Migrate creates or updates the sync_runs table.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&SyncRun{}); err != nil {
		return fmt.Errorf("failed to migrate sync_runs: %w", err)
	}
	return nil
}

// Record stores the outcome of one pass.
func (s *Store) Record(ctx context.Context, res poller.Result) error {
	run := FromResult(res)
	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}
	return nil
}

// OnComplete adapts Record to a poller completion hook. Failures are logged only.
func (s *Store) OnComplete(res poller.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Record(ctx, res); err != nil {
		s.logger.Warn("Failed to record sync run", zap.Error(err))
	}
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var runs []SyncRun
	if err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	return runs, nil
}

// FromResult converts a poller result to a row.
func FromResult(res poller.Result) SyncRun {
	run := SyncRun{Trigger: res.Trigger}

	if r := res.Report; r != nil {
		run.PassID = r.PassID
		run.StartedAt = r.StartedAt
		run.FinishedAt = r.FinishedAt
		run.Packages = r.Packages
		run.Uploaded = r.Uploaded
		run.Skipped = r.Skipped
		run.Invalid = r.Invalid
		run.Filtered = r.Filtered
		run.ReleaseFailures = r.ReleaseFailures
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}

	if res.Err != nil {
		run.Error = res.Err.Error()
		run.ErrorKind = string(reconcile.KindOf(res.Err))
	}
	return run
}
