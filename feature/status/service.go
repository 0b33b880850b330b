package status

import (
	"context"
	"errors"

	"feed-sync/core/poller"
	"feed-sync/core/reconcile"
	"feed-sync/feature/history"

	"go.uber.org/zap"
)

// ErrHistoryDisabled is returned by Runs when no database is configured.
var ErrHistoryDisabled = errors.New("run history is disabled")

// Poller is the part of the poller exposed over HTTP.
type Poller interface {
	Status() poller.Status
	Trigger() error
}

// Planner computes decisions without transferring anything.
type Planner interface {
	Plan(ctx context.Context) (*reconcile.Plan, error)
}

// History lists finished passes.
type History interface {
	Recent(ctx context.Context, limit int) ([]history.SyncRun, error)
}

// Service backs the status endpoints.
type Service struct {
	poller  Poller
	planner Planner
	history History
	logger  *zap.Logger
}

// NewService creates a status service. history may be nil.
func NewService(p Poller, planner Planner, h History, logger *zap.Logger) *Service {
	return &Service{
		poller:  p,
		planner: planner,
		history: h,
		logger:  logger,
	}
}

// Status returns the poller state.
func (s *Service) Status() poller.Status {
	return s.poller.Status()
}

// Trigger starts a pass now. It returns poller.ErrPassRunning when one is in progress.
func (s *Service) Trigger() error {
	return s.poller.Trigger()
}

// Plan returns what the next pass would upload.
func (s *Service) Plan(ctx context.Context) (*reconcile.Plan, error) {
	return s.planner.Plan(ctx)
}

// Runs returns recent passes, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]history.SyncRun, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.Recent(ctx, limit)
}

// HistoryEnabled reports whether Runs can answer.
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}
