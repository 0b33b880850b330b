package mocks

import (
	"context"

	"feed-sync/core/poller"
	"feed-sync/core/reconcile"
	"feed-sync/feature/history"

	"github.com/stretchr/testify/mock"
)

// Poller is a mock implementation of status.Poller.
type Poller struct {
	mock.Mock
}

func (m *Poller) Status() poller.Status {
	args := m.Called()
	return args.Get(0).(poller.Status)
}

func (m *Poller) Trigger() error {
	args := m.Called()
	return args.Error(0)
}

// Planner is a mock implementation of status.Planner.
type Planner struct {
	mock.Mock
}

func (m *Planner) Plan(ctx context.Context) (*reconcile.Plan, error) {
	args := m.Called(ctx)
	if p, ok := args.Get(0).(*reconcile.Plan); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// History is a mock implementation of status.History.
type History struct {
	mock.Mock
}

func (m *History) Recent(ctx context.Context, limit int) ([]history.SyncRun, error) {
	args := m.Called(ctx, limit)
	if runs, ok := args.Get(0).([]history.SyncRun); ok {
		return runs, args.Error(1)
	}
	return nil, args.Error(1)
}
