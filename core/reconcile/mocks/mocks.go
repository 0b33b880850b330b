package mocks

import (
	"context"
	"io"

	"feed-sync/core/reconcile"

	"github.com/stretchr/testify/mock"
)

// Feed is a mock implementation of reconcile.Feed
type Feed struct {
	mock.Mock
}

func (m *Feed) Snapshot(ctx context.Context) (*reconcile.FeedSnapshot, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(*reconcile.FeedSnapshot); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Feed) Download(ctx context.Context, packageID, version string) (io.ReadCloser, error) {
	args := m.Called(ctx, packageID, version)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

// Target is a mock implementation of reconcile.Target
type Target struct {
	mock.Mock
}

func (m *Target) ListPackages(ctx context.Context, packageID string) ([]reconcile.InventoryEntry, error) {
	args := m.Called(ctx, packageID)
	if entries, ok := args.Get(0).([]reconcile.InventoryEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Target) PushPackage(ctx context.Context, packageID, version, path string) error {
	args := m.Called(ctx, packageID, version, path)
	return args.Error(0)
}

// Stager is a mock implementation of reconcile.Stager
type Stager struct {
	mock.Mock
}

func (m *Stager) Stage(packageID, version string, r io.Reader) (string, int64, error) {
	args := m.Called(packageID, version, r)
	if r != nil {
		_, _ = io.Copy(io.Discard, r)
	}
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *Stager) Release(path string) error {
	args := m.Called(path)
	return args.Error(0)
}
