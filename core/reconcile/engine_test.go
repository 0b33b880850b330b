package reconcile_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"feed-sync/core/reconcile"
	"feed-sync/core/reconcile/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func at(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func fooEntry() reconcile.PackageEntry {
	return reconcile.PackageEntry{
		ID:             "Foo",
		Type:           "NuGet",
		Versions:       []string{"1.0", "1.1"},
		PublishedDates: []time.Time{at(100), at(200)},
	}
}

func snapshotOf(entries ...reconcile.PackageEntry) *reconcile.FeedSnapshot {
	return &reconcile.FeedSnapshot{Timestamp: at(1000), Packages: entries}
}

func artifact() io.ReadCloser {
	return io.NopCloser(strings.NewReader("nupkg-bytes"))
}

type fixture struct {
	feed   *mocks.Feed
	target *mocks.Target
	stager *mocks.Stager
	engine *reconcile.Engine
}

func newFixture(opts reconcile.Options) *fixture {
	f := &fixture{
		feed:   new(mocks.Feed),
		target: new(mocks.Target),
		stager: new(mocks.Stager),
	}
	f.engine = reconcile.NewEngine(f.feed, f.target, f.stager, zap.NewNop(), opts)
	return f
}

// expectTransfer wires a successful download, stage and push of id/version.
func (f *fixture) expectTransfer(id, version string) string {
	path := "/staging/" + id + "." + version + ".nupkg"
	f.feed.On("Download", mock.Anything, id, version).Return(artifact(), nil).Once()
	f.stager.On("Stage", id, version, mock.Anything).Return(path, int64(11), nil).Once()
	f.target.On("PushPackage", mock.Anything, id, version, path).Return(nil).Once()
	return path
}

func TestRun_NotYetPresent(t *testing.T) {
	f := newFixture(reconcile.Options{})
	f.feed.On("Snapshot", mock.Anything).Return(snapshotOf(fooEntry()), nil)
	f.target.On("ListPackages", mock.Anything, "Foo").Return([]reconcile.InventoryEntry{}, nil)
	path := f.expectTransfer("Foo", "1.1")
	f.stager.On("Release", path).Return(nil)

	report, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Packages)
	assert.Equal(t, 1, report.Uploaded)
	assert.Equal(t, 0, report.Skipped)
	assert.NotEmpty(t, report.PassID)
	assert.Equal(t, at(1000), report.SnapshotTime)
	require.Len(t, report.Decisions, 1)
	assert.Equal(t, reconcile.ReasonNotYetPresent, report.Decisions[0].Reason)
	assert.Equal(t, "1.1", report.Decisions[0].Version)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))

	f.feed.AssertExpectations(t)
	f.target.AssertExpectations(t)
	f.stager.AssertExpectations(t)
}

func TestRun_UpToDate(t *testing.T) {
	f := newFixture(reconcile.Options{})
	f.feed.On("Snapshot", mock.Anything).Return(snapshotOf(fooEntry()), nil)
	f.target.On("ListPackages", mock.Anything, "Foo").
		Return([]reconcile.InventoryEntry{{Version: "1.1", LastModifiedOn: at(500)}}, nil)

	report, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Uploaded)
	assert.Equal(t, 1, report.Skipped)
	f.feed.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
	f.target.AssertNotCalled(t, "PushPackage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_NewerVersionAvailable(t *testing.T) {
	f := newFixture(reconcile.Options{})
	f.feed.On("Snapshot", mock.Anything).Return(snapshotOf(fooEntry()), nil)
	f.target.On("ListPackages", mock.Anything, "Foo").
		Return([]reconcile.InventoryEntry{{Version: "1.0", LastModifiedOn: at(500)}}, nil)
	path := f.expectTransfer("Foo", "1.1")
	f.stager.On("Release", path).Return(nil)

	report, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Uploaded)
	require.Len(t, report.Decisions, 1)
	assert.Equal(t, reconcile.ReasonNewerVersionAvailable, report.Decisions[0].Reason)
	assert.Equal(t, "1.0", report.Decisions[0].DeployedVersion)
	f.target.AssertExpectations(t)
}

func TestRun_ProcessesInFeedOrder(t *testing.T) {
	f := newFixture(reconcile.Options{})
	bar := reconcile.PackageEntry{ID: "Bar", Versions: []string{"2.0"}, PublishedDates: []time.Time{at(10)}}
	f.feed.On("Snapshot", mock.Anything).Return(snapshotOf(fooEntry(), bar), nil)
	f.target.On("ListPackages", mock.Anything, mock.Anything).Return([]reconcile.InventoryEntry{}, nil)
	f.feed.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(artifact(), nil)
	f.stager.On("Stage", "Foo", "1.1", mock.Anything).Return("Foo.1.1", int64(11), nil)
	f.stager.On("Stage", "Bar", "2.0", mock.Anything).Return("Bar.2.0", int64(11), nil)
	f.stager.On("Release", mock.Anything).Return(nil)

	var pushed []string
	f.target.On("PushPackage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { pushed = append(pushed, args.String(1)+"@"+args.String(2)) }).
		Return(nil)

	report, err := f.engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Uploaded)
	assert.Equal(t, []string{"Foo@1.1", "Bar@2.0"}, pushed)
}

func TestRun_InvalidEntrySkipped(t *testing.T) {
	f := newFixture(reconcile.Options{})
	broken := reconcile.PackageEntry{ID: "Broken"}
	mismatched := reconcile.PackageEntry{ID: "Mismatched", Versions: []string{"1.0", "2.0"}, PublishedDates: []time.Time{at(1)}}
	f.feed.On("Snapshot", mock.Anything).Return(snapshotOf(broken, mismatched, fooEntry()), nil)
	f.target.On("ListPackages", mock.Anything, "Foo").
		Return([]reconcile.InventoryEntry{{Version: "1.1", LastModifiedOn: at(1)}}, nil)

	report, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Packages)
	assert.Equal(t, 2, report.Invalid)
	assert.Equal(t, 1, report.Skipped)
	f.target.AssertNotCalled(t, "ListPackages", mock.Anything, "Broken")
	f.target.AssertNotCalled(t, "ListPackages", mock.Anything, "Mismatched")
}

func TestRun_PackageTypeFilter(t *testing.T) {
	f := newFixture(reconcile.Options{PackageTypes: []string{"nuget"}})
	docker := reconcile.PackageEntry{ID: "Image", Type: "Docker", Versions: []string{"1"}, PublishedDates: []time.Time{at(1)}}
	f.feed.On("Snapshot", mock.Anything).Return(snapshotOf(docker, fooEntry()), nil)
	f.target.On("ListPackages", mock.Anything, "Foo").
		Return([]reconcile.InventoryEntry{{Version: "1.1", LastModifiedOn: at(1)}}, nil)

	report, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Filtered)
	assert.Equal(t, 1, report.Skipped)
	f.target.AssertNotCalled(t, "ListPackages", mock.Anything, "Image")
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(f *fixture)
		wantKind reconcile.ErrorKind
		uploaded int
	}{
		{
			name: "Feed unavailable",
			setup: func(f *fixture) {
				f.feed.On("Snapshot", mock.Anything).Return(nil, errors.New("connection refused"))
			},
			wantKind: reconcile.KindFeedUnavailable,
		},
		{
			name: "Inventory unavailable",
			setup: func(f *fixture) {
				f.feed.On("Snapshot", mock.Anything).Return(snapshotOf(fooEntry()), nil)
				f.target.On("ListPackages", mock.Anything, "Foo").Return(nil, errors.New("401 unauthorized"))
			},
			wantKind: reconcile.KindInventoryUnavailable,
		},
		{
			name: "Download failed",
			setup: func(f *fixture) {
				f.feed.On("Snapshot", mock.Anything).Return(snapshotOf(fooEntry()), nil)
				f.target.On("ListPackages", mock.Anything, "Foo").Return([]reconcile.InventoryEntry{}, nil)
				f.feed.On("Download", mock.Anything, "Foo", "1.1").Return(nil, errors.New("404"))
			},
			wantKind: reconcile.KindArtifactDownloadFailed,
		},
		{
			name: "Download stream broken",
			setup: func(f *fixture) {
				f.feed.On("Snapshot", mock.Anything).Return(snapshotOf(fooEntry()), nil)
				f.target.On("ListPackages", mock.Anything, "Foo").Return([]reconcile.InventoryEntry{}, nil)
				f.feed.On("Download", mock.Anything, "Foo", "1.1").Return(io.NopCloser(brokenReader{}), nil)
				f.stager.On("Stage", "Foo", "1.1", mock.Anything).Return("", int64(0), errors.New("copy failed"))
			},
			wantKind: reconcile.KindArtifactDownloadFailed,
		},
		{
			name: "Staging write failed",
			setup: func(f *fixture) {
				f.feed.On("Snapshot", mock.Anything).Return(snapshotOf(fooEntry()), nil)
				f.target.On("ListPackages", mock.Anything, "Foo").Return([]reconcile.InventoryEntry{}, nil)
				f.feed.On("Download", mock.Anything, "Foo", "1.1").Return(artifact(), nil)
				f.stager.On("Stage", "Foo", "1.1", mock.Anything).Return("", int64(0), errors.New("disk full"))
			},
			wantKind: reconcile.KindStagingIOFailed,
		},
		{
			name: "Upload failed",
			setup: func(f *fixture) {
				f.feed.On("Snapshot", mock.Anything).Return(snapshotOf(fooEntry()), nil)
				f.target.On("ListPackages", mock.Anything, "Foo").Return([]reconcile.InventoryEntry{}, nil)
				f.feed.On("Download", mock.Anything, "Foo", "1.1").Return(artifact(), nil)
				f.stager.On("Stage", "Foo", "1.1", mock.Anything).Return("/staging/Foo.1.1.nupkg", int64(11), nil)
				f.target.On("PushPackage", mock.Anything, "Foo", "1.1", "/staging/Foo.1.1.nupkg").Return(errors.New("500"))
			},
			wantKind: reconcile.KindArtifactUploadFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(reconcile.Options{})
			tt.setup(f)

			report, err := f.engine.Run(context.Background())
			require.Error(t, err)
			assert.NotNil(t, report)
			assert.Equal(t, tt.wantKind, reconcile.KindOf(err))
			assert.Equal(t, tt.uploaded, report.Uploaded)
			f.stager.AssertNotCalled(t, "Release", mock.Anything)
		})
	}
}

func TestRun_FailureKeepsEarlierUploads(t *testing.T) {
	f := newFixture(reconcile.Options{})
	bar := reconcile.PackageEntry{ID: "Bar", Versions: []string{"2.0"}, PublishedDates: []time.Time{at(10)}}
	baz := reconcile.PackageEntry{ID: "Baz", Versions: []string{"3.0"}, PublishedDates: []time.Time{at(10)}}
	f.feed.On("Snapshot", mock.Anything).Return(snapshotOf(fooEntry(), bar, baz), nil)
	f.target.On("ListPackages", mock.Anything, mock.Anything).Return([]reconcile.InventoryEntry{}, nil)
	f.expectTransfer("Foo", "1.1")
	f.stager.On("Release", mock.Anything).Return(nil)
	f.feed.On("Download", mock.Anything, "Bar", "2.0").Return(nil, errors.New("timeout"))

	report, err := f.engine.Run(context.Background())
	require.Error(t, err)

	var syncErr *reconcile.SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, "Bar", syncErr.PackageID)
	assert.Equal(t, "2.0", syncErr.Version)
	assert.Equal(t, 1, report.Uploaded)
	assert.Equal(t, 2, report.Packages)
	f.target.AssertNotCalled(t, "ListPackages", mock.Anything, "Baz")
}

func TestRun_ReleaseFailureDoesNotFailPass(t *testing.T) {
	f := newFixture(reconcile.Options{})
	f.feed.On("Snapshot", mock.Anything).Return(snapshotOf(fooEntry()), nil)
	f.target.On("ListPackages", mock.Anything, "Foo").Return([]reconcile.InventoryEntry{}, nil)
	path := f.expectTransfer("Foo", "1.1")
	f.stager.On("Release", path).Return(errors.New("file locked"))

	report, err := f.engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Uploaded)
	assert.Equal(t, 1, report.ReleaseFailures)
}

func TestPlan(t *testing.T) {
	f := newFixture(reconcile.Options{})
	bar := reconcile.PackageEntry{ID: "Bar", Versions: []string{"2.0"}, PublishedDates: []time.Time{at(10)}}
	f.feed.On("Snapshot", mock.Anything).Return(snapshotOf(fooEntry(), bar, reconcile.PackageEntry{ID: "Empty"}), nil)
	f.target.On("ListPackages", mock.Anything, "Foo").Return([]reconcile.InventoryEntry{}, nil)
	f.target.On("ListPackages", mock.Anything, "Bar").
		Return([]reconcile.InventoryEntry{{Version: "2.0", LastModifiedOn: at(10)}}, nil)

	plan, err := f.engine.Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, plan.Summary.TotalPackages)
	assert.Equal(t, 1, plan.Summary.Uploads)
	assert.Equal(t, 1, plan.Summary.Skips)
	assert.Equal(t, 1, plan.Summary.Invalid)
	require.Len(t, plan.Decisions, 2)
	assert.Equal(t, "Foo", plan.Decisions[0].PackageID)
	assert.True(t, plan.Decisions[1].Skip)

	f.feed.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
	f.stager.AssertNotCalled(t, "Stage", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlan_FeedUnavailable(t *testing.T) {
	f := newFixture(reconcile.Options{})
	f.feed.On("Snapshot", mock.Anything).Return(nil, errors.New("dns"))

	plan, err := f.engine.Plan(context.Background())
	assert.Nil(t, plan)
	assert.Equal(t, reconcile.KindFeedUnavailable, reconcile.KindOf(err))
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}
