package reconcile

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options tunes which packages an Engine considers.
type Options struct {
	// PackageTypes limits the pass to these feed types. Empty means every type.
	// Matching is case-insensitive.
	PackageTypes []string
}

// Engine reconciles a feed against a target.
// An Engine is not safe for concurrent Run calls; the poller guarantees exclusivity.
type Engine struct {
	feed   Feed
	target Target
	stager Stager
	logger *zap.Logger
	opts   Options
}

// NewEngine creates a new reconciliation engine.
func NewEngine(feed Feed, target Target, stager Stager, logger *zap.Logger, opts Options) *Engine {
	return &Engine{
		feed:   feed,
		target: target,
		stager: stager,
		logger: logger,
		opts:   opts,
	}
}

// Run performs one full reconciliation pass.
// Packages are processed sequentially in feed order. The first download, staging or push
// failure aborts the pass with a *SyncError; the returned report still covers the packages
// handled before the failure.
func (e *Engine) Run(ctx context.Context) (*SyncReport, error) {
	report := &SyncReport{
		PassID:    uuid.NewString(),
		StartedAt: time.Now(),
		Decisions: []UploadDecision{},
	}
	defer func() { report.FinishedAt = time.Now() }()

	l := e.logger.With(zap.String("pass_id", report.PassID))
	l.Info("Starting sync pass")

	snapshot, err := e.snapshot(ctx, l)
	if err != nil {
		return report, err
	}
	report.SnapshotTime = snapshot.Timestamp

	for _, entry := range snapshot.Packages {
		report.Packages++

		if !e.accepts(entry) {
			report.Filtered++
			continue
		}

		pl := l.With(zap.String("package", entry.ID))
		pl.Info("Processing package")

		decision, err := e.decide(ctx, entry)
		if errors.Is(err, ErrInvalidEntry) {
			pl.Warn("Skipping invalid feed entry", zap.Error(err))
			report.Invalid++
			continue
		}
		if err != nil {
			return report, err
		}

		if decision.Skip {
			pl.Debug("Package is up to date", zap.String("version", decision.Version))
			report.Skipped++
			report.Decisions = append(report.Decisions, decision)
			continue
		}

		pl.Info("Package requires upload",
			zap.String("version", decision.Version),
			zap.String("deployed_version", decision.DeployedVersion),
			zap.String("reason", string(decision.Reason)))

		released, err := e.transfer(ctx, pl, decision)
		if err != nil {
			return report, err
		}
		if !released {
			report.ReleaseFailures++
		}
		report.Uploaded++
		report.Decisions = append(report.Decisions, decision)
	}

	l.Info("Sync pass completed",
		zap.Int("packages", report.Packages),
		zap.Int("uploaded", report.Uploaded),
		zap.Int("skipped", report.Skipped),
		zap.Int("invalid", report.Invalid))

	return report, nil
}

// Plan computes the decisions of a pass without downloading or pushing anything.
func (e *Engine) Plan(ctx context.Context) (*Plan, error) {
	snapshot, err := e.snapshot(ctx, e.logger)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		SnapshotTime: snapshot.Timestamp,
		Decisions:    make([]UploadDecision, 0, len(snapshot.Packages)),
	}
	plan.Summary.TotalPackages = len(snapshot.Packages)

	for _, entry := range snapshot.Packages {
		if !e.accepts(entry) {
			plan.Summary.Filtered++
			continue
		}

		decision, err := e.decide(ctx, entry)
		if errors.Is(err, ErrInvalidEntry) {
			plan.Summary.Invalid++
			continue
		}
		if err != nil {
			return nil, err
		}

		if decision.Skip {
			plan.Summary.Skips++
		} else {
			plan.Summary.Uploads++
		}
		plan.Decisions = append(plan.Decisions, decision)
	}

	return plan, nil
}

func (e *Engine) snapshot(ctx context.Context, l *zap.Logger) (*FeedSnapshot, error) {
	snapshot, err := e.feed.Snapshot(ctx)
	if err != nil {
		return nil, &SyncError{Kind: KindFeedUnavailable, Err: err}
	}
	l.Info("Retrieved feed snapshot",
		zap.Int("packages", len(snapshot.Packages)),
		zap.Time("snapshot_time", snapshot.Timestamp))
	return snapshot, nil
}

// decide validates the entry before touching the target so invalid entries cost no request.
func (e *Engine) decide(ctx context.Context, entry PackageEntry) (UploadDecision, error) {
	if _, err := LatestVersion(entry); err != nil {
		return UploadDecision{}, err
	}

	inventory, err := e.target.ListPackages(ctx, entry.ID)
	if err != nil {
		return UploadDecision{}, &SyncError{Kind: KindInventoryUnavailable, PackageID: entry.ID, Err: err}
	}

	return Decide(entry, inventory)
}

// transfer downloads, stages and pushes one package. released reports whether the
// staged artifact was deleted afterwards; a failed delete does not fail the transfer.
func (e *Engine) transfer(ctx context.Context, l *zap.Logger, d UploadDecision) (released bool, err error) {
	l = l.With(zap.String("version", d.Version))

	l.Info("Downloading package")
	body, err := e.feed.Download(ctx, d.PackageID, d.Version)
	if err != nil {
		return false, &SyncError{Kind: KindArtifactDownloadFailed, PackageID: d.PackageID, Version: d.Version, Err: err}
	}

	src := &readTracker{r: body}
	path, size, err := e.stager.Stage(d.PackageID, d.Version, src)
	_ = body.Close()
	if err != nil {
		kind := KindStagingIOFailed
		if src.err != nil {
			kind = KindArtifactDownloadFailed
		}
		return false, &SyncError{Kind: kind, PackageID: d.PackageID, Version: d.Version, Err: err}
	}
	l.Info("Staged package", zap.String("path", path), zap.Int64("bytes", size))

	if err := e.target.PushPackage(ctx, d.PackageID, d.Version, path); err != nil {
		return false, &SyncError{Kind: KindArtifactUploadFailed, PackageID: d.PackageID, Version: d.Version, Err: err}
	}
	l.Info("Successfully uploaded package")

	if err := e.stager.Release(path); err != nil {
		l.Warn("Failed to delete staged package", zap.String("path", path), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (e *Engine) accepts(entry PackageEntry) bool {
	if len(e.opts.PackageTypes) == 0 {
		return true
	}
	for _, t := range e.opts.PackageTypes {
		if strings.EqualFold(t, entry.Type) {
			return true
		}
	}
	return false
}

// readTracker remembers the first read error so a broken download stream can be told
// apart from a failing disk write.
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}
