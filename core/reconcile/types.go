package reconcile

import (
	"context"
	"io"
	"time"
)

// FeedSnapshot is the result of a single feed query.
// It is created fresh for every pass and discarded afterwards.
type FeedSnapshot struct {
	// Timestamp is the moment the feed produced the snapshot.
	Timestamp time.Time `json:"timestamp"`

	// Packages holds the package families in the order the feed returned them.
	Packages []PackageEntry `json:"packages"`
}

// PackageEntry identifies one package family published on the feed.
// Versions[i] was published at PublishedDates[i].
type PackageEntry struct {
	// ID is the package identifier, unique within a snapshot.
	ID string `json:"id"`

	// Type is the package kind reported by the feed (e.g. "NuGet").
	Type string `json:"type"`

	// Versions lists every published version of the package.
	Versions []string `json:"versions"`

	// PublishedDates is parallel to Versions.
	PublishedDates []time.Time `json:"published_dates"`
}

// InventoryEntry is one record of the target's package store for a package id.
type InventoryEntry struct {
	// Version is the version string as stored by the target.
	Version string `json:"version"`

	// LastModifiedOn is when the target last modified this record.
	LastModifiedOn time.Time `json:"last_modified_on"`
}

// Reason explains why a package needs to be uploaded.
type Reason string

const (
	// ReasonNotYetPresent means the target has no version of the package at all.
	ReasonNotYetPresent Reason = "not_yet_present"
	// ReasonNewerVersionAvailable means the target's latest version differs from the feed's.
	ReasonNewerVersionAvailable Reason = "newer_version_available"
)

// UploadDecision is the derived outcome for a single package. It is never persisted.
type UploadDecision struct {
	// PackageID is the package the decision applies to.
	PackageID string `json:"package_id"`

	// Version is the feed's latest version, the one to upload.
	Version string `json:"version"`

	// DeployedVersion is the version of the most recently modified target entry, if any.
	DeployedVersion string `json:"deployed_version,omitempty"`

	// Reason is empty when Skip is true.
	Reason Reason `json:"reason,omitempty"`

	// Skip is true when the target already holds the latest version.
	Skip bool `json:"skip"`
}

// SyncReport summarizes one reconciliation pass.
// A report is returned even when the pass fails, covering the packages processed so far.
type SyncReport struct {
	// PassID uniquely identifies the pass in logs and history.
	PassID string `json:"pass_id"`

	// StartedAt is when the pass started.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the pass returned.
	FinishedAt time.Time `json:"finished_at"`

	// SnapshotTime is the feed snapshot timestamp (zero if the feed was unavailable).
	SnapshotTime time.Time `json:"snapshot_time"`

	// Packages counts the entries examined.
	Packages int `json:"packages"`

	// Uploaded counts packages pushed to the target.
	Uploaded int `json:"uploaded"`

	// Skipped counts packages already up to date on the target.
	Skipped int `json:"skipped"`

	// Invalid counts feed entries that could not be evaluated.
	Invalid int `json:"invalid"`

	// Filtered counts entries excluded by the package type filter.
	Filtered int `json:"filtered"`

	// ReleaseFailures counts staged artifacts that could not be deleted after upload.
	ReleaseFailures int `json:"release_failures"`

	// Decisions holds the upload decisions taken during the pass, in feed order.
	Decisions []UploadDecision `json:"decisions"`
}

// Duration returns how long the pass took.
func (r *SyncReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Plan is a dry-run result: the decisions a pass would take, without transfers.
type Plan struct {
	// SnapshotTime is the feed snapshot timestamp.
	SnapshotTime time.Time `json:"snapshot_time"`

	// Decisions contains one entry per valid, unfiltered package.
	Decisions []UploadDecision `json:"decisions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// TotalPackages is the number of entries in the snapshot.
	TotalPackages int `json:"total_packages"`

	// Uploads counts packages that would be uploaded.
	Uploads int `json:"uploads"`

	// Skips counts packages that are up to date.
	Skips int `json:"skips"`

	// Invalid counts entries that would be skipped as malformed.
	Invalid int `json:"invalid"`

	// Filtered counts entries excluded by type.
	Filtered int `json:"filtered"`
}

// Feed is the upstream source of package metadata and artifacts.
type Feed interface {
	// Snapshot queries the feed for its current state.
	Snapshot(ctx context.Context) (*FeedSnapshot, error)

	// Download opens the artifact of a package version. The caller closes the reader.
	Download(ctx context.Context, packageID, version string) (io.ReadCloser, error)
}

// Target is the deployment system that receives packages.
type Target interface {
	// ListPackages returns every inventory record for the package id.
	// A package that was never pushed yields an empty slice and no error.
	ListPackages(ctx context.Context, packageID string) ([]InventoryEntry, error)

	// PushPackage uploads the artifact stored at path.
	PushPackage(ctx context.Context, packageID, version, path string) error
}

// Stager keeps downloaded artifacts on local disk between download and push.
type Stager interface {
	// Stage writes the artifact and returns its location and size.
	Stage(packageID, version string, r io.Reader) (path string, size int64, err error)

	// Release deletes a staged artifact.
	Release(path string) error
}
