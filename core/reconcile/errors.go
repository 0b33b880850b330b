package reconcile

import (
	"errors"
	"fmt"
)

// ErrInvalidEntry is returned for feed entries that carry no usable version data.
// Such entries are skipped, they never abort a pass.
var ErrInvalidEntry = errors.New("invalid package entry")

// ErrorKind classifies a pass failure.
type ErrorKind string

const (
	// KindFeedUnavailable means the feed query failed; no package was processed.
	KindFeedUnavailable ErrorKind = "feed_unavailable"
	// KindInventoryUnavailable means the target inventory query failed for a package.
	KindInventoryUnavailable ErrorKind = "inventory_unavailable"
	// KindArtifactDownloadFailed means the artifact could not be fetched from the feed.
	KindArtifactDownloadFailed ErrorKind = "artifact_download_failed"
	// KindArtifactUploadFailed means the push to the target failed.
	KindArtifactUploadFailed ErrorKind = "artifact_upload_failed"
	// KindStagingIOFailed means the artifact could not be written to the staging directory.
	KindStagingIOFailed ErrorKind = "staging_io_failed"
)

// SyncError aborts a pass. Packages uploaded before the failure stay uploaded.
type SyncError struct {
	Kind      ErrorKind
	PackageID string
	Version   string
	Err       error
}

func (e *SyncError) Error() string {
	switch {
	case e.PackageID == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Version == "":
		return fmt.Sprintf("%s: package %s: %v", e.Kind, e.PackageID, e.Err)
	default:
		return fmt.Sprintf("%s: package %s %s: %v", e.Kind, e.PackageID, e.Version, e.Err)
	}
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a SyncError anywhere in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Kind
	}
	return ""
}
