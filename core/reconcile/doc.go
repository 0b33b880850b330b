// Package reconcile decides which feed packages must be pushed to the deployment target
// and performs the uploads.
//
// The target's own inventory is the only record of what has already been synced: every
// pass starts from a fresh feed snapshot and re-queries the target for each package.
//
// # Decision Rules
//
// For each package entry, in feed order:
//
//  1. The latest version is the one paired with the most recent published date.
//     Equal dates resolve to the lowest index.
//  2. A package the target does not know yet is uploaded (ReasonNotYetPresent).
//  3. Otherwise the most recently modified target entry is compared to the latest
//     version by exact string equality. Equal means up to date; anything else is
//     uploaded (ReasonNewerVersionAvailable).
//
// Entries with no versions, or with versions and dates of different lengths, are
// skipped and counted as invalid.
//
// # Failures
//
// Transfers are strictly sequential. The first download, staging or push error aborts the
// pass with a *SyncError; uploads completed earlier in the pass stand. Failing to delete a
// staged artifact after a successful push is logged and counted, nothing more.
//
// # Usage
//
//	engine := reconcile.NewEngine(feedClient, target, stager, logger, reconcile.Options{})
//	report, err := engine.Run(ctx)
//
//	// Dry run
//	plan, err := engine.Plan(ctx)
package reconcile
