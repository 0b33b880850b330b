package cmd

import (
	"context"
	"fmt"

	"feed-sync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRunSync bool

// syncCmd runs a single pass in the foreground.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync pass and exit",
	Long: `Runs a single reconciliation pass: every feed package whose latest version is
missing from the deployment target is downloaded, staged and pushed.

Examples:
  # Upload what is missing
  feed-sync sync

  # Show what would be uploaded without transferring anything
  feed-sync sync --dry-run`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Only compute and print the upload decisions")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, l, err := loadApp()
	if err != nil {
		return err
	}
	defer l.Sync()

	engine, err := buildEngine(ctx, cfg, l)
	if err != nil {
		return err
	}

	if dryRunSync {
		plan, err := engine.Plan(ctx)
		if err != nil {
			return fmt.Errorf("failed to plan sync: %w", err)
		}
		printPlan(l, plan)
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	report, err := engine.Run(ctx)
	if report != nil {
		printReport(l, report)
	}
	if err != nil {
		return fmt.Errorf("sync pass failed: %w", err)
	}
	return nil
}

// printPlan prints the plan summary and every pending upload using the logger.
func printPlan(l *zap.Logger, plan *reconcile.Plan) {
	s := plan.Summary

	l.Info("Sync plan",
		zap.Time("snapshot_time", plan.SnapshotTime),
		zap.Int("total_packages", s.TotalPackages),
		zap.Int("uploads", s.Uploads),
		zap.Int("skips", s.Skips),
		zap.Int("invalid", s.Invalid),
		zap.Int("filtered", s.Filtered),
	)

	for _, d := range plan.Decisions {
		if d.Skip {
			continue
		}
		l.Info("Pending upload",
			zap.String("package", d.PackageID),
			zap.String("version", d.Version),
			zap.String("deployed_version", d.DeployedVersion),
			zap.String("reason", string(d.Reason)),
		)
	}
}

// printReport prints the outcome of a pass using the logger.
func printReport(l *zap.Logger, r *reconcile.SyncReport) {
	l.Info("Sync report",
		zap.String("pass_id", r.PassID),
		zap.Duration("duration", r.Duration()),
		zap.Int("packages", r.Packages),
		zap.Int("uploaded", r.Uploaded),
		zap.Int("skipped", r.Skipped),
		zap.Int("invalid", r.Invalid),
		zap.Int("filtered", r.Filtered),
		zap.Int("release_failures", r.ReleaseFailures),
	)
}
