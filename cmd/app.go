package cmd

import (
	"context"
	"fmt"

	"feed-sync/core/config"
	"feed-sync/core/logger"
	"feed-sync/core/reconcile"
	"feed-sync/core/staging"
	"feed-sync/core/storage"
	"feed-sync/feature/feed"
	"feed-sync/feature/target"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// loadApp loads and validates the configuration and builds the logger.
func loadApp() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, l, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, l, nil
}

// buildEngine wires the feed, the staging area and the configured target into an engine.
// Artifacts left behind by an earlier process are removed first.
func buildEngine(ctx context.Context, cfg *config.Config, l *zap.Logger) (*reconcile.Engine, error) {
	fs := afero.NewOsFs()
	stager := staging.New(fs, cfg.Sync.StagingDir)

	if removed, err := stager.Clean(); err != nil {
		l.Warn("Failed to clean staging directory", zap.String("dir", stager.Dir()), zap.Error(err))
	} else if removed > 0 {
		l.Info("Removed leftover staged artifacts", zap.String("dir", stager.Dir()), zap.Int("count", removed))
	}

	var client storage.Client
	if cfg.Target.Kind == target.KindBucket {
		c, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		client = c
	}

	tgt, err := target.New(cfg.Target, fs, client, cfg.Storage.Bucket, l)
	if err != nil {
		return nil, err
	}

	if b, ok := tgt.(*target.Bucket); ok {
		if err := b.EnsureBucket(ctx); err != nil {
			return nil, err
		}
	}

	l.Info("Sync configured",
		zap.String("feed", cfg.Feed.URL),
		zap.String("target", cfg.Target.Kind),
		zap.Duration("interval", cfg.Sync.Interval()),
		zap.Strings("package_types", cfg.Sync.Types()))

	return reconcile.NewEngine(
		feed.NewClient(cfg.Feed, l),
		tgt,
		stager,
		l,
		reconcile.Options{PackageTypes: cfg.Sync.Types()},
	), nil
}
