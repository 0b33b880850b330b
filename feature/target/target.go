package target

import (
	"fmt"

	"feed-sync/core/reconcile"
	"feed-sync/core/storage"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	_ reconcile.Target = (*Octopus)(nil)
	_ reconcile.Target = (*Bucket)(nil)
)

// New builds the configured target. fs is where staged artifacts are read from;
// client and bucket are only used by the bucket kind.
func New(cfg Config, fs afero.Fs, client storage.Client, bucket string, logger *zap.Logger) (reconcile.Target, error) {
	switch cfg.Kind {
	case KindOctopus:
		return NewOctopus(cfg, fs, logger), nil
	case KindBucket:
		if client == nil {
			return nil, fmt.Errorf("target kind %q requires a storage client", cfg.Kind)
		}
		return NewBucket(client, bucket, cfg.Prefix, fs, logger), nil
	default:
		return nil, fmt.Errorf("unknown target kind %q", cfg.Kind)
	}
}
