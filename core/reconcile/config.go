package reconcile

import (
	"strings"
	"time"
)

// Config holds configuration for the sync loop.
type Config struct {
	// IntervalSeconds is the time between two poller ticks.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"300"`
	// StagingDir is the local directory where artifacts are kept between download and push.
	StagingDir string `mapstructure:"staging_dir" default:""`
	// PackageTypes restricts the sync to these feed package types (comma separated, empty = all).
	PackageTypes string `mapstructure:"package_types" default:""`
	// RunOnStart fires one pass as soon as the poller starts.
	RunOnStart bool `mapstructure:"run_on_start" default:"false"`
}

// Interval returns the poll interval as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Types returns the configured package type filter.
func (c Config) Types() []string {
	var types []string
	for _, t := range strings.Split(c.PackageTypes, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}
