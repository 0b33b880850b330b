package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"feed-sync/core/database"
	"feed-sync/core/logger"
	"feed-sync/core/reconcile"
	"feed-sync/core/server"
	"feed-sync/core/storage"
	"feed-sync/feature/feed"
	"feed-sync/feature/target"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the status HTTP server.
	Server server.Config `mapstructure:"server"`
	// Feed holds configuration for the upstream package feed.
	Feed feed.Config `mapstructure:"feed"`
	// Target holds configuration for the deployment target.
	Target target.Config `mapstructure:"target"`
	// Sync holds configuration for the poller and the staging area.
	Sync reconcile.Config `mapstructure:"sync"`
	// Storage holds configuration for the object storage used by the bucket target.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the optional run history.
	Database database.Config `mapstructure:"database"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. FEED_URL -> feed.url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports every missing or invalid setting the sync needs to start.
func (c *Config) Validate() error {
	var errs []error

	if c.Feed.URL == "" {
		errs = append(errs, errors.New("feed url is required (FEED_URL)"))
	}
	if c.Sync.StagingDir == "" {
		errs = append(errs, errors.New("staging directory is required (SYNC_STAGING_DIR)"))
	}
	if c.Sync.IntervalSeconds <= 0 {
		errs = append(errs, fmt.Errorf("sync interval must be positive, got %d (SYNC_INTERVAL_SECONDS)", c.Sync.IntervalSeconds))
	}

	switch c.Target.Kind {
	case target.KindOctopus:
		if c.Target.URL == "" {
			errs = append(errs, errors.New("target url is required (TARGET_URL)"))
		}
		if c.Target.APIKey == "" {
			errs = append(errs, errors.New("target api key is required (TARGET_API_KEY)"))
		}
	case target.KindBucket:
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage bucket is required for the bucket target (STORAGE_BUCKET)"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown target kind %q (TARGET_KIND)", c.Target.Kind))
	}

	return errors.Join(errs...)
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
