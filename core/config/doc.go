// Package config provides configuration management for the feed sync service.
//
// It uses Viper to read environment variables (optionally from a .env file loaded
// with godotenv). Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
//   - Feed: upstream feed URL and timeout (FEED_URL)
//   - Target: deployment target kind, URL and API key (TARGET_URL, TARGET_API_KEY)
//   - Sync: poll interval, staging directory, package type filter (SYNC_INTERVAL_SECONDS, SYNC_STAGING_DIR)
//   - Server: status API port and API key
//   - Storage: S3/MinIO settings for the bucket target
//   - Database: MySQL settings for the optional run history
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
