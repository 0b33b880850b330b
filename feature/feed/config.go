package feed

// Config holds configuration for the upstream package feed.
type Config struct {
	// URL is the base URL of the feed (e.g. https://www.myget.org/F/team).
	URL string `mapstructure:"url" default:""`
	// TimeoutSeconds bounds connection setup and the wait for response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
