package target

// Config holds configuration for the deployment target.
type Config struct {
	// Kind selects the target implementation (octopus, bucket).
	Kind string `mapstructure:"kind" default:"octopus"`
	// URL is the base URL of the deployment server (octopus kind).
	URL string `mapstructure:"url" default:""`
	// APIKey authenticates against the deployment server (octopus kind).
	APIKey string `mapstructure:"api_key" default:""`
	// Space scopes API calls to a space id (e.g. Spaces-1). Empty uses the default space.
	Space string `mapstructure:"space" default:""`
	// Overwrite replaces an existing package version on push.
	Overwrite bool `mapstructure:"overwrite" default:"true"`
	// PageSize is the number of inventory records requested per page.
	PageSize int `mapstructure:"page_size" default:"100"`
	// TimeoutSeconds bounds connection setup and the wait for response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// Prefix is the object key prefix under which packages are stored (bucket kind).
	Prefix string `mapstructure:"prefix" default:"packages"`
}

const (
	KindOctopus = "octopus"
	KindBucket  = "bucket"
)

// IsValidKind checks if the configured target kind is supported.
func (c Config) IsValidKind() bool {
	switch c.Kind {
	case KindOctopus, KindBucket:
		return true
	default:
		return false
	}
}
