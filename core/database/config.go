package database

// Config holds configuration for the run history database connection.
type Config struct {
	// Host is the database host. Empty disables the run history.
	Host string `mapstructure:"host" default:""`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name.
	Name string `mapstructure:"name" default:"feed_sync"`
	// TimeoutSeconds bounds connection setup and each read or write.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Enabled reports whether a database is configured.
func (c Config) Enabled() bool {
	return c.Host != ""
}
