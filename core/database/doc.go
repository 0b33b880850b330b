// Package database handles the MySQL connection used by the run history.
//
// It wraps GORM with the go-sql-driver/mysql dialector, builds the DSN with
// connection and I/O timeouts, sizes the pool and pings once before returning.
//
// # Usage
//
//	if cfg.Database.Enabled() {
//	    db, err := database.Connect(cfg.Database)
//	}
package database
