package stores

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DefaultSQLitePath is used when a sqlite store is configured without a path.
const DefaultSQLitePath = "flightai_traces.sqlite"

// openSQLite opens a SQLite database at config.Connection. The "busy_timeout"
// option is passed to the driver as a pragma.
func openSQLite(config *StoreConfig) (*gorm.DB, error) {
	if config.Type != "sqlite" {
		return nil, fmt.Errorf("invalid store type for SQLite store: %s", config.Type)
	}
	path := config.Connection
	if path == "" {
		path = DefaultSQLitePath
	}
	if timeout, ok := config.Options["busy_timeout"]; ok && timeout != "" {
		path = fmt.Sprintf("%s?_busy_timeout=%s", path, timeout)
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}
	return db, nil
}
