package stores

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database described by config.
func Open(config *StoreConfig) (*gorm.DB, error) {
	if config == nil {
		return nil, fmt.Errorf("store config is nil")
	}
	switch config.Type {
	case "sqlite":
		return openSQLite(config)
	case "postgres":
		return openPostgres(config)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}

// NewTraceStore opens the configured database and migrates the trace table.
func NewTraceStore(config *StoreConfig) (*GORMTraceStore, error) {
	db, err := Open(config)
	if err != nil {
		return nil, err
	}
	store, err := NewGORMTraceStore(db)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}
	return store, nil
}

// NewSQLiteTraceStore creates a trace store backed by the SQLite file at path.
func NewSQLiteTraceStore(path string) (*GORMTraceStore, error) {
	return NewTraceStore(NewStoreConfig("sqlite", path))
}

// gormConfig silences SQL logging unless the "log_sql" option is "true".
func gormConfig(config *StoreConfig) *gorm.Config {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if config.Options["log_sql"] == "true" {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}
	return cfg
}
