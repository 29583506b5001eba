package stores

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresDSN builds a DSN from its parts.
func PostgresDSN(host, user, password, dbname string, port int) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)
}

// openPostgres opens a PostgreSQL database with config.Connection as the DSN.
func openPostgres(config *StoreConfig) (*gorm.DB, error) {
	if config.Type != "postgres" {
		return nil, fmt.Errorf("invalid store type for PostgreSQL store: %s", config.Type)
	}
	if config.Connection == "" {
		return nil, fmt.Errorf("postgres store requires a DSN")
	}

	db, err := gorm.Open(postgres.Open(config.Connection), gormConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}
	return db, nil
}
