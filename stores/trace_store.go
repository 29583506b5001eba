package stores

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GORMTraceStore implements TraceStore for SQLite/PostgreSQL via GORM
type GORMTraceStore struct {
	db *gorm.DB
}

// NewGORMTraceStore creates a trace store from an existing GORM database connection
func NewGORMTraceStore(db *gorm.DB) (*GORMTraceStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	if err := db.AutoMigrate(&TurnTrace{}); err != nil {
		return nil, fmt.Errorf("failed to migrate turn_traces table: %w", err)
	}

	return &GORMTraceStore{db: db}, nil
}

// SaveTrace saves a single trace event
func (s *GORMTraceStore) SaveTrace(trace *TurnTrace) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if trace == nil {
		return nil
	}
	return s.db.Create(trace).Error
}

// SaveTraces saves multiple trace events in a batch
func (s *GORMTraceStore) SaveTraces(traces []*TurnTrace) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if len(traces) == 0 {
		return nil
	}
	return s.db.CreateInBatches(traces, 100).Error
}

// TracesBySession retrieves all traces for a session, oldest first
func (s *GORMTraceStore) TracesBySession(sessionID string) ([]*TurnTrace, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var traces []*TurnTrace
	err := s.db.Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&traces).Error

	return traces, err
}

// TracesByTurn retrieves all traces for a single turn
func (s *GORMTraceStore) TracesByTurn(turnID string) ([]*TurnTrace, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var traces []*TurnTrace
	err := s.db.Where("turn_id = ?", turnID).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&traces).Error

	return traces, err
}

// DeleteTracesBySession removes all traces for a session
func (s *GORMTraceStore) DeleteTracesBySession(sessionID string) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.db.Where("session_id = ?", sessionID).Delete(&TurnTrace{}).Error
}

func (s *GORMTraceStore) PruneBefore(cutoff time.Time) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}
	result := s.db.Where("timestamp < ?", cutoff.UnixMilli()).Delete(&TurnTrace{})
	return result.RowsAffected, result.Error
}

// Close closes the underlying database connection
func (s *GORMTraceStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (s *GORMTraceStore) Ping() error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
