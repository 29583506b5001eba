package stores

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// TurnTrace is one recorded step of a conversation turn. A turn produces a
// "turn" start event followed by model, tool, image and speech events.
type TurnTrace struct {
	ID          uint           `gorm:"primarykey" json:"-"`
	CreatedAt   time.Time      `json:"-"`
	SessionID   string         `gorm:"index:idx_trace_session;not null" json:"session_id"`
	TurnID      string         `gorm:"index:idx_trace_session;index:idx_trace_turn;not null" json:"turn_id"`
	TraceID     string         `gorm:"not null" json:"trace_id"`
	ToolCallID  string         `json:"tool_call_id,omitempty"`
	Stage       string         `gorm:"not null" json:"stage"`  // turn, model, tool, image, speech
	Status      string         `gorm:"not null" json:"status"` // start, end, error, degraded, skipped
	Label       string         `gorm:"not null" json:"label"`
	DetailsJSON string         `gorm:"type:text" json:"-"`
	Details     map[string]any `gorm:"-" json:"details,omitempty"`
	Timestamp   int64          `gorm:"index;not null" json:"timestamp"` // unix millis
	DurationMS  int64          `json:"duration_ms,omitempty"`
}

// BeforeSave marshals Details to DetailsJSON
func (t *TurnTrace) BeforeSave(tx *gorm.DB) error {
	if t.Details != nil {
		data, err := json.Marshal(t.Details)
		if err != nil {
			return err
		}
		t.DetailsJSON = string(data)
	}
	return nil
}

// AfterFind unmarshals DetailsJSON to Details
func (t *TurnTrace) AfterFind(tx *gorm.DB) error {
	if t.DetailsJSON != "" {
		return json.Unmarshal([]byte(t.DetailsJSON), &t.Details)
	}
	return nil
}

// TraceStore persists turn traces. It is a diagnostic sink; conversation
// history itself is never persisted.
type TraceStore interface {
	SaveTrace(trace *TurnTrace) error
	SaveTraces(traces []*TurnTrace) error
	TracesBySession(sessionID string) ([]*TurnTrace, error)
	TracesByTurn(turnID string) ([]*TurnTrace, error)
	DeleteTracesBySession(sessionID string) error
	// PruneBefore deletes traces older than cutoff and returns how many went.
	PruneBefore(cutoff time.Time) (int64, error)
	Close() error
}

// StoreConfig holds configuration for database stores
type StoreConfig struct {
	Type       string            `json:"type"`       // "sqlite" or "postgres"
	Connection string            `json:"connection"` // file path or DSN
	Options    map[string]string `json:"options"`    // additional options
}

// NewStoreConfig creates a new store configuration
func NewStoreConfig(storeType, connection string) *StoreConfig {
	return &StoreConfig{
		Type:       storeType,
		Connection: connection,
		Options:    make(map[string]string),
	}
}

// WithOption adds an option to the store configuration
func (c *StoreConfig) WithOption(key, value string) *StoreConfig {
	c.Options[key] = value
	return c
}
