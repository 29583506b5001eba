package models

// FinishReason tells whether the model answered directly or asked for a tool.
type FinishReason string

const (
	FinishReasonStop      FinishReason = "stop"
	FinishReasonToolCalls FinishReason = "tool_calls"
)

// Completion is the single choice returned by one model call.
type Completion struct {
	FinishReason FinishReason `json:"finish_reason"`
	Message      Message      `json:"message"`
}

// TurnResult is the outcome of processing one user submission.
type TurnResult struct {
	History      []Message `json:"history"`
	FinalText    string    `json:"final_text"`
	ResolvedCity string    `json:"resolved_city,omitempty"` // only set when a tool call ran this turn
	Degraded     bool      `json:"degraded,omitempty"`      // final text is an apology, not a model answer
}

// HasCity reports whether the turn resolved a destination for image synthesis.
func (r TurnResult) HasCity() bool {
	return r.ResolvedCity != ""
}
