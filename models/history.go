package models

import "strings"

// SanitizeHistory returns the visible transcript in a shape that is safe to
// replay to the model. Only user and assistant text turns survive:
//   - system messages are dropped, the orchestrator supplies its own
//   - tool results and assistant tool-call messages are dropped, they belong
//     to a finished turn and would be orphaned without their partner
//   - messages with blank content are dropped
//
// The input slice is never modified.
func SanitizeHistory(msgs []Message) []Message {
	sanitized := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleUser:
		case RoleAssistant:
			if len(m.ToolCalls) > 0 {
				continue
			}
		default:
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		sanitized = append(sanitized, Message{Role: m.Role, Content: m.Content})
	}
	return sanitized
}

// LastUserMessage returns the newest user message, if any.
func LastUserMessage(msgs []Message) (Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i], true
		}
	}
	return Message{}, false
}
