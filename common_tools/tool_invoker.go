package common_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Desarso/flightai/models"
)

// Invoke runs the handler named by call and packages its output as a tool
// result message answering call.ID. It also returns the city the call
// resolved. Handler errors are returned as-is so callers can match
// ErrMalformedArguments.
func (r *Registry) Invoke(ctx context.Context, call models.ToolCall) (models.Message, string, error) {
	if r == nil {
		return models.Message{}, "", fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
	}
	idx, ok := r.byName[call.Name]
	if !ok {
		return models.Message{}, "", fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
	}
	tool := r.tools[idx]

	r.logger().WithField("tool", call.Name).WithField("tool_call_id", call.ID).Infof("Tool %s called with %s", call.Name, call.Arguments)

	result, err := tool.Handler(ctx, call.Arguments)
	if err != nil {
		return models.Message{}, "", fmt.Errorf("tool %s failed: %w", call.Name, err)
	}

	content, err := json.Marshal(result.Content)
	if err != nil {
		return models.Message{}, "", fmt.Errorf("failed marshal result for '%s': %w", call.Name, err)
	}

	return models.ToolResultMessage(call.ID, string(content)), result.City, nil
}
