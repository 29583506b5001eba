package openai

import (
	models "github.com/Desarso/flightai/models"
	openaisdk "github.com/sashabaranov/go-openai"
)

// ConvertTools maps function declarations to go-openai tool definitions.
func ConvertTools(fds []models.FunctionDeclaration) []openaisdk.Tool {
	tools := make([]openaisdk.Tool, len(fds))
	for i, fd := range fds {
		tools[i] = openaisdk.Tool{
			Type: openaisdk.ToolTypeFunction,
			Function: &openaisdk.FunctionDefinition{
				Name:        fd.Name,
				Description: fd.Description,
				Parameters:  fd.Parameters.Schema(),
			},
		}
	}
	return tools
}

func ToSDKMessages(msgs []models.Message) []openaisdk.ChatCompletionMessage {
	out := make([]openaisdk.ChatCompletionMessage, len(msgs))
	for i, m := range msgs {
		msg := openaisdk.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openaisdk.ToolCall{
				ID:   tc.ID,
				Type: openaisdk.ToolTypeFunction,
				Function: openaisdk.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		out[i] = msg
	}
	return out
}

func FromSDKMessage(m openaisdk.ChatCompletionMessage) models.Message {
	msg := models.Message{
		Role:       m.Role,
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
	}
	for _, tc := range m.ToolCalls {
		if tc.Type != "" && tc.Type != openaisdk.ToolTypeFunction {
			continue
		}
		msg.ToolCalls = append(msg.ToolCalls, models.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return msg
}
