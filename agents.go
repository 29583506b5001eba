package flightai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Desarso/flightai/common_tools"
	models "github.com/Desarso/flightai/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultSystemPrompt = "You are a helpful assistant for an Airline called FlightAI. " +
	"Give short, courteous answers, no more than 1 sentence. " +
	"Always be accurate. If you don't know the answer, say so."

const DefaultApology = "Sorry, I couldn't look up that fare just now. Please try asking again."

// ErrModelContractViolation means the model returned a shape the turn
// cannot interpret: an unknown finish reason, no choices, a tool request
// without calls, or a second tool request after the tool round trip.
var ErrModelContractViolation = errors.New("model contract violation")

// Model is the language-model collaborator. tools may be empty, in which
// case the model must answer in natural language.
type Model interface {
	Complete(ctx context.Context, messages []models.Message, tools []models.FunctionDeclaration) (models.Completion, error)
}

// Agent drives one turn at a time: at most one tool round trip between two
// model calls. It keeps no state between turns.
type Agent struct {
	Model        Model
	Tools        *common_tools.Registry
	SystemPrompt string
	Apology      string // final text when a tool invocation fails
	Logger       logrus.FieldLogger
}

func Create_Agent(model Model, tools *common_tools.Registry) Agent {
	return Agent{
		Model:        model,
		Tools:        tools,
		SystemPrompt: DefaultSystemPrompt,
		Apology:      DefaultApology,
		Logger:       logrus.StandardLogger(),
	}
}

// TurnState is a step of the turn state machine.
type TurnState int

const (
	StateAwaitingModel TurnState = iota
	StateToolRequested
	StateAwaitingModelAfterTool
	StateDirectAnswer
)

func (s TurnState) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model"
	case StateToolRequested:
		return "tool_requested"
	case StateAwaitingModelAfterTool:
		return "awaiting_model_after_tool"
	case StateDirectAnswer:
		return "direct_answer"
	default:
		return fmt.Sprintf("TurnState(%d)", int(s))
	}
}

// transitions lists every legal move out of a model-calling state. The call
// made in StateAwaitingModelAfterTool carries no tools, so a tool request
// there has no entry.
var transitions = map[TurnState]map[models.FinishReason]TurnState{
	StateAwaitingModel: {
		models.FinishReasonStop:      StateDirectAnswer,
		models.FinishReasonToolCalls: StateToolRequested,
	},
	StateAwaitingModelAfterTool: {
		models.FinishReasonStop: StateDirectAnswer,
	},
}

func nextState(s TurnState, reason models.FinishReason) (TurnState, error) {
	next, ok := transitions[s][reason]
	if !ok {
		return s, fmt.Errorf("%w: finish reason %q in state %s", ErrModelContractViolation, reason, s)
	}
	return next, nil
}

// Run processes one turn. history is the visible transcript ending with the
// newest user message; it is not modified. The returned history is a copy of
// it with the final assistant answer appended. Tool failures produce a
// degraded answer with a nil error; model failures and contract violations
// return an error.
func (agent *Agent) Run(ctx context.Context, history []models.Message) (models.TurnResult, error) {
	if agent.Model == nil {
		return models.TurnResult{}, fmt.Errorf("agent has no model")
	}
	logger := agent.logger()

	visible := models.SanitizeHistory(history)
	if dropped := len(history) - len(visible); dropped > 0 {
		logger.Debugf("Dropped %d non-conversational messages from history", dropped)
	}
	if last, ok := models.LastUserMessage(visible); ok {
		logger.Debugf("Turn started for %q", last.Content)
	} else {
		logger.Warn("Turn started without a user message")
	}

	messages := make([]models.Message, 0, len(visible)+3)
	messages = append(messages, models.SystemMessage(agent.systemPrompt()))
	messages = append(messages, visible...)

	var (
		state     = StateAwaitingModel
		pending   models.Message
		city      string
		finalText string
	)

	for state != StateDirectAnswer {
		switch state {
		case StateAwaitingModel, StateAwaitingModelAfterTool:
			var tools []models.FunctionDeclaration
			if state == StateAwaitingModel && agent.Tools != nil {
				tools = agent.Tools.Declarations()
			}

			completion, err := agent.Model.Complete(ctx, messages, tools)
			if err != nil {
				return models.TurnResult{}, fmt.Errorf("model request failed: %w", err)
			}
			next, err := nextState(state, completion.FinishReason)
			if err != nil {
				logger.WithError(err).Error("Model returned an unexpected response")
				return models.TurnResult{}, err
			}

			switch next {
			case StateToolRequested:
				if len(completion.Message.ToolCalls) == 0 {
					return models.TurnResult{}, fmt.Errorf("%w: finish reason tool_calls without tool calls", ErrModelContractViolation)
				}
				pending = completion.Message
			case StateDirectAnswer:
				if strings.TrimSpace(completion.Message.Content) == "" {
					return models.TurnResult{}, fmt.Errorf("%w: empty answer", ErrModelContractViolation)
				}
				finalText = completion.Message.Content
			}
			logger.Debugf("Turn state %s -> %s", state, next)
			state = next

		case StateToolRequested:
			call := pending.ToolCalls[0]
			if extra := len(pending.ToolCalls) - 1; extra > 0 {
				// One tool round trip per turn; the rest are not executed.
				logger.Warnf("Model requested %d tool calls, ignoring all but %s", len(pending.ToolCalls), call.Name)
			}
			if call.ID == "" {
				call.ID = "call_" + uuid.New().String()
			}

			toolMsg, resolved, err := agent.Tools.Invoke(ctx, call)
			if err != nil {
				logger.WithError(err).Warnf("Tool %s failed, answering with apology", call.Name)
				return agent.finish(history, agent.apology(), "", true), nil
			}

			messages = append(messages,
				models.Message{Role: models.RoleAssistant, Content: pending.Content, ToolCalls: []models.ToolCall{call}},
				toolMsg,
			)
			city = resolved
			logger.Debugf("Turn state %s -> %s", state, StateAwaitingModelAfterTool)
			state = StateAwaitingModelAfterTool

		default:
			return models.TurnResult{}, fmt.Errorf("unreachable turn state %s", state)
		}
	}

	return agent.finish(history, finalText, city, false), nil
}

func (agent *Agent) finish(history []models.Message, text, city string, degraded bool) models.TurnResult {
	updated := make([]models.Message, len(history), len(history)+1)
	copy(updated, history)
	updated = append(updated, models.AssistantMessage(text))
	return models.TurnResult{
		History:      updated,
		FinalText:    text,
		ResolvedCity: city,
		Degraded:     degraded,
	}
}

func (agent *Agent) logger() logrus.FieldLogger {
	if agent.Logger == nil {
		return logrus.StandardLogger()
	}
	return agent.Logger
}

func (agent *Agent) systemPrompt() string {
	if agent.SystemPrompt == "" {
		return DefaultSystemPrompt
	}
	return agent.SystemPrompt
}

func (agent *Agent) apology() string {
	if agent.Apology == "" {
		return DefaultApology
	}
	return agent.Apology
}
