package common_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/Desarso/flightai/models"
	"github.com/sirupsen/logrus"
)

var (
	// ErrMalformedArguments means the tool call arguments were not the JSON
	// object the tool expects.
	ErrMalformedArguments = errors.New("malformed tool arguments")
	// ErrUnknownTool means the model named a function that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidTool is returned when a tool fails registration checks.
	ErrInvalidTool = errors.New("invalid tool")
)

// Result is what a handler produces: the payload serialized into the tool
// result message, and the city the call resolved, if any.
type Result struct {
	Content interface{}
	City    string
}

// HandlerFunc runs one tool with the raw JSON arguments from the model.
type HandlerFunc func(ctx context.Context, arguments string) (Result, error)

// Tool pairs a declaration with its statically typed handler.
type Tool struct {
	Declaration models.FunctionDeclaration
	Handler     HandlerFunc
}

// Registry is an ordered set of tools keyed by name. It is built once and
// not modified while turns are running. The zero value is an empty registry
// that logs through the standard logger.
type Registry struct {
	tools  []Tool
	byName map[string]int
	Logger logrus.FieldLogger
}

// NewRegistry registers tools in order.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]int, len(tools)),
		Logger: logrus.StandardLogger(),
	}
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register validates and appends tool.
func (r *Registry) Register(tool Tool) error {
	name := tool.Declaration.Name
	if name == "" {
		return fmt.Errorf("%w: tool name is empty", ErrInvalidTool)
	}
	if tool.Handler == nil {
		return fmt.Errorf("%w: tool %s has no handler", ErrInvalidTool, name)
	}
	if typ := tool.Declaration.Parameters.Type; typ != "" && typ != "object" {
		return fmt.Errorf("%w: tool %s parameters must be an object schema, got %q", ErrInvalidTool, name, typ)
	}
	if r.byName == nil {
		r.byName = make(map[string]int)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: tool %s already registered", ErrInvalidTool, name)
	}

	r.byName[name] = len(r.tools)
	r.tools = append(r.tools, tool)
	return nil
}

// Declarations returns the tool descriptors in registration order.
func (r *Registry) Declarations() []models.FunctionDeclaration {
	decls := make([]models.FunctionDeclaration, len(r.tools))
	for i, tool := range r.tools {
		decls[i] = tool.Declaration
	}
	return decls
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

func (r *Registry) logger() logrus.FieldLogger {
	if r.Logger == nil {
		return logrus.StandardLogger()
	}
	return r.Logger
}
