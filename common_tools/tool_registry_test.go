package common_tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Desarso/flightai/models"
	"github.com/Desarso/flightai/pricing"
)

func TestTicketPriceToolDeclaration(t *testing.T) {
	tool := TicketPriceTool(pricing.DefaultTable())
	if tool.Declaration.Name != "get_ticket_price" {
		t.Errorf("expected name 'get_ticket_price', got %q", tool.Declaration.Name)
	}
	if tool.Declaration.Description == "" {
		t.Error("description should not be empty")
	}
	if tool.Handler == nil {
		t.Error("Handler should not be nil")
	}
	params := tool.Declaration.Parameters
	if params.Type != "object" {
		t.Errorf("expected object type, got %q", params.Type)
	}
	if _, ok := params.Properties["destination_city"]; !ok {
		t.Error("expected 'destination_city' property")
	}
	if len(params.Required) != 1 || params.Required[0] != "destination_city" {
		t.Errorf("expected required=['destination_city'], got %v", params.Required)
	}
	if params.AdditionalProperties == nil || *params.AdditionalProperties {
		t.Error("expected additionalProperties=false")
	}
}

func TestRegistryDeclarationsKeepOrder(t *testing.T) {
	echo := Tool{
		Declaration: models.FunctionDeclaration{Name: "echo", Parameters: models.Parameters{Type: "object"}},
		Handler: func(ctx context.Context, arguments string) (Result, error) {
			return Result{Content: arguments}, nil
		},
	}
	r, err := NewRegistry(TicketPriceTool(pricing.DefaultTable()), echo)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	decls := r.Declarations()
	if len(decls) != 2 || decls[0].Name != "get_ticket_price" || decls[1].Name != "echo" {
		t.Errorf("unexpected declarations: %+v", decls)
	}
	if !r.Has("echo") || r.Has("missing") {
		t.Error("Has returned wrong result")
	}
}

func TestRegistryRejectsInvalidTools(t *testing.T) {
	handler := func(ctx context.Context, arguments string) (Result, error) { return Result{}, nil }
	cases := map[string][]Tool{
		"empty name":        {{Declaration: models.FunctionDeclaration{}, Handler: handler}},
		"nil handler":       {{Declaration: models.FunctionDeclaration{Name: "x"}}},
		"non-object schema": {{Declaration: models.FunctionDeclaration{Name: "x", Parameters: models.Parameters{Type: "string"}}, Handler: handler}},
		"duplicate": {
			{Declaration: models.FunctionDeclaration{Name: "x"}, Handler: handler},
			{Declaration: models.FunctionDeclaration{Name: "x"}, Handler: handler},
		},
	}
	for name, tools := range cases {
		if _, err := NewRegistry(tools...); !errors.Is(err, ErrInvalidTool) {
			t.Errorf("%s: expected ErrInvalidTool, got %v", name, err)
		}
	}
}

func TestInvokeTicketPrice(t *testing.T) {
	r, err := NewRegistry(TicketPriceTool(pricing.DefaultTable()))
	if err != nil {
		t.Fatal(err)
	}

	msg, city, err := r.Invoke(context.Background(), models.ToolCall{
		ID:        "call_1",
		Name:      "get_ticket_price",
		Arguments: `{"destination_city":"Tokyo"}`,
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if city != "Tokyo" {
		t.Errorf("expected resolved city Tokyo, got %q", city)
	}
	if msg.Role != models.RoleTool || msg.ToolCallID != "call_1" {
		t.Errorf("unexpected tool message: %+v", msg)
	}

	var content map[string]string
	if err := json.Unmarshal([]byte(msg.Content), &content); err != nil {
		t.Fatalf("content is not JSON: %v", err)
	}
	if content["destination_city"] != "Tokyo" || content["price"] != "$1400" {
		t.Errorf("unexpected content: %v", content)
	}
}

func TestZeroValueRegistry(t *testing.T) {
	var r Registry
	if err := r.Register(TicketPriceTool(pricing.DefaultTable())); err != nil {
		t.Fatalf("Register on zero value failed: %v", err)
	}
	if !r.Has("get_ticket_price") {
		t.Fatal("expected tool to be registered")
	}

	msg, _, err := r.Invoke(context.Background(), models.ToolCall{
		ID:        "call_z",
		Name:      "get_ticket_price",
		Arguments: `{"destination_city":"Paris"}`,
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if msg.ToolCallID != "call_z" {
		t.Errorf("unexpected tool message: %+v", msg)
	}
}

func TestInvokeUnknownCity(t *testing.T) {
	r, _ := NewRegistry(TicketPriceTool(pricing.DefaultTable()))
	msg, city, err := r.Invoke(context.Background(), models.ToolCall{
		ID:        "call_2",
		Name:      "get_ticket_price",
		Arguments: `{"destination_city":"Atlantis","extra":true}`,
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if city != "Atlantis" {
		t.Errorf("expected Atlantis, got %q", city)
	}
	if msg.Content != `{"destination_city":"Atlantis","price":"Unknown"}` {
		t.Errorf("unexpected content: %s", msg.Content)
	}
}

func TestInvokeMalformedArguments(t *testing.T) {
	r, _ := NewRegistry(TicketPriceTool(pricing.DefaultTable()))
	for _, args := range []string{
		`not json`,
		`["Tokyo"]`,
		`{}`,
		`{"destination_city": 42}`,
		`{"destination_city": "  "}`,
		`null`,
	} {
		_, city, err := r.Invoke(context.Background(), models.ToolCall{ID: "c", Name: "get_ticket_price", Arguments: args})
		if !errors.Is(err, ErrMalformedArguments) {
			t.Errorf("args %s: expected ErrMalformedArguments, got %v", args, err)
		}
		if city != "" {
			t.Errorf("args %s: expected no city, got %q", args, city)
		}
	}
}

func TestInvokeUnknownTool(t *testing.T) {
	r, _ := NewRegistry(TicketPriceTool(pricing.DefaultTable()))
	_, _, err := r.Invoke(context.Background(), models.ToolCall{ID: "c", Name: "book_flight", Arguments: `{}`})
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("expected ErrUnknownTool, got %v", err)
	}
}
