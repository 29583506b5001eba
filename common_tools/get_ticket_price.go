package common_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Desarso/flightai/models"
	"github.com/Desarso/flightai/pricing"
)

const TicketPriceToolName = "get_ticket_price"

// TicketPriceArgs are the arguments the model supplies to get_ticket_price.
type TicketPriceArgs struct {
	DestinationCity *string `json:"destination_city"`
}

// TicketPrice is the tool output sent back to the model.
type TicketPrice struct {
	DestinationCity string `json:"destination_city"`
	Price           string `json:"price"`
}

// TicketPriceTool returns the get_ticket_price tool backed by table.
func TicketPriceTool(table *pricing.Table) Tool {
	no := false
	return Tool{
		Declaration: models.FunctionDeclaration{
			Name:        TicketPriceToolName,
			Description: "Get the price of a return ticket to the destination city. Call this whenever you need to know the ticket price, for example when a customer asks 'How much is a ticket to this city'",
			Parameters: models.Parameters{
				Type: "object",
				Properties: map[string]interface{}{
					"destination_city": map[string]interface{}{
						"type":        "string",
						"description": "The city that the customer wants to travel to",
					},
				},
				Required:             []string{"destination_city"},
				AdditionalProperties: &no,
			},
		},
		Handler: ticketPriceHandler(table),
	}
}

func ticketPriceHandler(table *pricing.Table) HandlerFunc {
	return func(ctx context.Context, arguments string) (Result, error) {
		args, err := ParseTicketPriceArgs(arguments)
		if err != nil {
			return Result{}, err
		}
		city := *args.DestinationCity
		return Result{
			Content: TicketPrice{DestinationCity: city, Price: table.Lookup(city)},
			City:    city,
		}, nil
	}
}

// ParseTicketPriceArgs decodes the model's argument string. It must be a JSON
// object with a non-empty string destination_city. Other fields are ignored.
func ParseTicketPriceArgs(arguments string) (TicketPriceArgs, error) {
	var args TicketPriceArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return TicketPriceArgs{}, fmt.Errorf("%w: %v", ErrMalformedArguments, err)
	}
	if args.DestinationCity == nil {
		return TicketPriceArgs{}, fmt.Errorf("%w: missing destination_city", ErrMalformedArguments)
	}
	if strings.TrimSpace(*args.DestinationCity) == "" {
		return TicketPriceArgs{}, fmt.Errorf("%w: empty destination_city", ErrMalformedArguments)
	}
	return args, nil
}
