// Package common_tools provides the tools the FlightAI assistant can call.
//
// Available tools:
//   - get_ticket_price: Get the price of a return ticket to a destination city
//
// Tools are collected in a Registry, which validates them at registration
// time and dispatches model-issued tool calls to their handlers.
package common_tools
