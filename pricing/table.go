// Package pricing holds the fixed return-ticket price list used by the
// get_ticket_price tool.
package pricing

import (
	"strings"
)

// Unknown is returned for any city that is not in the table.
const Unknown = "Unknown"

// Entry is one city/price pair as it appears in a price list source.
type Entry struct {
	City  string `yaml:"city" json:"city"`
	Price string `yaml:"price" json:"price"`
}

// Table maps a lowercase city name to its price string. A Table is never
// modified after construction, so it is safe to share between sessions.
type Table struct {
	prices map[string]string
}

// NewTable builds a table from entries in source order. When the same city
// appears more than once, the later entry wins.
func NewTable(entries ...Entry) *Table {
	t := &Table{prices: make(map[string]string, len(entries))}
	for _, e := range entries {
		t.prices[normalize(e.City)] = e.Price
	}
	return t
}

// Lookup returns the configured price for city, ignoring case and
// surrounding whitespace. Cities that are not listed yield Unknown.
func (t *Table) Lookup(city string) string {
	if t == nil {
		return Unknown
	}
	if price, ok := t.prices[normalize(city)]; ok {
		return price
	}
	return Unknown
}

// Len reports the number of distinct cities.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.prices)
}

func normalize(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// DefaultTable returns the built-in FlightAI price list.
func DefaultTable() *Table {
	return NewTable(defaultEntries...)
}

var defaultEntries = []Entry{
	{"london", "$799"},
	{"paris", "$899"},
	{"tokyo", "$1400"},
	{"berlin", "$499"},
	{"new york", "$1200"},
	{"los angeles", "$1100"},
	{"chicago", "$999"},
	{"houston", "$899"},
	{"phoenix", "$799"},
	{"philadelphia", "$999"},
	{"san antonio", "$899"},
	{"san diego", "$1099"},
	{"dallas", "$999"},
	{"san jose", "$1199"},
	{"austin", "$899"},
	{"jacksonville", "$999"},
	{"columbus", "$899"},
	{"charlotte", "$799"},
	{"seattle", "$1099"},
	{"denver", "$999"},
	{"washington", "$1199"},
	{"boston", "$1099"},
	{"nashville", "$899"},
	{"oklahoma city", "$799"},
	{"milwaukee", "$999"},
	{"phoenix", "$799"},
	{"san francisco", "$1199"},
	{"detroit", "$899"},
}
