package pricing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLookupKnownCities(t *testing.T) {
	table := DefaultTable()
	cases := map[string]string{
		"tokyo":           "$1400",
		"Tokyo":           "$1400",
		"  BERLIN ":       "$499",
		"New York":        "$1200",
		"\tsan francisco": "$1199",
	}
	for city, want := range cases {
		if got := table.Lookup(city); got != want {
			t.Errorf("Lookup(%q) = %q, want %q", city, got, want)
		}
	}
}

func TestLookupUnknownCity(t *testing.T) {
	table := DefaultTable()
	for _, city := range []string{"Atlantis", "", "   ", "tokyo city"} {
		if got := table.Lookup(city); got != Unknown {
			t.Errorf("Lookup(%q) = %q, want %q", city, got, Unknown)
		}
	}
}

func TestLookupNilTable(t *testing.T) {
	var table *Table
	if got := table.Lookup("paris"); got != Unknown {
		t.Errorf("expected Unknown from nil table, got %q", got)
	}
}

func TestDuplicateEntryLastWins(t *testing.T) {
	table := NewTable(
		Entry{City: "phoenix", Price: "$799"},
		Entry{City: "Phoenix", Price: "$650"},
	)
	if got := table.Lookup("phoenix"); got != "$650" {
		t.Errorf("expected later definition to win, got %q", got)
	}
	if table.Len() != 1 {
		t.Errorf("expected 1 city, got %d", table.Len())
	}
}

func TestDefaultTableCollapsesRepeatedPhoenix(t *testing.T) {
	table := DefaultTable()
	if got := table.Lookup("phoenix"); got != "$799" {
		t.Errorf("expected $799 for phoenix, got %q", got)
	}
	if table.Len() != len(defaultEntries)-1 {
		t.Errorf("expected %d cities, got %d", len(defaultEntries)-1, table.Len())
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
london: "$799"
Phoenix: "$799"
tokyo: $1400
phoenix: "$820"
`)
	table, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if got := table.Lookup("PHOENIX"); got != "$820" {
		t.Errorf("expected repeated city to resolve to last value, got %q", got)
	}
	if got := table.Lookup("tokyo"); got != "$1400" {
		t.Errorf("expected $1400, got %q", got)
	}
	if table.Len() != 3 {
		t.Errorf("expected 3 cities, got %d", table.Len())
	}
}

func TestParseYAMLRepeatedKey(t *testing.T) {
	table, err := ParseYAML([]byte("phoenix: \"$799\"\nlondon: \"$799\"\nphoenix: \"$650\"\n"))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if got := table.Lookup("phoenix"); got != "$650" {
		t.Errorf("expected last definition to win, got %q", got)
	}
	if table.Len() != 2 {
		t.Errorf("expected 2 cities, got %d", table.Len())
	}
}

func TestParseYAMLRejectsEmptyPrice(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"null value", "london: \"$799\"\nberlin:\n"},
		{"explicit null", "berlin: ~\n"},
		{"empty string", "paris: \"\"\n"},
		{"blank string", "paris: \"   \"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error for empty price")
			}
			if !strings.Contains(err.Error(), "empty price") {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseYAMLRejectsSequence(t *testing.T) {
	if _, err := ParseYAML([]byte("- london\n- paris\n")); err == nil {
		t.Error("expected error for sequence document")
	}
}

func TestParseYAMLEmpty(t *testing.T) {
	table, err := ParseYAML(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("expected empty table, got %d entries", table.Len())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.yaml")
	if err := os.WriteFile(path, []byte("berlin: \"$450\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	table, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if got := table.Lookup("Berlin"); got != "$450" {
		t.Errorf("expected $450, got %q", got)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
