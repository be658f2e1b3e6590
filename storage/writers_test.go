package storage

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"listings-feed-store/models"
)

func TestWriteJSONCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phx-internal", "verified_agents.json")

	doc := map[string]any{"market": "phoenix", "total_agents": 2}
	if err := WriteJSON(path, doc); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("output should end with a newline")
	}
	if !strings.Contains(string(data), "  \"market\"") {
		t.Error("output should be two-space indented")
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["market"] != "phoenix" {
		t.Errorf("market = %v", out["market"])
	}
}

func TestCSVWriterCanonicalLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "listings.csv")

	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	listings := []*models.Listing{
		{MLSNumber: "1111111", Timestamp: "2024-01-01 00:00:00", Price: "$450,000", Status: "Active"},
		{MLSNumber: "2222222", Timestamp: "2024-01-02 00:00:00"},
	}
	if err := w.Write(listings); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if len(records[0]) != len(models.CanonicalColumns) {
		t.Errorf("header has %d columns; want %d", len(records[0]), len(models.CanonicalColumns))
	}
	if records[0][0] != models.CanonicalColumns[0] {
		t.Errorf("header[0] = %q; want %q", records[0][0], models.CanonicalColumns[0])
	}
	found := false
	for _, cell := range records[1] {
		if cell == "1111111" {
			found = true
		}
	}
	if !found {
		t.Errorf("first data row missing identifier: %v", records[1])
	}
}
