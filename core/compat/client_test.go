package compat

import (
	"encoding/json"
	"testing"

	"pc-builder/core/catalog"
	"pc-builder/core/selection"
)

// The validation request must carry every slot, empty ones as null, so
// the service can decide which cross-category rules can fire.
func TestWireRequestCarriesAllSlots(t *testing.T) {
	sel := selection.Selection{
		catalog.CategoryProcessor: "cpu-1",
		catalog.CategoryMemory:    "ram-2",
	}
	req := WireRequest(sel)

	if len(req) != len(catalog.Categories) {
		t.Fatalf("Expected %d slots, got %d", len(catalog.Categories), len(req))
	}
	if req["cpu"] == nil || *req["cpu"] != "cpu-1" {
		t.Errorf("cpu slot wrong: %v", req["cpu"])
	}
	if req["ram"] == nil || *req["ram"] != "ram-2" {
		t.Errorf("ram slot wrong: %v", req["ram"])
	}
	for _, slot := range []string{"motherboard", "gpu", "ssd", "case", "psu", "cooler"} {
		if req[slot] != nil {
			t.Errorf("Empty slot %s should be null, got %v", slot, *req[slot])
		}
	}
}

func TestSelectionFromWireIgnoresUnknownSlots(t *testing.T) {
	id := "cpu-1"
	sel := SelectionFromWire(map[string]*string{
		"cpu":      &id,
		"keyboard": &id,
		"gpu":      nil,
	})
	if sel.Get(catalog.CategoryProcessor) != "cpu-1" {
		t.Error("Known slot not resolved")
	}
	if sel.Count() != 1 {
		t.Errorf("Expected 1 chosen slot, got %d", sel.Count())
	}
}

// Responses without the optional aggregate fields must decode cleanly.
func TestVerdictDecodingToleratesAbsentOptionals(t *testing.T) {
	var wire VerdictWire
	raw := `{"compatible": true, "errors": [], "warnings": ["check airflow"]}`
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		t.Fatalf("Decoding failed: %v", err)
	}
	v := FromWire(wire)
	if v.Status != StatusCompatible {
		t.Errorf("Expected compatible, got %s", v.Status)
	}
	if v.HasTotals {
		t.Error("Totals reported present despite absent fields")
	}
	if len(v.Warnings) != 1 {
		t.Errorf("Warnings lost in decoding: %v", v.Warnings)
	}
}

func TestVerdictDecodingWithTotals(t *testing.T) {
	var wire VerdictWire
	raw := `{"compatible": false, "errors": ["socket mismatch"], "warnings": [], "total_price": 450.0, "total_wattage": 235, "future_field": 1}`
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		t.Fatalf("Decoding failed: %v", err)
	}
	v := FromWire(wire)
	if v.Status != StatusIncompatible {
		t.Errorf("Expected incompatible, got %s", v.Status)
	}
	if !v.HasTotals {
		t.Fatal("Totals missing")
	}
	if v.TotalWattage != 235 {
		t.Errorf("Expected 235W, got %f", v.TotalWattage)
	}
	if !v.Blocks() {
		t.Error("Incompatible verdict must block")
	}
}
