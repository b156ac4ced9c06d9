package build

import (
	"encoding/json"
	"strings"
	"testing"

	"pc-builder/core/catalog"
	"pc-builder/core/selection"
	"pc-builder/internal/errors"
)

func TestExportImportRoundTrip(t *testing.T) {
	cat := testCatalog(t)
	sel := selection.Selection{
		catalog.CategoryProcessor:   "cpu-1",
		catalog.CategoryMotherboard: "mb-1",
		catalog.CategoryMemory:      "ram-1",
	}

	data, err := Export("My Build", sel, cat)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	back, warnings, name, err := Import(data, cat)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
	if name != "My Build" {
		t.Errorf("Expected name to survive the round trip, got %q", name)
	}
	if len(back) != len(sel) {
		t.Fatalf("Expected %d selections after round trip, got %d", len(sel), len(back))
	}
	for c, id := range sel {
		if back.Get(c) != id {
			t.Errorf("Category %s: expected %q, got %q", c, id, back.Get(c))
		}
	}
}

func TestExportUsesPortableSlotKeys(t *testing.T) {
	cat := testCatalog(t)
	sel := selection.Selection{
		catalog.CategoryProcessor: "cpu-1",
		catalog.CategoryMemory:    "ram-1",
	}

	data, err := Export("My Build", sel, cat)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc struct {
		Version    string             `json:"version"`
		Components map[string]*string `json:"components"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Export produced invalid JSON: %v", err)
	}
	if doc.Version != FormatVersion {
		t.Errorf("Expected version %q, got %q", FormatVersion, doc.Version)
	}
	for _, key := range []string{"cpu", "ram"} {
		if id := doc.Components[key]; id == nil {
			t.Errorf("Expected slot %q to be populated", key)
		}
	}
	if id := doc.Components["gpu"]; id != nil {
		t.Errorf("Expected empty slot to export as null, got %q", *id)
	}
}

func TestImportUnknownItemYieldsWarning(t *testing.T) {
	cat := testCatalog(t)
	doc := `{
		"version": "1.0",
		"name": "Old Build",
		"components": {"cpu": "cpu-1", "gpu": "gpu-discontinued"}
	}`

	sel, warnings, _, err := Import([]byte(doc), cat)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if sel.Get(catalog.CategoryProcessor) != "cpu-1" {
		t.Error("Expected known item to be imported")
	}
	if sel.Get(catalog.CategoryGraphics) != "" {
		t.Error("Expected unknown item to be dropped from the selection")
	}
	if len(warnings) != 1 {
		t.Fatalf("Expected exactly one warning, got %v", warnings)
	}
	if warnings[0].Category != catalog.CategoryGraphics || warnings[0].ItemID != "gpu-discontinued" {
		t.Errorf("Warning does not name the missing category and id: %+v", warnings[0])
	}
}

func TestImportIgnoresUnknownSlotKeys(t *testing.T) {
	cat := testCatalog(t)
	doc := `{
		"version": "1.0",
		"components": {"cpu": "cpu-1", "rgb-controller": "glow-9000"}
	}`

	sel, warnings, _, err := Import([]byte(doc), cat)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Unknown slot keys should pass silently, got warnings %v", warnings)
	}
	if sel.Count() != 1 {
		t.Errorf("Expected a single imported selection, got %d", sel.Count())
	}
}

func TestImportRejectsMalformedDocuments(t *testing.T) {
	cat := testCatalog(t)
	cases := []struct {
		name string
		doc  string
	}{
		{"not json", `this is not json`},
		{"missing version", `{"components": {"cpu": "cpu-1"}}`},
		{"missing components", `{"version": "1.0", "name": "X"}`},
		{"newer major version", `{"version": "2.0", "components": {"cpu": "cpu-1"}}`},
	}
	for _, tc := range cases {
		_, _, _, err := Import([]byte(tc.doc), cat)
		if err == nil {
			t.Errorf("%s: expected import to fail", tc.name)
			continue
		}
		if !errors.IsType(err, errors.TypeInvalidFormat) {
			t.Errorf("%s: expected invalid format error, got %v", tc.name, err)
		}
	}
}

func TestImportAcceptsMinorVersionDrift(t *testing.T) {
	cat := testCatalog(t)
	doc := `{"version": "1.3", "components": {"cpu": "cpu-1"}}`

	sel, _, _, err := Import([]byte(doc), cat)
	if err != nil {
		t.Fatalf("Expected minor version drift to be tolerated: %v", err)
	}
	if sel.Get(catalog.CategoryProcessor) != "cpu-1" {
		t.Error("Expected selection to be imported")
	}
}

func TestExportRecomputesTotal(t *testing.T) {
	cat := testCatalog(t)
	sel := selection.Selection{catalog.CategoryProcessor: "cpu-1"}

	data, err := Export("My Build", sel, cat)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(string(data), `"total_price": 300`) {
		t.Errorf("Expected exported total to be recomputed from the catalog, got:\n%s", data)
	}
}
