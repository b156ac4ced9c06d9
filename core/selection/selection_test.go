package selection

import (
	"testing"

	"pc-builder/core/catalog"
)

func TestSelectReplacesPreviousChoice(t *testing.T) {
	st := NewStore()
	if err := st.Select(catalog.CategoryProcessor, "cpu-1"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if err := st.Select(catalog.CategoryProcessor, "cpu-2"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got := st.Get(catalog.CategoryProcessor); got != "cpu-2" {
		t.Errorf("Expected cpu-2, got %q", got)
	}
}

func TestSelectToggleDeselects(t *testing.T) {
	st := NewStore()
	if err := st.Select(catalog.CategoryProcessor, "cpu-1"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	// Re-selecting the currently chosen item clears the slot.
	if err := st.Select(catalog.CategoryProcessor, "cpu-1"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got := st.Get(catalog.CategoryProcessor); got != "" {
		t.Errorf("Expected empty slot after toggle, got %q", got)
	}
}

func TestSelectRejectsBadInput(t *testing.T) {
	st := NewStore()
	if err := st.Select(catalog.Category("keyboard"), "item-1"); err == nil {
		t.Error("Expected error for unknown category")
	}
	if err := st.Select(catalog.CategoryProcessor, ""); err == nil {
		t.Error("Expected error for empty item id")
	}
}

func TestIsComplete(t *testing.T) {
	st := NewStore()
	if st.IsComplete() {
		t.Fatal("Empty store reported complete")
	}
	for i, c := range catalog.Categories {
		if st.IsComplete() {
			t.Fatalf("Store reported complete after %d of %d slots", i, len(catalog.Categories))
		}
		if err := st.Select(c, "item-"+c.SlotKey()); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
	}
	if !st.IsComplete() {
		t.Error("Store with every slot filled reported incomplete")
	}
}

func TestSelectionReturnsCopy(t *testing.T) {
	st := NewStore()
	if err := st.Select(catalog.CategoryProcessor, "cpu-1"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	sel := st.Selection()
	sel[catalog.CategoryProcessor] = "tampered"
	if got := st.Get(catalog.CategoryProcessor); got != "cpu-1" {
		t.Errorf("Store state changed through returned selection: %q", got)
	}
}

func TestInvalidateAfterClearsOnlyLaterSlots(t *testing.T) {
	st := NewStore()
	for _, c := range catalog.Categories {
		if err := st.Select(c, "item-"+c.SlotKey()); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
	}

	cleared := InvalidateAfter(st, catalog.CategoryMotherboard)

	want := []catalog.Category{
		catalog.CategoryMemory,
		catalog.CategoryGraphics,
		catalog.CategoryStorage,
		catalog.CategoryEnclosure,
		catalog.CategoryPowerSupply,
		catalog.CategoryCooler,
	}
	if len(cleared) != len(want) {
		t.Fatalf("Expected %d cleared categories, got %d: %v", len(want), len(cleared), cleared)
	}
	for i, c := range want {
		if cleared[i] != c {
			t.Errorf("cleared[%d] = %s, want %s", i, cleared[i], c)
		}
		if st.Get(c) != "" {
			t.Errorf("Slot %s not cleared", c)
		}
	}

	// Earlier slots stay untouched.
	if st.Get(catalog.CategoryProcessor) == "" || st.Get(catalog.CategoryMotherboard) == "" {
		t.Error("Cascade cleared an upstream slot")
	}
}

func TestInvalidateAfterLastCategoryClearsNothing(t *testing.T) {
	st := NewStore()
	if err := st.Select(catalog.CategoryProcessor, "cpu-1"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	cleared := InvalidateAfter(st, catalog.CategoryCooler)
	if len(cleared) != 0 {
		t.Errorf("Expected no cleared categories, got %v", cleared)
	}
	if st.Get(catalog.CategoryProcessor) != "cpu-1" {
		t.Error("Unrelated slot was cleared")
	}
}

func TestInvalidateAfterUnknownCategory(t *testing.T) {
	st := NewStore()
	if cleared := InvalidateAfter(st, catalog.Category("keyboard")); cleared != nil {
		t.Errorf("Expected nil for unknown category, got %v", cleared)
	}
}
