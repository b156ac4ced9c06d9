package wizard

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"pc-builder/core/catalog"
	"pc-builder/core/compat"
	"pc-builder/core/selection"
	"pc-builder/internal/errors"
)

type stubValidator struct {
	verdict compat.Verdict
}

func (s *stubValidator) Validate(context.Context, selection.Selection) (compat.Verdict, error) {
	return s.verdict, nil
}

func compatibleValidator() *stubValidator {
	return &stubValidator{verdict: compat.Verdict{Status: compat.StatusCompatible}}
}

func testCatalog(t *testing.T) *catalog.Static {
	t.Helper()
	items := []catalog.Item{
		{ID: "cpu-a", Name: "CPU A", Category: catalog.CategoryProcessor, Price: decimal.RequireFromString("300.00")},
		{ID: "cpu-b", Name: "CPU B", Category: catalog.CategoryProcessor, Price: decimal.RequireFromString("350.00")},
		{ID: "mb-a", Name: "Board A", Category: catalog.CategoryMotherboard, Price: decimal.RequireFromString("150.00")},
	}
	for _, c := range catalog.Categories[2:] {
		items = append(items, catalog.Item{
			ID:       "item-" + c.SlotKey(),
			Name:     "Item " + c.SlotKey(),
			Category: c,
			Price:    decimal.RequireFromString("10.00"),
		})
	}
	cat, err := catalog.NewStatic(items)
	if err != nil {
		t.Fatalf("building test catalog: %v", err)
	}
	return cat
}

func TestAdvanceRefusedWithoutSelection(t *testing.T) {
	w := New(testCatalog(t), compatibleValidator())

	err := w.Advance()
	if err == nil {
		t.Fatal("Expected advance to be refused on an empty step")
	}
	if !errors.IsType(err, errors.TypeMissingSelection) {
		t.Errorf("Expected MissingSelection, got %v", err)
	}
}

func TestAdvanceRefusedByBlockingVerdict(t *testing.T) {
	validator := &stubValidator{verdict: compat.Verdict{
		Status: compat.StatusIncompatible,
		Errors: []string{"socket mismatch"},
	}}
	w := New(testCatalog(t), validator)

	if _, err := w.Select(context.Background(), catalog.CategoryProcessor, "cpu-a"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	w.WaitForValidation()

	// The category is selected, so the refusal must be the verdict,
	// distinguishable from a missing selection.
	err := w.Advance()
	if err == nil {
		t.Fatal("Expected advance to be refused by the verdict")
	}
	if !errors.IsType(err, errors.TypeIncompatibleBuild) {
		t.Errorf("Expected IncompatibleBuild, got %v", err)
	}
}

func TestUnavailableVerdictDoesNotBlock(t *testing.T) {
	validator := &stubValidator{verdict: compat.Unavailable()}
	w := New(testCatalog(t), validator)

	if _, err := w.Select(context.Background(), catalog.CategoryProcessor, "cpu-a"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	w.WaitForValidation()

	if err := w.Advance(); err != nil {
		t.Errorf("Advance blocked by unavailable verdict: %v", err)
	}
}

func TestCompletionAtFinalStep(t *testing.T) {
	cat := testCatalog(t)
	w := New(cat, compatibleValidator())
	ctx := context.Background()

	ids := map[catalog.Category]string{
		catalog.CategoryProcessor:   "cpu-a",
		catalog.CategoryMotherboard: "mb-a",
	}
	for _, c := range catalog.Categories[2:] {
		ids[c] = "item-" + c.SlotKey()
	}

	for i, c := range catalog.Categories {
		if w.CurrentCategory() != c {
			t.Fatalf("Step %d bound to %s, want %s", i+1, w.CurrentCategory(), c)
		}
		if _, err := w.Select(ctx, c, ids[c]); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		w.WaitForValidation()
		if err := w.Advance(); err != nil {
			t.Fatalf("Advance from step %d failed: %v", i+1, err)
		}
	}

	state := w.State()
	if !state.Completed {
		t.Error("Wizard not completed after advancing through every step")
	}
	if !state.Selection.IsComplete() {
		t.Error("Completed wizard with incomplete selection")
	}
	want := decimal.RequireFromString("510.00")
	if !state.Totals.Price.Equal(want) {
		t.Errorf("Expected total %s at completion, got %s", want, state.Totals.Price)
	}
}

func TestRetreatKeepsSelections(t *testing.T) {
	w := New(testCatalog(t), compatibleValidator())
	ctx := context.Background()

	if err := w.Retreat(); err == nil {
		t.Error("Expected retreat to fail at the first step")
	}

	if _, err := w.Select(ctx, catalog.CategoryProcessor, "cpu-a"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	w.WaitForValidation()
	if err := w.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if err := w.Retreat(); err != nil {
		t.Fatalf("Retreat failed: %v", err)
	}
	if got := w.Selection().Get(catalog.CategoryProcessor); got != "cpu-a" {
		t.Errorf("Retreat cleared a selection: %q", got)
	}
	if w.State().CurrentStep != 1 {
		t.Errorf("Expected step 1 after retreat, got %d", w.State().CurrentStep)
	}
}

// Re-selecting an earlier category must clear every later slot and
// drop its price from the total until the slots are re-chosen.
func TestSelectCascadesDownstream(t *testing.T) {
	w := New(testCatalog(t), compatibleValidator())
	ctx := context.Background()

	if _, err := w.Select(ctx, catalog.CategoryProcessor, "cpu-a"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	change, err := w.Select(ctx, catalog.CategoryMotherboard, "mb-a")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if want := decimal.RequireFromString("450.00"); !change.Totals.Price.Equal(want) {
		t.Fatalf("Expected total %s, got %s", want, change.Totals.Price)
	}

	change, err = w.Select(ctx, catalog.CategoryProcessor, "cpu-b")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	clearedMotherboard := false
	for _, c := range change.Cleared {
		if c == catalog.CategoryMotherboard {
			clearedMotherboard = true
		}
	}
	if !clearedMotherboard {
		t.Errorf("Cascade did not clear the motherboard: %v", change.Cleared)
	}
	if want := decimal.RequireFromString("350.00"); !change.Totals.Price.Equal(want) {
		t.Errorf("Expected total %s after cascade, got %s", want, change.Totals.Price)
	}
	w.WaitForValidation()
}

// taggingValidator marks each verdict with the processor id it saw, so
// tests can tell which request produced the final verdict. The jitter
// shuffles response arrival order across iterations.
type taggingValidator struct{}

func (taggingValidator) Validate(_ context.Context, sel selection.Selection) (compat.Verdict, error) {
	time.Sleep(time.Duration(rand.Intn(200)) * time.Microsecond)
	return compat.Verdict{
		Status:   compat.StatusCompatible,
		Warnings: []string{sel.Get(catalog.CategoryProcessor)},
	}, nil
}

// Two back-to-back mutations race their evaluations; the verdict of the
// later mutation must win no matter which response lands first.
func TestLatestMutationVerdictWins(t *testing.T) {
	w := New(testCatalog(t), taggingValidator{})
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		if _, err := w.Select(ctx, catalog.CategoryProcessor, "cpu-a"); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if _, err := w.Select(ctx, catalog.CategoryProcessor, "cpu-b"); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		w.WaitForValidation()

		last := w.State().LastVerdict
		if last == nil {
			t.Fatalf("Iteration %d: no verdict applied", i)
		}
		if last.Warnings[0] != "cpu-b" {
			t.Fatalf("Iteration %d: final verdict corresponds to %v, want cpu-b", i, last.Warnings)
		}
		// Clear the slot so the next iteration's first select is a
		// selection, not a toggle.
		if _, err := w.Deselect(ctx, catalog.CategoryProcessor); err != nil {
			t.Fatalf("Deselect failed: %v", err)
		}
		w.WaitForValidation()
	}
}

// heldValidator blocks the response for one processor id until the test
// releases it.
type heldValidator struct {
	heldID  string
	release chan struct{}
}

func (h *heldValidator) Validate(_ context.Context, sel selection.Selection) (compat.Verdict, error) {
	id := sel.Get(catalog.CategoryProcessor)
	if id == h.heldID {
		<-h.release
	}
	return compat.Verdict{
		Status:   compat.StatusCompatible,
		Warnings: []string{id},
	}, nil
}

// A response held back from an earlier mutation must not overwrite the
// verdict of a later mutation when it finally arrives.
func TestHeldResponseCannotOverwriteNewerVerdict(t *testing.T) {
	v := &heldValidator{heldID: "cpu-a", release: make(chan struct{})}
	w := New(testCatalog(t), v)
	ctx := context.Background()

	if _, err := w.Select(ctx, catalog.CategoryProcessor, "cpu-a"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if _, err := w.Select(ctx, catalog.CategoryProcessor, "cpu-b"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	// The older response arrives only now, after the newer mutation.
	close(v.release)
	w.WaitForValidation()

	last := w.State().LastVerdict
	if last == nil {
		t.Fatal("No verdict applied")
	}
	if last.Warnings[0] != "cpu-b" {
		t.Errorf("Stale verdict won: final verdict corresponds to %v, want cpu-b", last.Warnings)
	}
}

func TestLoadSelectionRestartsWizard(t *testing.T) {
	w := New(testCatalog(t), compatibleValidator())
	ctx := context.Background()

	if _, err := w.Select(ctx, catalog.CategoryProcessor, "cpu-a"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	w.WaitForValidation()
	if err := w.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	loaded := selection.Selection{
		catalog.CategoryProcessor:   "cpu-b",
		catalog.CategoryMotherboard: "mb-a",
	}
	change := w.LoadSelection(ctx, loaded)
	w.WaitForValidation()

	if want := decimal.RequireFromString("500.00"); !change.Totals.Price.Equal(want) {
		t.Errorf("Expected total %s after load, got %s", want, change.Totals.Price)
	}
	state := w.State()
	if state.CurrentStep != 1 {
		t.Errorf("Expected step 1 after load, got %d", state.CurrentStep)
	}
	if state.Selection.Get(catalog.CategoryMotherboard) != "mb-a" {
		t.Error("Loaded selection not applied")
	}
	if state.LastVerdict == nil {
		t.Error("Load did not trigger revalidation")
	}
}
