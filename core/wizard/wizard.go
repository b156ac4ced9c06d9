// Package wizard orchestrates the component selection flow: step
// progression, cascade invalidation, compatibility gating and running
// totals. One Wizard belongs to one session; it is driven by a single
// event loop and the only asynchronous boundary is the compatibility
// evaluation.
package wizard

import (
	"context"
	"sync"

	"pc-builder/core/catalog"
	"pc-builder/core/compat"
	"pc-builder/core/pricing"
	"pc-builder/core/selection"
	"pc-builder/internal/errors"
)

// State is a snapshot of the wizard for rendering. Discarded on
// navigation away unless explicitly saved.
type State struct {
	// CurrentStep is the 1-based step number
	CurrentStep int

	// CurrentCategory is the category bound to the current step
	CurrentCategory catalog.Category

	// Selection is a copy of the current selection
	Selection selection.Selection

	// LastVerdict is the most recently applied verdict, nil before the
	// first evaluation completes
	LastVerdict *compat.Verdict

	// ValidationPending reports an outstanding evaluation
	ValidationPending bool

	// Totals is the running price and power aggregate
	Totals pricing.Totals

	// Completed is set once Advance succeeds on the last step
	Completed bool
}

// Change describes the effect of one selection mutation.
type Change struct {
	// Cleared lists the downstream categories wiped by the cascade
	Cleared []catalog.Category

	// Totals is the refreshed aggregate
	Totals pricing.Totals
}

// Wizard is the step state machine. Steps are bound one-to-one to
// categories in fixed order; step k holds category k.
type Wizard struct {
	catalog catalog.Catalog
	store   *selection.Store
	gate    *compat.Gate

	step      int // 0-based index into catalog.Categories
	completed bool

	evals sync.WaitGroup
}

// New creates a wizard at step 1 with an empty selection.
func New(cat catalog.Catalog, validator compat.Validator) *Wizard {
	return &Wizard{
		catalog: cat,
		store:   selection.NewStore(),
		gate:    compat.NewGate(validator),
	}
}

// CurrentCategory returns the category bound to the current step.
func (w *Wizard) CurrentCategory() catalog.Category {
	return catalog.Categories[w.step]
}

// Select applies a selection to a category, cascades invalidation over
// every later slot, kicks off an asynchronous compatibility evaluation
// and refreshes the totals. Toggle semantics: re-selecting the
// currently chosen item clears the slot.
func (w *Wizard) Select(ctx context.Context, c catalog.Category, itemID string) (Change, error) {
	if err := w.store.Select(c, itemID); err != nil {
		return Change{}, err
	}
	return w.afterMutation(ctx, c), nil
}

// Deselect clears a category, with the same cascade and revalidation as
// a selection.
func (w *Wizard) Deselect(ctx context.Context, c catalog.Category) (Change, error) {
	if !c.Valid() {
		return Change{}, errors.Newf(errors.TypeInput, "unknown category %q", c)
	}
	w.store.Deselect(c)
	return w.afterMutation(ctx, c), nil
}

// afterMutation runs the cascade synchronously, then starts the
// evaluation. The sequence number is claimed here, before the goroutine
// starts, so two back-to-back mutations order their verdicts by
// mutation time even if their goroutines are scheduled out of order.
func (w *Wizard) afterMutation(ctx context.Context, changed catalog.Category) Change {
	cleared := selection.InvalidateAfter(w.store, changed)
	sel := w.store.Selection()

	seq := w.gate.Begin()
	w.evals.Add(1)
	go func() {
		defer w.evals.Done()
		w.gate.Evaluate(ctx, seq, sel)
	}()

	return Change{
		Cleared: cleared,
		Totals:  pricing.ComputeTotal(sel, w.catalog),
	}
}

// Advance moves to the next step. It is refused with a
// MissingSelection error when the current step's category is unchosen,
// and with an IncompatibleBuild error when the last applied verdict
// blocks, even if the category is chosen. Advancing from the last step
// marks the wizard completed; the completion hand-off is consumed by
// the cart collaborator, the wizard itself creates no orders.
func (w *Wizard) Advance() error {
	current := w.CurrentCategory()
	if w.store.Get(current) == "" {
		return errors.MissingSelection(current.String())
	}
	if v := w.gate.LastVerdict(); v != nil && v.Blocks() {
		return errors.IncompatibleBuild(v.Errors)
	}
	if w.step == len(catalog.Categories)-1 {
		w.completed = true
		return nil
	}
	w.step++
	return nil
}

// Retreat moves back one step. Always permitted above step 1; never
// clears a selection.
func (w *Wizard) Retreat() error {
	if w.step == 0 {
		return errors.Input("already at the first step")
	}
	w.step--
	w.completed = false
	return nil
}

// LoadSelection replaces the whole selection, used after a build load
// or import. The wizard returns to step 1 and revalidates.
func (w *Wizard) LoadSelection(ctx context.Context, sel selection.Selection) Change {
	w.store.Replace(sel)
	w.step = 0
	w.completed = false
	current := w.store.Selection()

	seq := w.gate.Begin()
	w.evals.Add(1)
	go func() {
		defer w.evals.Done()
		w.gate.Evaluate(ctx, seq, current)
	}()

	return Change{Totals: pricing.ComputeTotal(current, w.catalog)}
}

// Reset wipes the selection and returns the wizard to step 1.
func (w *Wizard) Reset() {
	w.store.Reset()
	w.gate.Reset()
	w.step = 0
	w.completed = false
}

// Selection returns a copy of the current selection for hand-off.
func (w *Wizard) Selection() selection.Selection {
	return w.store.Selection()
}

// State returns a snapshot for rendering.
func (w *Wizard) State() State {
	sel := w.store.Selection()
	return State{
		CurrentStep:       w.step + 1,
		CurrentCategory:   w.CurrentCategory(),
		Selection:         sel,
		LastVerdict:       w.gate.LastVerdict(),
		ValidationPending: w.gate.Pending(),
		Totals:            pricing.ComputeTotal(sel, w.catalog),
		Completed:         w.completed,
	}
}

// WaitForValidation blocks until every started evaluation has been
// applied or discarded. Used by tests and by shutdown paths.
func (w *Wizard) WaitForValidation() {
	w.evals.Wait()
}
