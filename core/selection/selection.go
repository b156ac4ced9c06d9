// Package selection holds the in-progress build: one optional chosen
// item per category, in category order.
package selection

import (
	"pc-builder/core/catalog"
	"pc-builder/internal/errors"
)

// Selection maps each category to an optional chosen item id. An absent
// key or an empty id both mean "not yet chosen".
type Selection map[catalog.Category]string

// New returns an empty selection.
func New() Selection {
	return make(Selection, len(catalog.Categories))
}

// Get returns the chosen item id for a category, or "" if unchosen.
func (s Selection) Get(c catalog.Category) string {
	return s[c]
}

// IsComplete reports whether every category has a chosen item.
func (s Selection) IsComplete() bool {
	for _, c := range catalog.Categories {
		if s[c] == "" {
			return false
		}
	}
	return true
}

// Count returns the number of chosen items.
func (s Selection) Count() int {
	n := 0
	for _, c := range catalog.Categories {
		if s[c] != "" {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for c, id := range s {
		out[c] = id
	}
	return out
}

// Store is the mutable holder of a build in progress. All mutations are
// synchronous and have no side effects beyond the internal state;
// cascading and revalidation are the caller's responsibility, which
// keeps the store a pure data holder.
type Store struct {
	sel Selection
}

// NewStore returns a store with an empty selection.
func NewStore() *Store {
	return &Store{sel: New()}
}

// Select chooses an item for a category. Selecting over a different
// item replaces it; re-selecting the currently chosen item clears the
// slot (toggle semantics).
func (st *Store) Select(c catalog.Category, itemID string) error {
	if !c.Valid() {
		return errors.Newf(errors.TypeInput, "unknown category %q", c)
	}
	if itemID == "" {
		return errors.Input("empty item id")
	}
	if st.sel[c] == itemID {
		delete(st.sel, c)
		return nil
	}
	st.sel[c] = itemID
	return nil
}

// Deselect clears a category's slot.
func (st *Store) Deselect(c catalog.Category) {
	delete(st.sel, c)
}

// Get returns the chosen item id for a category, or "" if unchosen.
func (st *Store) Get(c catalog.Category) string {
	return st.sel[c]
}

// IsComplete reports whether every category has a chosen item.
func (st *Store) IsComplete() bool {
	return st.sel.IsComplete()
}

// Selection returns a copy of the current selection.
func (st *Store) Selection() Selection {
	return st.sel.Clone()
}

// Replace swaps in a whole selection, used when loading a saved build.
func (st *Store) Replace(sel Selection) {
	st.sel = sel.Clone()
}

// Reset clears every slot.
func (st *Store) Reset() {
	st.sel = New()
}
