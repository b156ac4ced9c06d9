// Package selection - Cascade invalidation
package selection

import (
	"pc-builder/core/catalog"
)

// InvalidateAfter clears every slot ordered strictly after the changed
// category and returns the cleared categories. Slots are cleared
// whether or not they were populated: a change to an earlier component
// may invalidate compatibility assumptions baked into any later choice
// (a cooler chosen for a specific socket, for example), so downstream
// choices are discarded conservatively rather than partially
// re-validated.
//
// Callers must invoke this synchronously after every Select/Deselect,
// before compatibility is re-evaluated.
func InvalidateAfter(st *Store, changed catalog.Category) []catalog.Category {
	idx := changed.Index()
	if idx < 0 {
		return nil
	}
	cleared := make([]catalog.Category, 0, len(catalog.Categories)-idx-1)
	for _, c := range catalog.Categories[idx+1:] {
		st.Deselect(c)
		cleared = append(cleared, c)
	}
	return cleared
}
