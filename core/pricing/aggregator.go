// Package pricing computes running totals for a build in progress.
package pricing

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pc-builder/core/catalog"
	"pc-builder/core/selection"
	"pc-builder/internal/errors"
	"pc-builder/internal/logging"
)

// Totals is the aggregate of a selection priced against a catalog.
type Totals struct {
	// Price is the sum of unit prices of every resolvable selected item
	Price decimal.Decimal `json:"price"`

	// PowerDraw is the summed estimated draw in watts of the
	// draw-counted items (processor, motherboard, memory, graphics).
	// Other parts are covered by the flat overhead the compatibility
	// rules add; the power supply contributes capacity, not draw.
	PowerDraw float64 `json:"power_draw"`

	// Unresolved counts selected item ids that no longer resolve in the
	// catalog and were skipped
	Unresolved int `json:"unresolved,omitempty"`
}

// ComputeTotal prices a selection against a catalog. An empty selection
// totals zero; that is a valid state, not an error. A selected id
// missing from the catalog is a catalog inconsistency: it is skipped
// and logged so operators can see the degradation, but it never
// surfaces to the user and never fails the computation.
func ComputeTotal(sel selection.Selection, cat catalog.Catalog) Totals {
	totals := Totals{Price: decimal.Zero}
	for _, c := range catalog.Categories {
		id := sel.Get(c)
		if id == "" {
			continue
		}
		item, ok := cat.Lookup(id)
		if !ok {
			totals.Unresolved++
			logging.Warn("selected item not found, excluded from total",
				zap.String("code", string(errors.TypeCatalogInconsistency)),
				zap.String("category", c.String()),
				zap.String("item_id", id))
			continue
		}
		totals.Price = totals.Price.Add(item.Price)
		if !c.CountsTowardDraw() {
			continue
		}
		if w, ok := item.PowerDraw(); ok {
			totals.PowerDraw += w
		}
	}
	return totals
}
