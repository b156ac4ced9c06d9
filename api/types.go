// Package api - Request/response types
package api

import (
	"time"

	"pc-builder/core/build"
	"pc-builder/core/catalog"
	"pc-builder/core/compat"
)

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// ItemView is the API shape of a catalog item.
type ItemView struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Category string        `json:"category"`
	Price    float64       `json:"price"`
	Specs    catalog.Specs `json:"specs,omitempty"`
}

func itemView(i catalog.Item) ItemView {
	price, _ := i.Price.Float64()
	return ItemView{
		ID:       i.ID,
		Name:     i.Name,
		Category: i.Category.String(),
		Price:    price,
		Specs:    i.Specs,
	}
}

// SaveBuildRequest creates a named build from a slot-keyed selection.
type SaveBuildRequest struct {
	Name       string             `json:"name"`
	Components map[string]*string `json:"components"`
}

// BuildView is the API shape of a saved build. The total is the
// server-side recomputation, never an echo of client input.
type BuildView struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Components map[string]*string `json:"components"`
	TotalPrice float64            `json:"total_price"`
	CreatedAt  time.Time          `json:"created_at"`
}

func buildView(b build.NamedBuild) BuildView {
	price, _ := b.TotalPrice.Float64()
	return BuildView{
		ID:         b.ID,
		Name:       b.Name,
		Components: compat.WireRequest(b.Selection),
		TotalPrice: price,
		CreatedAt:  b.CreatedAt,
	}
}

// ImportResponse reports an imported portable document: the resolved
// selection plus one warning per item that no longer resolves. A
// partial import carries the PARTIAL_IMPORT warning code so clients can
// distinguish it from a clean one without inspecting the warning list.
type ImportResponse struct {
	Name        string                `json:"name"`
	Components  map[string]*string    `json:"components"`
	WarningCode string                `json:"warning_code,omitempty"`
	Warnings    []build.ImportWarning `json:"warnings,omitempty"`
	TotalPrice  float64               `json:"total_price"`
}
