// Package build - Named build persistence
package build

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pc-builder/core/catalog"
	"pc-builder/core/pricing"
	"pc-builder/core/selection"
	"pc-builder/internal/errors"
	"pc-builder/internal/logging"
)

// NamedBuild is a saved snapshot of a selection. Never mutated after
// creation; re-saving creates a new record.
type NamedBuild struct {
	// ID uniquely identifies the record
	ID string `json:"id"`

	// Name is the customer-chosen label
	Name string `json:"name"`

	// OwnerID scopes the build to a customer account; empty means the
	// anonymous scope
	OwnerID string `json:"owner_id,omitempty"`

	// Selection is the snapshotted category-to-item mapping
	Selection selection.Selection `json:"selection"`

	// TotalPrice is the catalog total at save time
	TotalPrice decimal.Decimal `json:"total_price"`

	// CreatedAt is the save timestamp
	CreatedAt time.Time `json:"created_at"`
}

// Store persists named builds scoped to an owning identity.
type Store interface {
	// Insert stores a new build record
	Insert(ctx context.Context, b NamedBuild) error

	// Get returns a build by id if it is owned by ownerID
	Get(ctx context.Context, id, ownerID string) (NamedBuild, error)

	// List returns every build owned by ownerID, newest first
	List(ctx context.Context, ownerID string) ([]NamedBuild, error)

	// Delete removes a build owned by ownerID
	Delete(ctx context.Context, id, ownerID string) error
}

// Service implements save and load on top of a store and a catalog.
// The total stored with a build is always recomputed server-side from
// the catalog; a client-supplied total is never trusted.
type Service struct {
	store   Store
	catalog catalog.Catalog
}

// NewService creates a build service.
func NewService(store Store, cat catalog.Catalog) *Service {
	return &Service{store: store, catalog: cat}
}

// Save snapshots a selection under a name. The name must be non-empty
// and the selection must contain at least one chosen item; an all-empty
// build is rejected as nothing to save.
func (s *Service) Save(ctx context.Context, ownerID, name string, sel selection.Selection) (NamedBuild, error) {
	if name == "" {
		return NamedBuild{}, errors.Input("build name must not be empty")
	}
	if sel.Count() == 0 {
		return NamedBuild{}, errors.Input("nothing to save: no components selected")
	}

	totals := pricing.ComputeTotal(sel, s.catalog)
	b := NamedBuild{
		ID:         uuid.NewString(),
		Name:       name,
		OwnerID:    ownerID,
		Selection:  sel.Clone(),
		TotalPrice: totals.Price,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return NamedBuild{}, errors.Internal("storing build", err)
	}

	logging.Info("build saved",
		zap.String("build_id", b.ID),
		zap.String("name", b.Name),
		zap.Int("components", sel.Count()),
		zap.String("total_price", b.TotalPrice.StringFixed(2)))
	return b, nil
}

// Load returns a saved build owned by the caller. Absent ids and ids
// owned by someone else are indistinguishable NotFound.
func (s *Service) Load(ctx context.Context, id, ownerID string) (NamedBuild, error) {
	return s.store.Get(ctx, id, ownerID)
}

// List returns the caller's saved builds, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]NamedBuild, error) {
	return s.store.List(ctx, ownerID)
}

// Delete removes a saved build owned by the caller.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	return s.store.Delete(ctx, id, ownerID)
}
