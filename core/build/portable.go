// Package build - Portable export/import format
//
// The portable form is a self-describing JSON document customers can
// download and re-upload, independent of an account:
//
//	{
//	  "version": "1.0",
//	  "name": "My Build",
//	  "components": {"cpu": "cpu-1", "motherboard": null, ...},
//	  "total_price": 450.00,
//	  "exported_at": "2025-03-01T12:00:00Z"
//	}
//
// The components object uses the stable slot keys so documents exported
// by earlier storefront versions remain importable.
package build

import (
	"encoding/json"
	"strings"
	"time"

	"pc-builder/core/catalog"
	"pc-builder/core/pricing"
	"pc-builder/core/selection"
	"pc-builder/internal/errors"
)

// FormatVersion is the portable document version written by exports.
// Importers accept any version with the same major component.
const FormatVersion = "1.0"

// portableDoc is the wire shape of the portable form.
type portableDoc struct {
	Version    string             `json:"version"`
	Name       string             `json:"name"`
	Components map[string]*string `json:"components"`
	TotalPrice float64            `json:"total_price"`
	ExportedAt time.Time          `json:"exported_at"`
}

// ImportWarning reports one item of an imported document that no longer
// resolves in the catalog.
type ImportWarning struct {
	// Category names the slot the unresolved item belonged to
	Category catalog.Category `json:"category"`

	// ItemID is the id that failed to resolve
	ItemID string `json:"item_id"`
}

// Export serializes a selection to the portable form. The embedded
// total is computed from the catalog, not taken from the caller.
func Export(name string, sel selection.Selection, cat catalog.Catalog) ([]byte, error) {
	components := make(map[string]*string, len(catalog.Categories))
	for _, c := range catalog.Categories {
		if id := sel.Get(c); id != "" {
			v := id
			components[c.SlotKey()] = &v
		} else {
			components[c.SlotKey()] = nil
		}
	}
	totals := pricing.ComputeTotal(sel, cat)
	price, _ := totals.Price.Float64()

	doc := portableDoc{
		Version:    FormatVersion,
		Name:       name,
		Components: components,
		TotalPrice: price,
		ExportedAt: time.Now().UTC(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Internal("encoding portable build", err)
	}
	return data, nil
}

// Import parses a portable document and resolves it against the
// catalog. Malformed input, missing required fields, and unknown major
// versions fail with InvalidFormat and no partial state. Item ids that
// no longer resolve are reported individually as warnings while the
// remaining items still populate the returned selection.
func Import(data []byte, cat catalog.Catalog) (selection.Selection, []ImportWarning, string, error) {
	var doc portableDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, "", errors.InvalidFormat("unparseable build document", err)
	}
	if doc.Version == "" {
		return nil, nil, "", errors.InvalidFormat("build document missing version", nil)
	}
	if major(doc.Version) != major(FormatVersion) {
		return nil, nil, "", errors.Newf(errors.TypeInvalidFormat,
			"unsupported build document version %s", doc.Version)
	}
	if doc.Components == nil {
		return nil, nil, "", errors.InvalidFormat("build document missing components", nil)
	}

	sel := selection.New()
	var warnings []ImportWarning
	for slot, id := range doc.Components {
		c, ok := catalog.FromSlotKey(slot)
		if !ok {
			// Slots added by a later minor version pass through silently.
			continue
		}
		if id == nil || *id == "" {
			continue
		}
		if _, found := cat.Lookup(*id); !found {
			warnings = append(warnings, ImportWarning{Category: c, ItemID: *id})
			continue
		}
		sel[c] = *id
	}
	return sel, warnings, doc.Name, nil
}

func major(version string) string {
	if i := strings.IndexByte(version, '.'); i >= 0 {
		return version[:i]
	}
	return version
}
