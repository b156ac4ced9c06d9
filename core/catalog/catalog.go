// Package catalog - Catalog access
package catalog

import (
	"encoding/json"
	"os"
	"sort"

	"pc-builder/internal/errors"
)

// Catalog supplies the purchasable parts per category. It is fully
// populated before the wizard starts and read-only per invocation.
type Catalog interface {
	// ListItems returns all items of a category
	ListItems(category Category) []Item

	// Lookup resolves an item by id
	Lookup(id string) (Item, bool)
}

// Static is an in-memory catalog built from a fixed item set.
type Static struct {
	byCategory map[Category][]Item
	byID       map[string]Item
}

// NewStatic builds a catalog from a list of items. Items with an
// unknown category are rejected.
func NewStatic(items []Item) (*Static, error) {
	c := &Static{
		byCategory: make(map[Category][]Item),
		byID:       make(map[string]Item),
	}
	for _, item := range items {
		if item.ID == "" {
			return nil, errors.Input("catalog item without id")
		}
		if !item.Category.Valid() {
			return nil, errors.Newf(errors.TypeInput, "catalog item %s has unknown category %q", item.ID, item.Category)
		}
		if item.Price.IsNegative() {
			return nil, errors.Newf(errors.TypeInput, "catalog item %s has negative price", item.ID)
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, errors.Newf(errors.TypeInput, "duplicate catalog item id %s", item.ID)
		}
		c.byID[item.ID] = item
		c.byCategory[item.Category] = append(c.byCategory[item.Category], item)
	}
	for _, list := range c.byCategory {
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}
	return c, nil
}

// ListItems returns all items of a category, sorted by name.
func (c *Static) ListItems(category Category) []Item {
	items := c.byCategory[category]
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Lookup resolves an item by id.
func (c *Static) Lookup(id string) (Item, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// Len returns the total number of items.
func (c *Static) Len() int {
	return len(c.byID)
}

// dataFile is the on-disk catalog document shape.
type dataFile struct {
	Items []Item `json:"items"`
}

// LoadFile reads a catalog from a JSON data file.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "reading catalog file", err)
	}
	var doc dataFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.TypeInput, "parsing catalog file", err)
	}
	return NewStatic(doc.Items)
}
