// Package catalog - Catalog item types
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Specs holds the free-form specification fields of an item, for example:
// "socket": "AM5"
// "tdp": 105
// "ram_types": "DDR5"
type Specs map[string]interface{}

// String returns the named spec as a string, or "" if absent.
func (s Specs) String(key string) string {
	v, ok := s[key]
	if !ok {
		return ""
	}
	str, ok := v.(string)
	if !ok {
		return ""
	}
	return str
}

// Number returns the named spec as a number. JSON decoding yields
// float64 for all numeric fields; integer values stored directly are
// also accepted.
func (s Specs) Number(key string) (float64, bool) {
	v, ok := s[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Strings returns the named spec as a list. A JSON array of strings and
// a single comma-separated string are both accepted.
func (s Specs) Strings(key string) []string {
	v, ok := s[key]
	if !ok {
		return nil
	}
	switch val := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, e := range val {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	case []string:
		return val
	case string:
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return nil
}

// Item is a purchasable part. Items are immutable from the
// configurator's perspective; they are owned and supplied by the
// catalog collaborator.
type Item struct {
	// ID uniquely identifies the item
	ID string `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// Category is the slot the item belongs to
	Category Category `json:"category"`

	// Price is the non-negative unit price
	Price decimal.Decimal `json:"price"`

	// Specs contains the specification fields used for filtering and
	// compatibility evaluation
	Specs Specs `json:"specs,omitempty"`
}

// PowerDraw returns the item's estimated power draw in watts, if its
// specs carry one. Processors publish "tdp"; other parts publish
// "power_consumption".
func (i Item) PowerDraw() (float64, bool) {
	if w, ok := i.Specs.Number("tdp"); ok {
		return w, true
	}
	return i.Specs.Number("power_consumption")
}
