// Package catalog - Item filtering and sorting
//
// The storefront lets customers narrow each category by free-text
// search, spec-field filters, and a sort order. One generic query path
// serves every category; the per-category differences are captured in
// field extractors instead of branching on category names.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Filter decides whether an item stays in a result set.
type Filter func(Item) bool

// StringField extracts a comparable string field from an item.
type StringField func(Item) string

// NumberField extracts a numeric field from an item. The bool reports
// whether the item carries the field at all.
type NumberField func(Item) (float64, bool)

// SpecString returns an extractor for a string spec field.
func SpecString(key string) StringField {
	return func(i Item) string { return i.Specs.String(key) }
}

// SpecNumber returns an extractor for a numeric spec field.
func SpecNumber(key string) NumberField {
	return func(i Item) (float64, bool) { return i.Specs.Number(key) }
}

// MatchText matches the term case-insensitively against the item name
// and every spec value. An empty term matches everything.
func MatchText(term string) Filter {
	term = strings.ToLower(strings.TrimSpace(term))
	return func(i Item) bool {
		if term == "" {
			return true
		}
		if strings.Contains(strings.ToLower(i.Name), term) {
			return true
		}
		for _, v := range i.Specs {
			if strings.Contains(strings.ToLower(fmt.Sprint(v)), term) {
				return true
			}
		}
		return false
	}
}

// FieldEquals matches items whose extracted field equals want. An empty
// want matches everything, so unset filter controls pass through.
func FieldEquals(field StringField, want string) Filter {
	return func(i Item) bool {
		if want == "" {
			return true
		}
		return field(i) == want
	}
}

// FieldAtLeast matches items whose extracted numeric field is at least
// min. Items without the field are excluded.
func FieldAtLeast(field NumberField, min float64) Filter {
	return func(i Item) bool {
		v, ok := field(i)
		return ok && v >= min
	}
}

// Order sorts a result set.
type Order func(a, b Item) bool

// ByName orders alphabetically by display name.
func ByName() Order {
	return func(a, b Item) bool { return a.Name < b.Name }
}

// ByPrice orders by unit price.
func ByPrice(ascending bool) Order {
	return func(a, b Item) bool {
		if ascending {
			return a.Price.LessThan(b.Price)
		}
		return b.Price.LessThan(a.Price)
	}
}

// Query filters and orders a category's items. A nil order keeps the
// input order.
func Query(items []Item, order Order, filters ...Filter) []Item {
	out := make([]Item, 0, len(items))
next:
	for _, item := range items {
		for _, f := range filters {
			if f != nil && !f(item) {
				continue next
			}
		}
		out = append(out, item)
	}
	if order != nil {
		sort.SliceStable(out, func(i, j int) bool { return order(out[i], out[j]) })
	}
	return out
}
