// Package catalog - Component catalog domain types
package catalog

// Category is one of the fixed, ordered component slots in a PC build.
// The declaration order is semantically meaningful: it defines both the
// wizard step sequence and the direction of cascade invalidation.
type Category string

const (
	CategoryProcessor   Category = "processor"
	CategoryMotherboard Category = "motherboard"
	CategoryMemory      Category = "memory"
	CategoryGraphics    Category = "graphics"
	CategoryStorage     Category = "storage"
	CategoryEnclosure   Category = "enclosure"
	CategoryPowerSupply Category = "power-supply"
	CategoryCooler      Category = "cooler"
)

// Categories lists every category in wizard order.
var Categories = []Category{
	CategoryProcessor,
	CategoryMotherboard,
	CategoryMemory,
	CategoryGraphics,
	CategoryStorage,
	CategoryEnclosure,
	CategoryPowerSupply,
	CategoryCooler,
}

// DrawCategories lists the categories whose items count toward the
// estimated power draw: processor, motherboard, memory and graphics.
// Drives, fans and cooling are covered by the flat overhead the
// compatibility rules add; the power supply contributes capacity, not
// draw.
var DrawCategories = []Category{
	CategoryProcessor,
	CategoryMotherboard,
	CategoryMemory,
	CategoryGraphics,
}

// slotKeys maps categories to the short slot keys used by the wire and
// export formats. These predate the category names and must stay stable
// so previously exported builds remain importable.
var slotKeys = map[Category]string{
	CategoryProcessor:   "cpu",
	CategoryMotherboard: "motherboard",
	CategoryMemory:      "ram",
	CategoryGraphics:    "gpu",
	CategoryStorage:     "ssd",
	CategoryEnclosure:   "case",
	CategoryPowerSupply: "psu",
	CategoryCooler:      "cooler",
}

var categoriesBySlot = func() map[string]Category {
	m := make(map[string]Category, len(slotKeys))
	for c, k := range slotKeys {
		m[k] = c
	}
	return m
}()

// CountsTowardDraw reports whether items of the category contribute
// their own power spec to the estimated draw.
func (c Category) CountsTowardDraw() bool {
	for _, d := range DrawCategories {
		if d == c {
			return true
		}
	}
	return false
}

// String returns the string representation
func (c Category) String() string {
	return string(c)
}

// SlotKey returns the wire-format slot key for the category.
func (c Category) SlotKey() string {
	return slotKeys[c]
}

// Index returns the position of the category in wizard order, or -1 for
// an unknown category.
func (c Category) Index() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return -1
}

// Valid reports whether the category is one of the fixed slots.
func (c Category) Valid() bool {
	return c.Index() >= 0
}

// FromSlotKey resolves a wire-format slot key back to its category.
func FromSlotKey(key string) (Category, bool) {
	c, ok := categoriesBySlot[key]
	return c, ok
}

// ParseCategory accepts either a category name or a slot key.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	if c.Valid() {
		return c, true
	}
	return FromSlotKey(s)
}
