// Package rules implements the cross-category compatibility rule set
// as structured predicates over typed specification fields. It backs
// the /api/validate-compatibility endpoint and serves as the built-in
// validator when no remote service is configured.
package rules

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pc-builder/core/catalog"
	"pc-builder/core/compat"
	"pc-builder/core/selection"
	"pc-builder/internal/errors"
	"pc-builder/internal/logging"
)

// baseOverheadWatts covers drives, fans and peripherals that carry no
// power spec of their own.
const baseOverheadWatts = 100

// headroomFactor is the recommended margin between estimated draw and
// power supply capacity.
const headroomFactor = 1.2

// Engine evaluates the rule set against a catalog. It implements
// compat.Validator.
type Engine struct {
	catalog catalog.Catalog
}

// NewEngine creates a rule engine over a catalog.
func NewEngine(c catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// parts holds the resolved items of a selection, one pointer per
// category, nil where the slot is empty or the id no longer resolves.
type parts map[catalog.Category]*catalog.Item

func (p parts) get(c catalog.Category) *catalog.Item {
	return p[c]
}

// report accumulates rule findings.
type report struct {
	errors   []string
	warnings []string
}

func (r *report) errorf(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *report) warnf(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// rule is one cross-category predicate. Rules fire only when every
// part they inspect is present; empty slots never produce findings.
type rule func(p parts, r *report)

var ruleSet = []rule{
	checkSocketMatch,
	checkMemorySupport,
	checkGraphicsClearance,
	checkCoolerSocket,
	checkCoolerClearance,
	checkPowerBudget,
}

// Validate resolves the selection and runs every rule. Item ids that no
// longer resolve in the catalog are skipped and logged; they degrade
// the totals rather than failing the evaluation.
func (e *Engine) Validate(_ context.Context, sel selection.Selection) (compat.Verdict, error) {
	p := make(parts, len(catalog.Categories))
	totalPrice := decimal.Zero
	for _, c := range catalog.Categories {
		id := sel.Get(c)
		if id == "" {
			continue
		}
		item, ok := e.catalog.Lookup(id)
		if !ok {
			logging.Warn("selected item missing from catalog",
				zap.String("code", string(errors.TypeCatalogInconsistency)),
				zap.String("category", c.String()),
				zap.String("item_id", id))
			continue
		}
		p[c] = &item
		totalPrice = totalPrice.Add(item.Price)
	}

	rep := &report{}
	for _, check := range ruleSet {
		check(p, rep)
	}

	status := compat.StatusCompatible
	if len(rep.errors) > 0 {
		status = compat.StatusIncompatible
	}
	return compat.Verdict{
		Status:       status,
		Errors:       rep.errors,
		Warnings:     rep.warnings,
		TotalPrice:   totalPrice,
		TotalWattage: estimatedDraw(p),
		HasTotals:    true,
	}, nil
}

// checkSocketMatch requires the processor and motherboard sockets to be
// identical.
func checkSocketMatch(p parts, r *report) {
	cpu, mb := p.get(catalog.CategoryProcessor), p.get(catalog.CategoryMotherboard)
	if cpu == nil || mb == nil {
		return
	}
	cpuSocket := cpu.Specs.String("socket")
	mbSocket := mb.Specs.String("socket")
	if cpuSocket != "" && mbSocket != "" && cpuSocket != mbSocket {
		r.errorf("processor socket %s does not match motherboard socket %s", cpuSocket, mbSocket)
	}
}

// checkMemorySupport requires the memory type to be supported by the
// motherboard; exceeding the board's rated speed only warns, since the
// modules will run downclocked.
func checkMemorySupport(p parts, r *report) {
	ram, mb := p.get(catalog.CategoryMemory), p.get(catalog.CategoryMotherboard)
	if ram == nil || mb == nil {
		return
	}
	ramType := ram.Specs.String("type")
	if ramType != "" {
		supported := false
		for _, t := range mb.Specs.Strings("ram_types") {
			if t == ramType {
				supported = true
				break
			}
		}
		if len(mb.Specs.Strings("ram_types")) > 0 && !supported {
			r.errorf("memory type %s is not supported by the motherboard", ramType)
		}
	}
	speed, ok := ram.Specs.Number("speed")
	maxSpeed, okMax := mb.Specs.Number("max_ram_speed")
	if ok && okMax && speed > maxSpeed {
		r.warnf("memory speed %.0fMHz exceeds the motherboard maximum of %.0fMHz", speed, maxSpeed)
	}
}

// checkGraphicsClearance requires the card to fit the enclosure.
func checkGraphicsClearance(p parts, r *report) {
	gpu, enc := p.get(catalog.CategoryGraphics), p.get(catalog.CategoryEnclosure)
	if gpu == nil || enc == nil {
		return
	}
	length, ok := gpu.Specs.Number("length")
	maxLength, okMax := enc.Specs.Number("max_gpu_length")
	if ok && okMax && length > maxLength {
		r.errorf("graphics card length %.0fmm exceeds the enclosure maximum of %.0fmm", length, maxLength)
	}
}

// checkCoolerSocket requires the cooler to list the processor socket.
func checkCoolerSocket(p parts, r *report) {
	cooler, cpu := p.get(catalog.CategoryCooler), p.get(catalog.CategoryProcessor)
	if cooler == nil || cpu == nil {
		return
	}
	socket := cpu.Specs.String("socket")
	if socket == "" {
		return
	}
	compatible := cooler.Specs.Strings("compatible_sockets")
	if len(compatible) == 0 {
		return
	}
	for _, s := range compatible {
		if s == socket {
			return
		}
	}
	r.errorf("cooler is not compatible with processor socket %s", socket)
}

// checkCoolerClearance requires the cooler to fit the enclosure.
func checkCoolerClearance(p parts, r *report) {
	cooler, enc := p.get(catalog.CategoryCooler), p.get(catalog.CategoryEnclosure)
	if cooler == nil || enc == nil {
		return
	}
	height, ok := cooler.Specs.Number("height")
	maxHeight, okMax := enc.Specs.Number("max_cooler_height")
	if ok && okMax && height > maxHeight {
		r.errorf("cooler height %.0fmm exceeds the enclosure maximum of %.0fmm", height, maxHeight)
	}
}

// checkPowerBudget compares the power supply capacity against the
// estimated draw plus headroom.
func checkPowerBudget(p parts, r *report) {
	psu := p.get(catalog.CategoryPowerSupply)
	if psu == nil {
		return
	}
	wattage, ok := psu.Specs.Number("wattage")
	if !ok {
		return
	}
	draw := estimatedDraw(p)
	recommended := draw * headroomFactor
	if wattage < draw {
		r.errorf("power supply capacity %.0fW is insufficient for the estimated draw of %.0fW", wattage, draw)
	} else if wattage < recommended {
		r.errorf("power supply capacity %.0fW is too low; %.0fW recommended", wattage, recommended)
	}
}

// estimatedDraw sums the power draw of the processor, motherboard,
// memory and graphics parts plus the base overhead. Other parts are
// already covered by the overhead; counting their specs too would
// double-charge them.
func estimatedDraw(p parts) float64 {
	total := float64(baseOverheadWatts)
	for _, c := range catalog.DrawCategories {
		item := p.get(c)
		if item == nil {
			continue
		}
		if w, ok := item.PowerDraw(); ok {
			total += w
		}
	}
	return total
}
