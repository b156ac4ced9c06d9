// Package compat - Compatibility verdicts and the gate that applies them
package compat

import (
	"github.com/shopspring/decimal"
)

// Status is the outcome of a compatibility evaluation.
type Status string

const (
	// StatusCompatible means every cross-category rule passed
	StatusCompatible Status = "compatible"

	// StatusIncompatible means at least one rule failed; forward
	// navigation is blocked
	StatusIncompatible Status = "incompatible"

	// StatusUnavailable means the validation collaborator could not be
	// reached. Distinct from incompatible: a transient network fault
	// must not block the user, but the build also must not be reported
	// as positively compatible.
	StatusUnavailable Status = "unavailable"
)

// Verdict is the result of one cross-category rule evaluation. Verdicts
// are transient: recomputed after every mutation, never stored.
type Verdict struct {
	Status   Status
	Errors   []string
	Warnings []string

	// TotalPrice and TotalWattage are aggregated by the validator when
	// it can resolve the selection; HasTotals reports whether they were
	// supplied.
	TotalPrice   decimal.Decimal
	TotalWattage float64
	HasTotals    bool
}

// Blocks reports whether the verdict blocks forward navigation. Only a
// positive incompatibility blocks; an unavailable verdict fails open.
func (v Verdict) Blocks() bool {
	return v.Status == StatusIncompatible
}

// Unavailable builds the non-blocking verdict used when the validation
// service cannot be reached.
func Unavailable() Verdict {
	return Verdict{
		Status:   StatusUnavailable,
		Warnings: []string{"compatibility check temporarily unavailable"},
	}
}

// VerdictWire is the JSON contract shared with the validation service.
// Optional fields may be absent; decoders must tolerate that.
type VerdictWire struct {
	Compatible   bool     `json:"compatible"`
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
	TotalPrice   *float64 `json:"total_price,omitempty"`
	TotalWattage *float64 `json:"total_wattage,omitempty"`
}

// Wire converts a verdict to its JSON contract form. An unavailable
// verdict has no wire form; it only exists on the consuming side.
func (v Verdict) Wire() VerdictWire {
	w := VerdictWire{
		Compatible: v.Status == StatusCompatible,
		Errors:     append([]string{}, v.Errors...),
		Warnings:   append([]string{}, v.Warnings...),
	}
	if v.HasTotals {
		price, _ := v.TotalPrice.Float64()
		wattage := v.TotalWattage
		w.TotalPrice = &price
		w.TotalWattage = &wattage
	}
	return w
}

// FromWire converts a decoded service response to a verdict.
func FromWire(w VerdictWire) Verdict {
	v := Verdict{
		Status:   StatusIncompatible,
		Errors:   w.Errors,
		Warnings: w.Warnings,
	}
	if w.Compatible {
		v.Status = StatusCompatible
	}
	if w.TotalPrice != nil {
		v.TotalPrice = decimal.NewFromFloat(*w.TotalPrice)
		v.HasTotals = true
	}
	if w.TotalWattage != nil {
		v.TotalWattage = *w.TotalWattage
	}
	return v
}
