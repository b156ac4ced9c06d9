// Package compat - Compatibility gate
package compat

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"pc-builder/core/selection"
	"pc-builder/internal/logging"
)

// Validator is the external compatibility collaborator. It receives the
// entire current selection, including empty slots, because
// cross-category rules (socket match, wattage headroom, physical
// clearance) need the full set.
type Validator interface {
	Validate(ctx context.Context, sel selection.Selection) (Verdict, error)
}

// Gate sends selections to a Validator and applies verdicts in the
// order their triggering selections were made. Each request carries a
// monotonically increasing sequence number; a response whose sequence
// number is lower than the highest already applied is discarded, so a
// stale in-flight response can never overwrite a newer verdict.
type Gate struct {
	validator Validator

	mu      sync.Mutex
	issued  uint64
	applied uint64
	last    *Verdict
}

// NewGate creates a gate over a validator.
func NewGate(v Validator) *Gate {
	return &Gate{validator: v}
}

// Begin claims the next sequence number. Callers must claim it
// synchronously at mutation time, before handing the evaluation to a
// goroutine: ordering then follows the order the selections were made,
// not goroutine scheduling.
func (g *Gate) Begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	return g.issued
}

// Evaluate sends the selection to the validator and applies the result
// under the sequence number claimed by Begin. A transport or server
// failure yields the non-blocking unavailable verdict rather than an
// error, so the user is never blocked by a transient fault. The
// returned bool reports whether the verdict was applied or superseded.
func (g *Gate) Evaluate(ctx context.Context, seq uint64, sel selection.Selection) (Verdict, bool) {
	verdict, err := g.validator.Validate(ctx, sel)
	if err != nil {
		logging.Warn("compatibility validation unavailable",
			zap.Uint64("seq", seq),
			zap.Error(err))
		verdict = Unavailable()
	}

	return verdict, g.apply(seq, verdict)
}

func (g *Gate) apply(seq uint64, v Verdict) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq < g.applied {
		logging.Debug("discarding superseded verdict",
			zap.Uint64("seq", seq),
			zap.Uint64("applied", g.applied))
		return false
	}
	g.applied = seq
	g.last = &v
	return true
}

// LastVerdict returns the most recently applied verdict, or nil if no
// evaluation has completed yet.
func (g *Gate) LastVerdict() *Verdict {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil {
		return nil
	}
	v := *g.last
	return &v
}

// Pending reports whether a request newer than the last applied verdict
// is still in flight, the transient display state shown while a check
// is outstanding.
func (g *Gate) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.applied < g.issued
}

// Reset forgets the applied verdict, used when the selection is wiped.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = nil
}
