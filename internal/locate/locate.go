// Package locate implements bounded polling for asynchronously rendered
// page elements. The target application re-renders under latency and A/B
// markup variants, so every lookup carries an ordered list of selector
// candidates and a retry budget instead of a single selector.
package locate

import (
	"context"
	"time"

	"github.com/hamhuhhg/XActions/internal/browser"
)

const (
	DefaultInterval = 500 * time.Millisecond
	DefaultMaxWait  = 5 * time.Second
)

// Spec describes one bounded lookup: candidates are tried in declared order
// on every iteration and the first non-nil match wins.
type Spec struct {
	Candidates []string
	Interval   time.Duration
	MaxWait    time.Duration
}

func NewSpec(candidates ...string) Spec {
	return Spec{
		Candidates: candidates,
		Interval:   DefaultInterval,
		MaxWait:    DefaultMaxWait,
	}
}

// WithBudget returns a copy of the spec with the given poll budget.
func (s Spec) WithBudget(interval, maxWait time.Duration) Spec {
	s.Interval = interval
	s.MaxWait = maxWait
	return s
}

// Attempts is the iteration budget: ceil(MaxWait / Interval), at least one.
func (s Spec) Attempts() int {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	maxWait := s.MaxWait
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	n := int((maxWait + interval - 1) / interval)
	if n < 1 {
		n = 1
	}
	return n
}

// Find polls the page for the spec's candidates. Absence is a value, not an
// error: exhausting the budget returns (nil, false) and the caller decides
// its own fallback. Query errors (transient DOM detachment, mid-render
// churn) count as "no match this iteration" and are swallowed.
func Find(ctx context.Context, pg browser.Page, spec Spec) (browser.Element, bool) {
	interval := spec.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	attempts := spec.Attempts()
	for i := 0; i < attempts; i++ {
		for _, selector := range spec.Candidates {
			el, err := pg.Query(ctx, selector)
			if err != nil {
				continue
			}
			if el != nil {
				return el, true
			}
		}
		if !sleep(ctx, interval) {
			return nil, false
		}
	}
	return nil, false
}

// sleep suspends cooperatively; returns false when the context ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Sleep is the shared cooperative pause used by the executor and verifier
// for settle intervals; it never busy-spins.
func Sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	return sleep(ctx, d)
}
