// Package workflow wires the engine components into the five invocable
// flows: check, post, reply, quote and browse. Each flow owns exactly one
// session, guarantees its teardown, and reduces every failure to the
// single structured record the caller parses.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hamhuhhg/XActions/internal/browser"
	"github.com/hamhuhhg/XActions/internal/compose"
	"github.com/hamhuhhg/XActions/internal/report"
)

// Session is the slice of session.Session the workflows consume; tests
// substitute a fake.
type Session interface {
	Page() browser.Page
	BaseURL() string
	Close()
}

// Opener establishes an authenticated session. The credential is bound by
// the caller; workflows only choose headless or headed.
type Opener func(ctx context.Context, headless bool) (Session, error)

// Tuning collects the flow-level settle intervals on top of the composer
// tuning. Defaults mirror what the application empirically needs; tests
// shrink everything.
type Tuning struct {
	Compose compose.Tuning
	// VerifySettle is the pause before the post-submission composer check.
	VerifySettle time.Duration
	// HomeSettle is the extra wait before classifying the home surface.
	HomeSettle time.Duration
	// ProfileSettle is the wait after navigating to the profile surface.
	ProfileSettle time.Duration
	// ReplyNavSettle and QuoteNavSettle pause after landing on the target
	// tweet and the compose intent page respectively.
	ReplyNavSettle time.Duration
	QuoteNavSettle time.Duration
	// BrowseWake is the idle-loop period of the keep-alive mode.
	BrowseWake time.Duration
}

func DefaultTuning() Tuning {
	return Tuning{
		Compose:        compose.DefaultTuning(),
		VerifySettle:   4 * time.Second,
		HomeSettle:     3 * time.Second,
		ProfileSettle:  5 * time.Second,
		ReplyNavSettle: 2 * time.Second,
		QuoteNavSettle: 4 * time.Second,
		BrowseWake:     60 * time.Second,
	}
}

// Engine runs workflows over sessions produced by its opener.
type Engine struct {
	open Opener
	log  zerolog.Logger
	tune Tuning
}

func New(open Opener, log zerolog.Logger) *Engine {
	return &Engine{open: open, log: log, tune: DefaultTuning()}
}

// WithTuning overrides the default intervals.
func (e *Engine) WithTuning(t Tuning) *Engine {
	e.tune = t
	return e
}

// guard is the outermost workflow boundary: any escaped panic from the
// underlying driver converts into the standard failure record instead of
// crashing without a report.
func (e *Engine) guard(name string, fn func() any) (rec any) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("workflow", name).Interface("panic", r).Msg("workflow panicked")
			rec = report.Failure(fmt.Sprintf("Error during %s: %v", name, r))
		}
	}()
	return fn()
}
