// Package compose drives the application's post composer: opening it,
// entering text, attaching media and submitting through an ordered list of
// fallback strategies, then verifying whether the action took effect.
package compose

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hamhuhhg/XActions/internal/browser"
	"github.com/hamhuhhg/XActions/internal/locate"
)

// Composer markup. The testids are stable across redesigns so far; the
// aria-label is the fallback the reply surface sometimes renders instead.
const (
	InputSelector         = `[data-testid="tweetTextarea_0"]`
	InputAriaSelector     = `[aria-label="Post text"]`
	ComposeButtonSelector = `[data-testid="SideNav_NewTweet_Button"]`
	FileInputSelector     = `input[type="file"][accept*="image"]`
	ToastSelector         = `[data-testid="toast"]`
	StatusLinkSelector    = `a[href*="/status/"]`

	// Modal and inline composers label their submit control differently.
	SubmitModalSelector  = `[data-testid="tweetButton"]:not([disabled])`
	SubmitInlineSelector = `[data-testid="tweetButtonInline"]:not([disabled])`
)

// ErrComposerNotFound means the text input never appeared within budget.
// Callers may probe the page for an error surface before reporting.
var ErrComposerNotFound = errors.New("composer text input not found")

// ActionSpec describes one intended composer mutation.
type ActionSpec struct {
	// NavigateURL opens a page before acting; empty acts on the current one.
	NavigateURL string
	// NavSettle is the pause after navigation for initial hydration.
	NavSettle time.Duration

	Text string
	// QuoteURL, when set, is injected on its own line after Text so the
	// application parses it into an embedded preview card.
	QuoteURL string
	// MediaPath optionally attaches a local image; failure to attach is a
	// soft degradation, never fatal.
	MediaPath string

	// InputCandidates are the composer input selectors in preference order.
	InputCandidates []string
	// TriggerComposer opens the composer when no input is present, via the
	// new-post control or the keyboard shortcut fallback.
	TriggerComposer bool
	// SubmitCandidates are the enabled submit controls in preference order;
	// when none appears the raw Ctrl+Enter sequence is dispatched.
	SubmitCandidates []string
	// EnableNudge types a space and a backspace when the submit control
	// never enables, forcing the draft editor to re-validate.
	EnableNudge bool
}

// Tuning holds the executor's poll and settle intervals. Tests shrink them.
type Tuning struct {
	PollInterval  time.Duration
	InputMaxWait  time.Duration
	SubmitMaxWait time.Duration
	ComposerOpen  time.Duration
	Debounce      time.Duration
	AfterText     time.Duration
	UploadWait    time.Duration
	CardWait      time.Duration
}

// DefaultTuning mirrors the intervals the application empirically needs.
func DefaultTuning() Tuning {
	return Tuning{
		PollInterval:  500 * time.Millisecond,
		InputMaxWait:  10 * time.Second,
		SubmitMaxWait: 5 * time.Second,
		ComposerOpen:  2 * time.Second,
		Debounce:      300 * time.Millisecond,
		AfterText:     time.Second,
		UploadWait:    3 * time.Second,
		CardWait:      2 * time.Second,
	}
}

// Outcome reports non-fatal degradations that occurred during execution.
type Outcome struct {
	Diagnostics []string
}

type Executor struct {
	pg   browser.Page
	log  zerolog.Logger
	tune Tuning
}

func NewExecutor(pg browser.Page, log zerolog.Logger, tune Tuning) *Executor {
	return &Executor{pg: pg, log: log, tune: tune}
}

// Run performs the action. A failed composer acquisition or text entry
// aborts with an error; media degrades softly into Outcome.Diagnostics;
// submission cascades through strategies and fails only when all are
// exhausted.
func (e *Executor) Run(ctx context.Context, spec ActionSpec) (Outcome, error) {
	var out Outcome

	if spec.NavigateURL != "" {
		if err := e.pg.Navigate(ctx, spec.NavigateURL); err != nil {
			return out, fmt.Errorf("navigate %s: %w", spec.NavigateURL, err)
		}
		locate.Sleep(ctx, spec.NavSettle)
	}

	input, err := e.acquireComposer(ctx, spec)
	if err != nil {
		return out, err
	}

	if err := e.enterText(ctx, input, spec); err != nil {
		return out, fmt.Errorf("text entry: %w", err)
	}

	if spec.MediaPath != "" {
		if diag := e.attachMedia(ctx, spec.MediaPath); diag != "" {
			e.log.Warn().Str("diag", diag).Msg("media attach degraded")
			out.Diagnostics = append(out.Diagnostics, diag)
		}
	}

	if err := e.submit(ctx, input, spec); err != nil {
		return out, fmt.Errorf("submit: %w", err)
	}
	return out, nil
}

func (e *Executor) acquireComposer(ctx context.Context, spec ActionSpec) (browser.Element, error) {
	candidates := spec.InputCandidates
	if len(candidates) == 0 {
		candidates = []string{InputSelector}
	}

	probe := locate.NewSpec(candidates...).WithBudget(e.tune.PollInterval, e.tune.PollInterval)
	if input, ok := locate.Find(ctx, e.pg, probe); ok {
		return input, nil
	}

	if !spec.TriggerComposer {
		full := locate.NewSpec(candidates...).WithBudget(e.tune.PollInterval, e.tune.InputMaxWait)
		if input, ok := locate.Find(ctx, e.pg, full); ok {
			return input, nil
		}
		return nil, ErrComposerNotFound
	}

	// The sidebar control is themable and A/B-tested away on some variants;
	// the single-character shortcut opens the composer regardless.
	btn, err := e.pg.Query(ctx, ComposeButtonSelector)
	if err == nil && btn != nil {
		if err := btn.Click(ctx); err != nil {
			e.log.Debug().Err(err).Msg("compose button click failed, using shortcut")
			btn = nil
		}
	} else {
		btn = nil
	}
	if btn == nil {
		if err := e.pg.Press(ctx, "n"); err != nil {
			return nil, fmt.Errorf("compose shortcut: %w", err)
		}
	}
	locate.Sleep(ctx, e.tune.ComposerOpen)

	repoll := locate.NewSpec(candidates...).WithBudget(e.tune.PollInterval, e.tune.InputMaxWait)
	if input, ok := locate.Find(ctx, e.pg, repoll); ok {
		return input, nil
	}
	return nil, ErrComposerNotFound
}

func (e *Executor) enterText(ctx context.Context, input browser.Element, spec ActionSpec) error {
	if err := input.Click(ctx); err != nil {
		return fmt.Errorf("focus input: %w", err)
	}
	// The draft editor drops synthetic keystrokes arriving before its
	// focus debounce.
	locate.Sleep(ctx, e.tune.Debounce)

	if err := input.TypeText(ctx, spec.Text); err != nil {
		return fmt.Errorf("type payload: %w", err)
	}
	locate.Sleep(ctx, e.tune.AfterText)

	if spec.QuoteURL == "" {
		return nil
	}

	// Typing "\n" is unreliable against the rich-text editor; a raw Enter
	// key pair creates the line break.
	if err := e.pg.KeyDown(ctx, "Enter"); err != nil {
		return fmt.Errorf("newline keydown: %w", err)
	}
	if err := e.pg.KeyUp(ctx, "Enter"); err != nil {
		return fmt.Errorf("newline keyup: %w", err)
	}
	locate.Sleep(ctx, e.tune.Debounce)

	if err := input.TypeText(ctx, spec.QuoteURL); err != nil {
		return fmt.Errorf("type quote url: %w", err)
	}
	locate.Sleep(ctx, e.tune.Debounce)

	// The trailing space must be its own discrete keystroke; it is what
	// makes the application parse the URL into the preview card.
	if err := e.pg.Press(ctx, "Space"); err != nil {
		return fmt.Errorf("card space: %w", err)
	}
	locate.Sleep(ctx, e.tune.CardWait)
	return nil
}

// attachMedia returns a diagnostic string on failure; media is optional.
func (e *Executor) attachMedia(ctx context.Context, path string) string {
	fileInput, err := e.pg.Query(ctx, FileInputSelector)
	if err != nil || fileInput == nil {
		return "could not find file input for media"
	}
	if err := fileInput.UploadFile(ctx, path); err != nil {
		return fmt.Sprintf("failed to attach media: %v", err)
	}
	// The submit control stays disabled while the upload processes.
	locate.Sleep(ctx, e.tune.UploadWait)
	return ""
}

func (e *Executor) submit(ctx context.Context, input browser.Element, spec ActionSpec) error {
	candidates := spec.SubmitCandidates
	if len(candidates) == 0 {
		candidates = []string{SubmitModalSelector, SubmitInlineSelector}
	}

	poll := locate.NewSpec(candidates...).WithBudget(e.tune.PollInterval, e.tune.SubmitMaxWait)
	btn, ok := locate.Find(ctx, e.pg, poll)

	if !ok && spec.EnableNudge {
		// A space-then-backspace pair makes the editor re-validate the
		// draft and enable the button when plain typing did not.
		e.log.Debug().Msg("submit control disabled, nudging editor")
		_ = input.TypeText(ctx, " ")
		_ = e.pg.Press(ctx, "Backspace")
		locate.Sleep(ctx, e.tune.AfterText)
		renudge := locate.NewSpec(candidates...).WithBudget(e.tune.PollInterval, e.tune.SubmitMaxWait/2)
		btn, ok = locate.Find(ctx, e.pg, renudge)
	}

	if ok {
		err := btn.Click(ctx)
		if err == nil {
			return nil
		}
		e.log.Debug().Err(err).Msg("submit click failed, falling back to keyboard")
	} else {
		e.log.Info().Msg("submit control not found, attempting Ctrl+Enter fallback")
	}

	return e.keyboardSubmit(ctx)
}

// keyboardSubmit emulates the application's submit shortcut with raw key
// events in the exact order control-down, enter-down, enter-up, control-up.
func (e *Executor) keyboardSubmit(ctx context.Context) error {
	if err := e.pg.KeyDown(ctx, "Control"); err != nil {
		return fmt.Errorf("control down: %w", err)
	}
	if err := e.pg.KeyDown(ctx, "Enter"); err != nil {
		return fmt.Errorf("enter down: %w", err)
	}
	if err := e.pg.KeyUp(ctx, "Enter"); err != nil {
		return fmt.Errorf("enter up: %w", err)
	}
	if err := e.pg.KeyUp(ctx, "Control"); err != nil {
		return fmt.Errorf("control up: %w", err)
	}
	return nil
}
