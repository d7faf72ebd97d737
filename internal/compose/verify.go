package compose

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hamhuhhg/XActions/internal/browser"
	"github.com/hamhuhhg/XActions/internal/locate"
)

// ActionResult is the verifier's verdict on a submitted action.
// Succeeded=false always carries a non-empty Diagnostic.
type ActionResult struct {
	Succeeded  bool
	ResultID   string
	Diagnostic string
}

// Verifier decides post-submission whether the action actually took
// effect. The application gives no reliable synchronous confirmation, so
// a cleared (or gone) composer is the sole success signal.
type Verifier struct {
	pg         browser.Page
	log        zerolog.Logger
	settle     time.Duration
	candidates []string
}

const defaultVerifySettle = 4 * time.Second

func NewVerifier(pg browser.Page, log zerolog.Logger) *Verifier {
	return &Verifier{
		pg:         pg,
		log:        log,
		settle:     defaultVerifySettle,
		candidates: []string{InputSelector},
	}
}

// WithSettle overrides the post-submission settle interval.
func (v *Verifier) WithSettle(d time.Duration) *Verifier {
	v.settle = d
	return v
}

// WithCandidates sets the composer selectors to re-check; callers pass the
// same candidates they acquired the composer with, so a surface rendering
// only the aria-label variant is still inspected.
func (v *Verifier) WithCandidates(selectors ...string) *Verifier {
	if len(selectors) > 0 {
		v.candidates = selectors
	}
	return v
}

// Verify waits for the composer to close or reset, then checks whether the
// submitted text is still sitting in it. Result-identifier extraction is
// best effort; its absence never downgrades a success verdict.
func (v *Verifier) Verify(ctx context.Context, submittedText string) ActionResult {
	locate.Sleep(ctx, v.settle)

	for _, selector := range v.candidates {
		input, err := v.pg.Query(ctx, selector)
		if err != nil || input == nil {
			continue
		}
		// The DOM may keep the input around but empty; only the original
		// text still present means the post did not go through.
		current, terr := input.Text(ctx)
		if terr == nil && submittedText != "" && strings.Contains(current, submittedText) {
			return ActionResult{
				Succeeded:  false,
				Diagnostic: "submit invoked, but text remains in composer; action likely failed",
			}
		}
	}

	return ActionResult{Succeeded: true, ResultID: v.extractStatusID(ctx)}
}

// extractStatusID pulls the numeric status identifier from the transient
// confirmation toast, when one is present.
func (v *Verifier) extractStatusID(ctx context.Context) string {
	toast, err := v.pg.Query(ctx, ToastSelector)
	if err != nil || toast == nil {
		return ""
	}
	links, err := toast.QueryAll(ctx, StatusLinkSelector)
	if err != nil {
		return ""
	}
	for _, link := range links {
		href, herr := link.Attribute(ctx, "href")
		if herr != nil {
			continue
		}
		if id := StatusIDFromURL(href); id != "" {
			return id
		}
	}
	return ""
}

// StatusIDFromURL extracts the identifier segment following the status
// marker in a permalink: "/user/status/12345/photo/1" yields "12345".
func StatusIDFromURL(href string) string {
	const marker = "/status/"
	idx := strings.Index(href, marker)
	if idx < 0 {
		return ""
	}
	rest := href[idx+len(marker):]
	if cut := strings.IndexAny(rest, "/?#"); cut >= 0 {
		rest = rest[:cut]
	}
	return rest
}
