// Package classify yields a coarse account-state verdict from observable
// page state: the current URL and the visible body text.
package classify

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hamhuhhg/XActions/internal/browser"
)

// Verdict is the tri-state account classification.
type Verdict int

const (
	Normal Verdict = iota
	Suspended
	Nonexistent
)

func (v Verdict) String() string {
	switch v {
	case Suspended:
		return "suspended"
	case Nonexistent:
		return "nonexistent"
	default:
		return "normal"
	}
}

// Result carries the verdict plus the raw matched keyword for diagnostics.
// Matched is empty for Normal and for the URL-redirect short circuit.
type Result struct {
	Verdict Verdict
	Matched string
}

// SurfaceScan reports both keyword sets independently; a page can match
// both. Callers wanting a single verdict take Suspended first.
type SurfaceScan struct {
	Suspended        bool
	SuspendedMatch   string
	Nonexistent      bool
	NonexistentMatch string
}

// Options controls one classification pass.
type Options struct {
	// CheckURLRedirect compares the current URL against the account-access
	// wall the application redirects locked accounts to.
	CheckURLRedirect bool
}

// Locked accounts are bounced to the access wall on either legacy or
// current host.
var redirectMarkers = []string{
	"twitter.com/account/access",
	"x.com/account/access",
}

type Classifier struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Classifier {
	return &Classifier{log: log}
}

// Inspect scans the current page against both keyword sets.
func (c *Classifier) Inspect(ctx context.Context, pg browser.Page, opts Options) SurfaceScan {
	if opts.CheckURLRedirect {
		url := pg.URL()
		for _, marker := range redirectMarkers {
			if strings.Contains(url, marker) {
				c.log.Info().Str("url", url).Msg("account access redirect detected")
				return SurfaceScan{Suspended: true}
			}
		}
	}

	body, err := pg.BodyText(ctx)
	if err != nil {
		// An unreadable body is indistinguishable from an empty one here;
		// the caller's second surface pass still gets its chance.
		c.log.Debug().Err(err).Msg("body text read failed")
		return SurfaceScan{}
	}
	scan := ScanSurface(body)
	if scan.Suspended || scan.Nonexistent {
		c.log.Info().
			Str("suspended", scan.SuspendedMatch).
			Str("nonexistent", scan.NonexistentMatch).
			Msg("keyword match")
	}
	return scan
}

// ScanSurface runs both keyword scans over raw page text. Scans are
// case-sensitive substring containment in table order; first match in
// each set is recorded.
func ScanSurface(body string) SurfaceScan {
	var scan SurfaceScan
	for _, kw := range suspensionKeywords {
		if strings.Contains(body, kw.Phrase) {
			scan.Suspended = true
			scan.SuspendedMatch = kw.Phrase
			break
		}
	}
	for _, kw := range nonexistenceKeywords {
		if strings.Contains(body, kw.Phrase) {
			scan.Nonexistent = true
			scan.NonexistentMatch = kw.Phrase
			break
		}
	}
	return scan
}

// Result reduces the scan with suspended-first precedence.
func (s SurfaceScan) Result() Result {
	switch {
	case s.Suspended:
		return Result{Verdict: Suspended, Matched: s.SuspendedMatch}
	case s.Nonexistent:
		return Result{Verdict: Nonexistent, Matched: s.NonexistentMatch}
	default:
		return Result{Verdict: Normal}
	}
}
