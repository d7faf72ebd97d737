package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamhuhhg/XActions/internal/compose"
	"github.com/hamhuhhg/XActions/internal/report"
)

// The target application swaps the whole timeline for this container when
// a status page cannot be rendered (deleted, protected).
const errorContainerSelector = ".errorContainer"

// Reply answers an existing post via its page's inline composer.
func (e *Engine) Reply(ctx context.Context, targetURL, text, mediaPath string) any {
	return e.guard("reply", func() any {
		sess, err := e.open(ctx, false)
		if err != nil {
			return report.Failure(fmt.Sprintf("Failed to initialize browser: %v", err))
		}
		defer sess.Close()

		pg := sess.Page()
		ex := compose.NewExecutor(pg, e.log, e.tune.Compose)
		out, err := ex.Run(ctx, compose.ActionSpec{
			NavigateURL: targetURL,
			NavSettle:   e.tune.ReplyNavSettle,
			Text:        text,
			MediaPath:   mediaPath,
			InputCandidates: []string{
				compose.InputSelector,
				compose.InputAriaSelector,
			},
			SubmitCandidates: []string{
				compose.SubmitInlineSelector,
				compose.SubmitModalSelector,
			},
			EnableNudge: true,
		})
		if err != nil {
			if errors.Is(err, compose.ErrComposerNotFound) {
				// Distinguish a dead status page from plain rendering
				// trouble before reporting.
				if el, qerr := pg.Query(ctx, errorContainerSelector); qerr == nil && el != nil {
					return report.Failure("Target tweet exists but is an error page (e.g. deleted or protected).")
				}
				return report.Failure("Failed to find reply textarea on target tweet page.")
			}
			return report.Failure(fmt.Sprintf("Error during reply: %v", err))
		}
		for _, diag := range out.Diagnostics {
			e.log.Warn().Str("diag", diag).Msg("reply degraded")
		}

		res := compose.NewVerifier(pg, e.log).
			WithSettle(e.tune.VerifySettle).
			WithCandidates(compose.InputSelector, compose.InputAriaSelector).
			Verify(ctx, text)
		if !res.Succeeded {
			return report.Failure("Reply button clicked, but text remained in composer. Reply likely failed.")
		}
		return report.ReplyRecord{
			Success: true,
			Message: "Reply posted successfully",
			ReplyID: report.OptionalID(res.ResultID),
		}
	})
}
