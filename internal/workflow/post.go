package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamhuhhg/XActions/internal/compose"
	"github.com/hamhuhhg/XActions/internal/report"
)

// Post publishes a new standalone post from the home surface's composer,
// with optional media.
func (e *Engine) Post(ctx context.Context, text, mediaPath string) any {
	return e.guard("post", func() any {
		sess, err := e.open(ctx, false)
		if err != nil {
			return report.Failure(fmt.Sprintf("Failed to initialize browser: %v", err))
		}
		defer sess.Close()

		pg := sess.Page()
		ex := compose.NewExecutor(pg, e.log, e.tune.Compose)
		out, err := ex.Run(ctx, compose.ActionSpec{
			Text:            text,
			MediaPath:       mediaPath,
			TriggerComposer: true,
			InputCandidates: []string{compose.InputSelector},
			SubmitCandidates: []string{
				compose.SubmitModalSelector,
				compose.SubmitInlineSelector,
			},
		})
		if err != nil {
			if errors.Is(err, compose.ErrComposerNotFound) {
				return report.Failure("Failed to find tweet composer textarea.")
			}
			return report.Failure(fmt.Sprintf("Error during post: %v", err))
		}
		for _, diag := range out.Diagnostics {
			e.log.Warn().Str("diag", diag).Msg("post degraded")
		}

		res := compose.NewVerifier(pg, e.log).WithSettle(e.tune.VerifySettle).Verify(ctx, text)
		if !res.Succeeded {
			return report.Failure("Post button clicked, but text remains in composer. Post likely failed.")
		}
		return report.PostRecord{
			Success: true,
			Message: "Tweet posted successfully",
			TweetID: report.OptionalID(res.ResultID),
		}
	})
}
