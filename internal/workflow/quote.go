package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamhuhhg/XActions/internal/compose"
	"github.com/hamhuhhg/XActions/internal/report"
)

// Quote publishes a post embedding another one. The compose intent page is
// the robust path: the application turns the quoted URL into a preview
// card when the draft is posted, so no per-tweet quote control is needed.
func (e *Engine) Quote(ctx context.Context, targetURL, text, mediaPath string) any {
	return e.guard("quote", func() any {
		sess, err := e.open(ctx, false)
		if err != nil {
			return report.Failure(fmt.Sprintf("Failed to initialize browser: %v", err))
		}
		defer sess.Close()

		pg := sess.Page()
		ex := compose.NewExecutor(pg, e.log, e.tune.Compose)
		out, err := ex.Run(ctx, compose.ActionSpec{
			NavigateURL:     sess.BaseURL() + "/compose/tweet",
			NavSettle:       e.tune.QuoteNavSettle,
			Text:            text,
			QuoteURL:        targetURL,
			MediaPath:       mediaPath,
			InputCandidates: []string{compose.InputSelector},
			SubmitCandidates: []string{
				compose.SubmitModalSelector,
				compose.SubmitInlineSelector,
			},
		})
		if err != nil {
			if errors.Is(err, compose.ErrComposerNotFound) {
				return report.Failure("Failed to find quote composer textarea after intent navigation.")
			}
			return report.Failure(fmt.Sprintf("Error during quote: %v", err))
		}
		for _, diag := range out.Diagnostics {
			e.log.Warn().Str("diag", diag).Msg("quote degraded")
		}

		res := compose.NewVerifier(pg, e.log).WithSettle(e.tune.VerifySettle).Verify(ctx, text)
		if !res.Succeeded {
			return report.Failure("Quote composer remained open with text. Quote likely failed.")
		}
		return report.QuoteRecord{
			Success: true,
			Message: "Quote posted successfully",
			QuoteID: report.OptionalID(res.ResultID),
		}
	})
}
