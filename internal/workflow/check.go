package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/hamhuhhg/XActions/internal/classify"
	"github.com/hamhuhhg/XActions/internal/locate"
	"github.com/hamhuhhg/XActions/internal/report"
)

// Check classifies the account's state on two surfaces. The home feed
// catches account-wide suspension walls (including the access-wall
// redirect); the profile page catches profile-only restrictions and
// nonexistence. The two surfaces can disagree, so both run every time.
func (e *Engine) Check(ctx context.Context, username string) any {
	return e.guard("check", func() any {
		username = strings.TrimPrefix(strings.TrimSpace(username), "@")

		sess, err := e.open(ctx, true)
		if err != nil {
			return report.Failure(fmt.Sprintf("Failed to initialize browser: %v", err))
		}
		defer sess.Close()

		pg := sess.Page()
		cls := classify.New(e.log)

		locate.Sleep(ctx, e.tune.HomeSettle)
		home := cls.Inspect(ctx, pg, classify.Options{CheckURLRedirect: true})
		if home.Suspended {
			e.log.Info().Str("username", username).Str("match", home.SuspendedMatch).Msg("home surface flagged suspension")
			return report.CheckRecord{Success: true, Username: username, IsSuspended: true}
		}

		profileURL := sess.BaseURL() + "/" + username
		if err := pg.Navigate(ctx, profileURL); err != nil {
			return report.Failure(fmt.Sprintf("Failed to open profile page: %v", err))
		}
		locate.Sleep(ctx, e.tune.ProfileSettle)

		profile := cls.Inspect(ctx, pg, classify.Options{})
		e.log.Info().
			Str("username", username).
			Bool("suspended", profile.Suspended).
			Bool("nonexistent", profile.Nonexistent).
			Msg("profile surface scanned")

		return report.CheckRecord{
			Success:      true,
			Username:     username,
			IsSuspended:  profile.Suspended,
			DoesNotExist: profile.Nonexistent,
		}
	})
}
