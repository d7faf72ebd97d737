package workflow

import (
	"context"
	"fmt"

	"github.com/hamhuhhg/XActions/internal/locate"
)

// Browse opens an authenticated headed session for the user and keeps the
// process alive indefinitely. This is the one flow that deliberately does
// NOT tear its session down: the whole point is leaving the window open,
// so shutdown belongs to the user or an external signal. The idle loop is
// a coarse periodic wake performing no work; it is not a retry loop.
func (e *Engine) Browse(ctx context.Context) error {
	sess, err := e.open(ctx, false)
	if err != nil {
		return fmt.Errorf("launch safe browser: %w", err)
	}

	e.log.Info().Msg("browser session started successfully, keeping alive")
	for {
		if !locate.Sleep(ctx, e.tune.BrowseWake) {
			// External cancellation is the expected way out; the browser
			// stays up until its process owner decides otherwise.
			sess.Close()
			return ctx.Err()
		}
	}
}
