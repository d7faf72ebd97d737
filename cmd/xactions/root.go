package main

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hamhuhhg/XActions/internal/report"
	"github.com/hamhuhhg/XActions/internal/session"
	"github.com/hamhuhhg/XActions/internal/workflow"
)

const baseURLEnv = "XACTIONS_BASE_URL"

var (
	flagToken  string
	flagText   string
	flagTarget string
	flagMedia  string
	flagUser   string
)

var rootCmd = &cobra.Command{
	Use:           "xactions",
	Short:         "Automates an authenticated X session: state checks and composer actions",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "auth_token session credential (required)")
	_ = rootCmd.MarkPersistentFlagRequired("token")

	rootCmd.AddCommand(checkCmd, postCmd, replyCmd, quoteCmd, browseCmd)
}

// newEngine binds the credential and base origin into a session opener.
// Workflows only pick headless or headed.
func newEngine() *workflow.Engine {
	base := strings.TrimSpace(os.Getenv(baseURLEnv))
	open := func(ctx context.Context, headless bool) (workflow.Session, error) {
		cfg := session.Config{BaseURL: base, Headless: headless}
		return session.Open(ctx, cfg, flagToken, compLogger("session"))
	}
	return workflow.New(open, compLogger("workflow"))
}

func compLogger(name string) zerolog.Logger {
	return log.With().Str("comp", name).Logger()
}

// emit writes the one structured record this invocation owes its caller.
func emit(record any) error {
	return report.NewEmitter(os.Stdout).Emit(record)
}
