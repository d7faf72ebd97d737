package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open an authenticated browser window and keep it alive",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := newEngine().Browse(cmd.Context())
		if errors.Is(err, context.Canceled) {
			// The user ending the session is the normal way out.
			return nil
		}
		return err
	},
}
