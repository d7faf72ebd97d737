package main

import (
	"github.com/spf13/cobra"
)

var replyCmd = &cobra.Command{
	Use:   "reply",
	Short: "Reply to an existing post",
	RunE: func(cmd *cobra.Command, args []string) error {
		rec := newEngine().Reply(cmd.Context(), flagTarget, flagText, flagMedia)
		return emit(rec)
	},
}

func init() {
	replyCmd.Flags().StringVar(&flagTarget, "target", "", "target tweet URL")
	replyCmd.Flags().StringVar(&flagText, "text", "", "reply text")
	replyCmd.Flags().StringVar(&flagMedia, "media", "", "path to an image to attach")
	_ = replyCmd.MarkFlagRequired("target")
	_ = replyCmd.MarkFlagRequired("text")
}
