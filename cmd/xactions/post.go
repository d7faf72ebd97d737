package main

import (
	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Publish a new post, optionally with an image",
	RunE: func(cmd *cobra.Command, args []string) error {
		rec := newEngine().Post(cmd.Context(), flagText, flagMedia)
		return emit(rec)
	},
}

func init() {
	postCmd.Flags().StringVar(&flagText, "text", "", "text to post")
	postCmd.Flags().StringVar(&flagMedia, "media", "", "path to an image to attach")
	_ = postCmd.MarkFlagRequired("text")
}
