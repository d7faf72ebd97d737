package main

import (
	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote an existing post with your own text",
	RunE: func(cmd *cobra.Command, args []string) error {
		rec := newEngine().Quote(cmd.Context(), flagTarget, flagText, flagMedia)
		return emit(rec)
	},
}

func init() {
	quoteCmd.Flags().StringVar(&flagTarget, "target", "", "target tweet URL to quote")
	quoteCmd.Flags().StringVar(&flagText, "text", "", "quote text")
	quoteCmd.Flags().StringVar(&flagMedia, "media", "", "path to an image to attach")
	_ = quoteCmd.MarkFlagRequired("target")
	_ = quoteCmd.MarkFlagRequired("text")
}
