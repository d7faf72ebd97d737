package main

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the account is suspended or nonexistent",
	RunE: func(cmd *cobra.Command, args []string) error {
		rec := newEngine().Check(cmd.Context(), flagUser)
		return emit(rec)
	},
}

func init() {
	checkCmd.Flags().StringVar(&flagUser, "username", "", "username to check (leading @ is stripped)")
	_ = checkCmd.MarkFlagRequired("username")
}
