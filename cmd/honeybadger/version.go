package main

import (
	"fmt"

	"github.com/spf13/cobra"

	honeybadger "github.com/your-org/roadrunner-honeybadger"
)

func NewCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the notifier version and user agent",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), honeybadger.Version)
			fmt.Fprintln(cmd.OutOrStdout(), honeybadger.UserAgent())
		},
	}
}
