package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "honeybadger",
	Short: "Honeybadger notifier tools",
}

func main() {
	rootCmd.AddCommand(NewCmdTest())
	rootCmd.AddCommand(NewCmdBacktrace())
	rootCmd.AddCommand(NewCmdVersion())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
