package main

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	honeybadger "github.com/your-org/roadrunner-honeybadger"
)

var (
	flagNoTrim   bool
	flagNoSource bool
)

func NewCmdBacktrace() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backtrace [file]",
		Short: "Parse a stack trace into notice backtrace entries",
		Long: `Parse a stack trace into the backtrace entries a notice would carry.

The trace is read from the given file or from stdin and printed as JSON.

Examples:
  # Parse a crash log
  honeybadger backtrace crash.log

  # Keep the panic plumbing frames
  go test ./... 2>&1 | honeybadger backtrace --no-trim`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open trace: %w", err)
				}
				defer f.Close()
				in = f
			}
			return printBacktrace(in, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&flagNoTrim, "no-trim", false, "Keep panic and capture frames")
	cmd.Flags().BoolVar(&flagNoSource, "no-source", false, "Do not attach source lines")

	return cmd
}

func printBacktrace(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read trace: %w", err)
	}

	lines := honeybadger.ParseBacktrace(string(data))
	if !flagNoTrim {
		lines = honeybadger.TrimBacktrace(lines, honeybadger.DefaultTrimPrefixes)
	}

	entries := honeybadger.DecorateBacktrace(lines)
	if flagNoSource {
		for i := range entries {
			entries[i].Source = nil
		}
	}

	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
