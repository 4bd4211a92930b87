package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	honeybadger "github.com/your-org/roadrunner-honeybadger"
)

var (
	flagAPIKey     string
	flagConfigFile string
	flagTimeout    time.Duration
)

func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Send a test notice to verify the configuration",
		Long: `Send a test notice to verify the configuration.

Settings are read from the config file first, then from the
HONEYBADGER_* environment variables. Reporting is forced on.

Examples:
  # Use the environment
  HONEYBADGER_API_KEY=abcd1234 honeybadger test

  # Use a config file and a custom timeout
  honeybadger test --config .honeybadger.yaml --timeout 5s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendTestNotice(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&flagAPIKey, "api-key", "k", "", "Project API key (overrides config and environment)")
	cmd.Flags().StringVarP(&flagConfigFile, "config", "c", "", "Path to a YAML config file")
	cmd.Flags().DurationVarP(&flagTimeout, "timeout", "t", 10*time.Second, "Request timeout")

	return cmd
}

func sendTestNotice(ctx context.Context) error {
	store := honeybadger.NewConfigStore()

	if flagConfigFile != "" {
		fileCfg, err := honeybadger.LoadConfigFile(flagConfigFile)
		if err != nil {
			return err
		}
		store.Configure(func(cfg *honeybadger.Config) {
			cfg.Merge(fileCfg)
		})
	}
	store.ConfigureFromEnv()
	store.Configure(func(cfg *honeybadger.Config) {
		if flagAPIKey != "" {
			cfg.APIKey = honeybadger.String(flagAPIKey)
		}
		cfg.ReportData = honeybadger.Bool(true)
	})

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	transport := honeybadger.NewHTTPTransport(&honeybadger.TransportConfig{Timeout: flagTimeout}, logger)
	defer transport.Close()

	notifier := honeybadger.New(
		honeybadger.WithConfigStore(store),
		honeybadger.WithSender(transport),
		honeybadger.WithLogger(logger),
	)

	endpoint := honeybadger.ResolveEndpoint(store.Read().Connection)
	fmt.Printf("Sending test notice to %s\n", endpoint.NoticesURL())

	id, err := notifier.NotifyContext(ctx, fmt.Errorf("test notice from honeybadger %s", honeybadger.Version),
		honeybadger.WithTags("test"))
	if err != nil {
		return fmt.Errorf("test notice failed (%s): %w", honeybadger.CodeOf(err), err)
	}

	fmt.Printf("Notice accepted: %s\n", id)
	return nil
}
