// Package cli implements the potato command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"potato-classifier/internal/app"
	"potato-classifier/internal/config"
)

type rootOptions struct {
	endpoint  string
	timeoutMs int
	logLevel  string
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "potato",
		Short: "Classify potato images as fresh or rotten",
		Long: `potato sends a potato image to the remote classification service and reports
whether it looks fresh or rotten. Settings come from the environment (or a .env
file) and can be overridden with flags.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.endpoint, "endpoint", "", "Prediction service base URL (overrides PREDICT_API_BASE_URL)")
	cmd.PersistentFlags().IntVar(&opts.timeoutMs, "timeout", 0, "Prediction timeout in milliseconds (overrides PREDICT_TIMEOUT_MS)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	cmd.AddCommand(
		newClassifyCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// load merges flags over the environment configuration.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.PredictAPIBaseURL = o.endpoint
	}
	if flags.Changed("timeout") {
		cfg.PredictTimeoutMs = o.timeoutMs
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, app.NewLogger(os.Stderr, cfg.SlogLevel()), nil
}
