package cli

import (
	"github.com/spf13/cobra"
	"potato-classifier/internal/app"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP presenter for one local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			a := app.New(cfg, logger)
			defer a.Close()
			return a.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")
	return cmd
}
