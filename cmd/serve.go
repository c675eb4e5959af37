package cmd

import (
	"github.com/keepr/mediakit/internal/api"
	"github.com/spf13/cobra"
)

func newServeCmd(app *application) *cobra.Command {
	var hostAddr string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve link extraction over HTTP until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := app.config.API
			if hostAddr != "" {
				config.HostAddr = hostAddr
			}

			gateway := api.NewRestGateway(&config, app.newExtractor(app.config.Instagram))
			return gateway.Run(cmd.Context())
		},
	}

	serveCmd.Flags().StringVar(&hostAddr, "addr", "", "listen address, overriding the configured host address")
	return serveCmd
}
