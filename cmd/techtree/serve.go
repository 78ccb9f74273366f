package main

import (
	"os"
	"os/signal"
	"syscall"

	"techtree-backend/interfaces/http/server"

	"github.com/spf13/cobra"
)

func serveCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			container, cleanup, err := root.loadContainer(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			defer container.Logger.Sync() //nolint:errcheck

			if addr != "" {
				container.Config.ServerAddress = addr
			}
			return server.Run(ctx, container)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overriding SERVER_ADDRESS")
	return cmd
}
