package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tempo/internal/db"
	"github.com/balkashynov/tempo/internal/mcpserver"
	"github.com/balkashynov/tempo/internal/server"
	"github.com/balkashynov/tempo/internal/telemetry"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		Long: `Serve the JSON HTTP API until interrupted. Traces are exported when
otel_endpoint is configured.`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().String("addr", "", "listen address (default :8080)")

	cmd.RunE = withStore(a, func(cmd *cobra.Command, _ []string, store *db.Store) error {
		ctx := cmd.Context()

		shutdown, err := telemetry.Setup(ctx, a.cfg.OTelEndpoint, telemetry.ServiceName)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				a.log.Warn("telemetry shutdown failed", "error", err)
			}
		}()

		return server.New(store, a.log).Run(ctx, server.Options{
			Addr:         a.cfg.Addr,
			ReadTimeout:  a.cfg.ReadTimeout,
			WriteTimeout: a.cfg.WriteTimeout,
		})
	})
	return cmd
}

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve tracker tools to an MCP client over stdio",
		Args:  cobra.NoArgs,
		RunE: withStore(a, func(cmd *cobra.Command, _ []string, store *db.Store) error {
			return mcpserver.New(store, version, a.log).Run(cmd.Context())
		}),
	}
}
