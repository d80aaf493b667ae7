package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/libscout/libscout/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the discovery HTTP API",
		Long: `Serve the discovery API over HTTP.

Endpoints:
  GET /api/v1/search?q=...     search for libraries
  GET /api/v1/packages/{owner}/{repo}
  GET /api/v1/categories
  GET /api/v1/stats
  GET /healthz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Addr
			}

			svc, err := c.newService()
			if err != nil {
				return err
			}

			srv := server.New(addr, svc, c.Logger)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				c.Logger.Info("shutting down")
				return srv.Shutdown(context.Background())
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}
