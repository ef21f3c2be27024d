package cli

import (
	"github.com/spf13/cobra"

	"github.com/propscope/propscope/internal/server"
)

// serveCommand runs the HTTP JSON API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP JSON API server",
		Long: `Serve the resolver and service lookups over HTTP.

The server exposes the same operations as the CLI under /v1 and shares
the in-process TTL cache across requests. It shuts down gracefully on
SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClients()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cl.cfg.ListenAddr
			}

			srv := server.New(c.Logger, cl.cache, cl.analytics, cl.search, cl.merchant, cl.resolver)
			return server.ListenAndServe(cmd.Context(), addr, srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to configuration)")
	return cmd
}
