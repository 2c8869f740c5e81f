package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonviz/internal/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

The server uses the cache and diagram store from the configuration
([cache] and [store] tables) and shuts down gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := c.cfg.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	srv := server.New(server.Config{
		Addr:         c.cfg.Server.Addr,
		ReadTimeout:  c.cfg.Server.ReadTimeout.Duration,
		WriteTimeout: c.cfg.Server.WriteTimeout.Duration,
		MaxBodyBytes: c.cfg.Layout.MaxInputSize,
		StoreTTL:     c.cfg.Store.TTL.Duration,
		Defaults:     c.cfg.PipelineOptions(),
	}, runner, st, c.Logger)

	p := c.out()
	p.info("Serving on %s", c.cfg.Server.Addr)
	p.detail("cache: %s · store: %s", c.cfg.Cache.Backend, c.cfg.Store.Backend)

	return srv.ListenAndServe(ctx)
}
