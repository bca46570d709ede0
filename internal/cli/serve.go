package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phylo/internal/server"
	"github.com/matzehuels/phylo/pkg/cache"
	"github.com/matzehuels/phylo/pkg/pipeline"
)

// apiKeyPrefix scopes server cache entries away from CLI entries when both
// share a backend.
const apiKeyPrefix = "api:"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Start the HTTP API. Results are cached in Redis when cache.redis_addr is
configured (or PHYLO_REDIS_ADDR is set) and in the file cache otherwise.`,
		Example: `  phylo serve --addr :9000
  PHYLO_REDIS_ADDR=localhost:6379 phylo serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			cc, err := c.newServerCache(ctx)
			if err != nil {
				return err
			}
			defer cc.Close()

			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, apiKeyPrefix), c.Logger)
			runner.TTL = c.cfg.Cache.TTL.Duration

			srv := server.New(runner, c.Logger, server.Options{
				Timeout:      c.cfg.Server.Timeout.Duration,
				MaxBodyBytes: c.cfg.Server.MaxBodyBytes,
			})
			printInfo("Listening on %s", StyleValue.Render(addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

// newServerCache connects to Redis when configured, falling back to the
// file cache.
func (c *CLI) newServerCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache || c.cfg.Cache.Disabled || c.cfg.Cache.RedisAddr == "" {
		return c.newCache()
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
		Addr:     c.cfg.Cache.RedisAddr,
		Password: c.cfg.Cache.RedisPassword,
	})
	if err != nil {
		if !cache.IsRetryable(err) {
			return nil, err
		}
		printWarning("Redis unavailable, using the file cache")
		printDetail("%v", err)
		return c.newCache()
	}
	c.Logger.Info("using redis cache", "addr", c.cfg.Cache.RedisAddr)
	return rc, nil
}
