package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/franzenjb/fourcolor/pkg/cache"
	"github.com/franzenjb/fourcolor/pkg/server"
	"github.com/franzenjb/fourcolor/pkg/session"
)

// cleanupInterval is how often the server purges expired sessions.
const cleanupInterval = time.Hour

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		memory  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the JSON HTTP API. Each session owns a coloring engine with undo/redo
history. Sessions are persisted to the configured store (file or mongo)
unless --memory is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, memory, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&memory, "memory", false, "keep sessions in memory only")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, memory, noCache bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()
	if rc, ok := runner.Cache.(*cache.RedisCache); ok {
		if err := rc.Ping(ctx); err != nil {
			c.Logger.Warn("Redis cache unreachable, results will be recomputed", "error", err)
		}
	}

	var store session.Store
	if !memory {
		store, err = c.newStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		go cleanupLoop(ctx, c, store)
		c.Logger.Info("Session store ready", "backend", cfg.Session.Backend)
	}

	srv := server.New(server.Options{
		Store:          store,
		Runner:         runner,
		Defaults:       cfg.ColoringDefaults(),
		HistorySize:    cfg.HistorySize,
		SessionTTL:     cfg.Session.TTL,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         c.Logger,
	})
	return srv.ListenAndServe(ctx, addr)
}

// cleanupLoop purges expired sessions until ctx is canceled.
func cleanupLoop(ctx context.Context, c *CLI, store session.Store) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Cleanup(ctx)
			if err != nil {
				c.Logger.Warn("Session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				c.Logger.Info("Removed expired sessions", "count", n)
			}
		}
	}
}
