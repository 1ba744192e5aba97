package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/svgembed/svgembed/internal/config"
	"github.com/svgembed/svgembed/internal/server"
	"github.com/svgembed/svgembed/pkg/cache"
	"github.com/svgembed/svgembed/pkg/convert"
	"github.com/svgembed/svgembed/pkg/store"
)

// serveCommand creates the serve command for running the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion service",
		Long: `Run the HTTP conversion service.

POST /convert accepts a raw PNG body or a JSON {"data": "<base64>"} payload
and responds with the conversion result. With a MongoDB store configured,
artifacts are persisted and the response names them; otherwise the SVG is
returned inline as a data URL.

Configuration is read from a TOML file (--config); flags override it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to svgembed.toml")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, configPath, addr string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	cch, err := c.buildCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer cch.Close()

	var sink convert.Sink
	if cfg.Store.URI != "" {
		mongo, err := store.NewMongoSink(ctx, store.MongoOptions{
			URI:        cfg.Store.URI,
			Database:   cfg.Store.Database,
			Collection: cfg.Store.Collection,
		})
		if err != nil {
			return err
		}
		defer mongo.Close(context.Background())
		sink = mongo
		c.Logger.Info("artifact store connected", "database", cfg.Store.Database)
	}

	srv := server.New(server.Options{
		Logger: c.Logger,
		Cache:  cch,
		TTL:    cfg.CacheTTL(),
		Sink:   sink,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// buildCache constructs the cache backend named by the configuration.
func (c *CLI) buildCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			return nil, err
		}
		c.Logger.Info("redis cache connected", "addr", cfg.Cache.Addr)
		return rc, nil
	case config.CacheBackendNone:
		return cache.NewNullCache(), nil
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}
