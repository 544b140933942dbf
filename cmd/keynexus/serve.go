package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/tbourn/go-keynexus/internal/http"
	"github.com/tbourn/go-keynexus/internal/observability"
	"github.com/tbourn/go-keynexus/internal/services"
)

const shutdownGrace = 15 * time.Second

func newServeCmd(app *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP API",
		Long: `Starts the HTTP API: catalog browsing, shopper sessions with carts, and
the assistant. SIGINT or SIGTERM drains in-flight requests before exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = ":" + app.cfg.Port
			}
			return runServe(cmd.Context(), app, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default \":$PORT\")")
	return cmd
}

func runServe(parent context.Context, app *cli, addr string) error {
	cfg := app.cfg
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTEL, version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	db, store, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	provider, err := newProvider(ctx, cfg.Scout, store.All())
	if err != nil {
		return err
	}

	deps := httpapi.NewDeps(db, store, provider, cfg)
	r := gin.New()
	httpapi.RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// A failing listener cancels gctx, which stops the janitors and runs
	// the shutdown branch.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Sessions.Run(gctx, cfg.Session.SweepInterval)
		return nil
	})
	g.Go(func() error {
		purgeReplays(gctx, deps.Replays, cfg.Session.SweepInterval)
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", addr).Str("base_path", cfg.APIBasePath).
			Int("products", store.Len()).Str("catalog_version", store.Version()).
			Msg("http server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// purgeReplays drops expired stored replies until ctx is done.
func purgeReplays(ctx context.Context, replays *services.ReplayStore, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := replays.Purge(ctx); err != nil {
				log.Warn().Err(err).Msg("purge stored replies")
			} else if n > 0 {
				log.Debug().Int64("purged", n).Msg("stored replies purged")
			}
		}
	}
}
