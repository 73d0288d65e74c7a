package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/qkart/qkart/internal/mockstore"
	"github.com/qkart/qkart/pkg/bootstrap"
	"github.com/qkart/qkart/pkg/config/configloader"
	"github.com/qkart/qkart/pkg/server"
	"golang.org/x/sync/errgroup"
)

const appName = "mockstore"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads configuration, seeds the in-memory store, and serves the
// storefront REST surface until interrupted.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*mockstore.Config](appName, "mockstore.yaml")
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	store := mockstore.NewStore(mockstore.SeedCatalog())
	handler := mockstore.NewHandler(store, logger)

	mux := server.NewChiRouter(logger)
	handler.RegisterRoutes(mux)
	httpServer := server.NewHTTPServer(cfg.HTTPServer, mux)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
