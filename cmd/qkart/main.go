// Command qkart is a terminal storefront client: browse and search the
// product catalog, authenticate, and manage a shopping cart held by the
// remote service.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/qkart/qkart/internal/api"
	"github.com/qkart/qkart/internal/cart"
	"github.com/qkart/qkart/internal/catalog"
	"github.com/qkart/qkart/internal/config"
	"github.com/qkart/qkart/internal/notify"
	"github.com/qkart/qkart/internal/session"
	"github.com/qkart/qkart/pkg/bootstrap"
	"github.com/qkart/qkart/pkg/config/configloader"
	"github.com/qkart/qkart/pkg/telemetry"
	"github.com/spf13/cobra"
)

const appName = "qkart"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "qkart",
	Short:         "Terminal client for the QKart storefront",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to the config file")
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, productsCmd, cartCmd, browseCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.SetFlags(0)
		log.Printf("qkart: %v", err)
		os.Exit(1)
	}
}

// app wires the client stack: config, logger, API client, stores, and the
// services around them. One app is built per command invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	client   *api.Client
	store    *catalog.Store
	catalog  *catalog.Service
	session  *session.Service
	mutator  *cart.Mutator
	notifier notify.Notifier

	tracerShutdown func(context.Context) error
}

// newApp builds the client stack. logWriter receives structured logs; the
// interactive view passes io.Discard so log lines don't tear its screen.
func newApp(ctx context.Context, notifier notify.Notifier, logWriter io.Writer) (*app, error) {
	cfg, err := configloader.Load[*config.Config](appName, cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := bootstrap.NewLoggerTo(logWriter, cfg.Log.Level)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		notifier: notifier,
	}

	if cfg.Telemetry.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, appName, cfg.Telemetry)
		if err != nil {
			return nil, fmt.Errorf("failed to set up telemetry: %w", err)
		}
		a.tracerShutdown = tp.Shutdown
	}

	credStore, err := session.NewFileStore(cfg.Session.File)
	if err != nil {
		return nil, err
	}

	a.client = api.NewClient(cfg.API, logger)
	a.store = catalog.NewStore()
	a.catalog = catalog.NewService(a.client, a.store, notifier, logger)
	a.session = session.NewService(a.client, credStore, notifier, logger)
	a.mutator = cart.NewMutator(a.client, notifier, logger)
	return a, nil
}

func (a *app) Close(ctx context.Context) {
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Warn("Failed to shut down tracer provider", "error", err)
		}
	}
}
