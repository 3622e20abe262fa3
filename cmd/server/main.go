package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"ttlmap"
	"ttlmap/internal/api"
	"ttlmap/internal/config"
	"ttlmap/internal/logs"
	"ttlmap/internal/metrics"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	// Root context, cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logger
	logger, logCloser, err := logs.Open(logs.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		Rotation:   cfg.Logging.Rotation,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		RingSize:   cfg.Logging.RingSize,
	})
	if err != nil {
		return fmt.Errorf("open logger: %w", err)
	}
	defer logCloser.Close()

	// Metrics
	metricsRegistry := metrics.NewRegistry()

	// Map
	opts := []ttlmap.Option{
		ttlmap.WithMetrics(metricsRegistry),
		ttlmap.WithLogger(logger),
	}
	defaultTTL, hasDefault, err := cfg.Map.ParseDefaultTTL()
	if err != nil {
		return err
	}
	if hasDefault {
		opts = append(opts, ttlmap.WithDefaultTTL(defaultTTL))
	}
	store := ttlmap.New[string, string](opts...)

	// API
	handler := api.NewHandler(store, metricsRegistry, logger)
	if cfg.Metrics.Enabled {
		prom, err := metrics.NewPrometheusRegistry(metricsRegistry)
		if err != nil {
			return fmt.Errorf("register prometheus collectors: %w", err)
		}
		handler.WithPrometheus(metrics.Handler(prom))
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.RegisterRoutes(http.NewServeMux(), handler),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server started", "addr", cfg.Server.Addr, "map", store.ID(), "default_ttl", cfg.Map.DefaultTTL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down", "live_keys", store.Len())
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err.Error())
		return err
	}
	return nil
}
