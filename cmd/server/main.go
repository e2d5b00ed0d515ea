package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Simplici0/roi-estimator/internal/config"
	"github.com/Simplici0/roi-estimator/internal/metrics"
	"github.com/Simplici0/roi-estimator/pkg/logger"
)

const readHeaderTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := logger.Init(); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	lg := logger.Named("server")

	cfg, err := config.Load(ctx)
	if err != nil {
		lg.Fatal(ctx, "failed to load config", logger.Error(err))
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		lg.Fatal(ctx, "failed to set log level", logger.Error(err))
	}

	srv, err := newServer(cfg, lg, metrics.New(
		metrics.WithRuntimeCollectors(),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
	))
	if err != nil {
		lg.Fatal(ctx, "failed to build server", logger.Error(err))
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info(ctx, "listening", logger.String("addr", cfg.Addr), logger.String("currency", cfg.Currency))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal(ctx, "server stopped", logger.Error(err))
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		lg.Error(shutdownCtx, "graceful shutdown failed", logger.Error(err))
		return
	}
	lg.Info(shutdownCtx, "server stopped")
}
