package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"convertflow/internal/adapters/handlers/http/chi"
	"convertflow/internal/adapters/handlers/http/chi/v1/conversion"
	"convertflow/internal/adapters/storage/minio"
	"convertflow/internal/config"
	"convertflow/internal/core/port"
	"convertflow/internal/core/service/backend"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadBackend()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	//storage
	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}

	backendService := backend.NewBackendService(minioAdapter, logger)

	//http
	conversionHandler := conversion.NewConversionHandlerV1(backendService, logger)
	router := chi.NewBackendRouter(logger, conversionHandler, chi.RouterOptions{
		Env:     cfg.Env.Env,
		Timeout: 60 * time.Second,
		MaxBody: 1 << 20,
		Metrics: chi.NewMetrics("convertflow_backend"),
	})
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		initExpiryTask(ctx, backendService, cfg.Jobs, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down backend")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("backend shutdown complete")
}

func initExpiryTask(ctx context.Context, service port.ConversionBackend, cfg config.JobsConfig, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.CleanupEvery)
	defer ticker.Stop()

	logger.Info("job expiry task initialized", "interval", cfg.CleanupEvery, "ttl", cfg.TTL)

	for {
		select {
		case <-ticker.C:
			service.ExpireJobs(ctx, time.Now().Add(-cfg.TTL))
		case <-ctx.Done():
			logger.Info("job expiry task stopped")
			return
		}
	}
}
