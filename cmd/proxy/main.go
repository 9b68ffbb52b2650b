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
	"convertflow/internal/adapters/handlers/http/chi/proxy"
	"convertflow/internal/config"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadProxy()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	upstream, err := proxy.NewHandler(cfg.Proxy.UpstreamURL, &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: cfg.Proxy.Timeout,
	}, logger)
	if err != nil {
		logger.Error("failed to init proxy", "error", err)
		os.Exit(1)
	}

	// no body limit: the proxy must not alter what it forwards
	router := chi.NewProxyRouter(logger, upstream, chi.RouterOptions{
		Env:     cfg.Env.Env,
		Timeout: cfg.Proxy.Timeout,
		Metrics: chi.NewMetrics("convertflow_proxy"),
	})
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting proxy", "host", cfg.Server.Host, "port", cfg.Server.Port, "upstream", cfg.Proxy.UpstreamURL)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down proxy")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("proxy shutdown complete")
}
