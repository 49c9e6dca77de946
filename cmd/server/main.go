package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpapi "github.com/execution-hub/definition-registry/internal/api/http"
	appDefinition "github.com/execution-hub/definition-registry/internal/application/definition"
	"github.com/execution-hub/definition-registry/internal/config"
	"github.com/execution-hub/definition-registry/internal/domain/definition"
	"github.com/execution-hub/definition-registry/internal/infrastructure/codegen"
	"github.com/execution-hub/definition-registry/internal/infrastructure/instrumented"
	"github.com/execution-hub/definition-registry/internal/infrastructure/storage"
	"github.com/execution-hub/definition-registry/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		bootLogger := logging.New("info", os.Stderr)
		bootLogger.Fatal().Err(err).Msg("config error")
	}
	logger := logging.New(cfg.Log.Level, os.Stdout)

	ctx := context.Background()
	httpServer, store, err := newHTTPServer(ctx, cfg, logger, prometheus.DefaultRegisterer, promhttp.Handler())
	if err != nil {
		logger.Fatal().Err(err).Msg("startup error")
	}
	defer store.Close()

	go func() {
		logger.Info().
			Str("addr", cfg.Server.Addr).
			Str("driver", string(store.Dialect)).
			Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("http server shutdown failed")
	}
}

// newHTTPServer opens the store and wires the service behind the HTTP API.
// Repository metrics are registered on reg when enabled in cfg.
func newHTTPServer(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer, metricsHandler http.Handler) (*http.Server, *storage.Store, error) {
	store, err := storage.Open(ctx, cfg.Database, true, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	codes, err := codegen.NewGenerator(cfg.Code.NodeID)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("code generator: %w", err)
	}

	var repo definition.Repository = store.Repo
	if cfg.Metrics.Enabled {
		metrics, err := instrumented.NewMetrics(reg)
		if err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("metrics: %w", err)
		}
		repo = instrumented.New(repo, metrics, nil)
	} else {
		metricsHandler = nil
	}

	definitionSvc := appDefinition.NewService(repo, codes, logger)
	apiServer := httpapi.NewServer(definitionSvc, logger, metricsHandler, store.Ping)

	return &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, store, nil
}
