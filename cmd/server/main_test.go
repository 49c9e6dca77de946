package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/execution-hub/definition-registry/internal/config"
)

func sqliteConfig(t *testing.T, metrics bool) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.Database{
			Driver:       "sqlite",
			URL:          filepath.Join(t.TempDir(), "registry.db"),
			QueryTimeout: 5 * time.Second,
		},
		Server:  config.Server{Addr: ":0", ShutdownTimeout: time.Second},
		Code:    config.Code{NodeID: 1},
		Metrics: config.Metrics{Enabled: metrics},
	}
}

func TestNewHTTPServerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv, store, err := newHTTPServer(context.Background(), sqliteConfig(t, true), zerolog.Nop(),
		reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	require.NoError(t, err)
	defer store.Close()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/projects/7/process-definitions", strings.NewReader(`{"name":"nightly-etl"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "3")
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "definition_registry_repository_calls_total")
}

func TestNewHTTPServerWithoutMetrics(t *testing.T) {
	srv, store, err := newHTTPServer(context.Background(), sqliteConfig(t, false), zerolog.Nop(),
		prometheus.NewRegistry(), promhttp.Handler())
	require.NoError(t, err)
	defer store.Close()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewHTTPServerRejectsUnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t, false)
	cfg.Database.Driver = "oracle"
	_, _, err := newHTTPServer(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry(), nil)
	assert.Error(t, err)
}
