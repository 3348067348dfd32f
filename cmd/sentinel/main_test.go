package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/config"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/strategy"
)

// pickyFetcher only knows AAPL.
type pickyFetcher struct {
	mock collector.MockFetcher
}

func (f *pickyFetcher) Name() string { return "picky" }

func (f *pickyFetcher) FetchDailyBars(ctx context.Context, symbol, rng string) ([]model.OHLCV, error) {
	if symbol != "AAPL" {
		return nil, collector.ErrSymbolNotFound
	}
	return f.mock.FetchDailyBars(ctx, symbol, rng)
}

func testCollector() *collector.Collector {
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	return collector.NewCollector(&pickyFetcher{mock: collector.MockFetcher{Price: 150, End: end}}, "6mo", 0)
}

func TestPrintReports(t *testing.T) {
	var out bytes.Buffer
	failed := printReports(context.Background(), &out, testCollector(), strategy.DefaultConfig(), []string{"AAPL", "ZZZZ"}, 2)

	assert.Equal(t, 1, failed)
	s := out.String()
	assert.Contains(t, s, "AAPL technical indicators")
	assert.Contains(t, s, "2024-06-28")
	assert.Contains(t, s, "cannot fetch ZZZZ")
	assert.Less(t, strings.Index(s, "AAPL"), strings.Index(s, "ZZZZ"))
}

func TestPrompt(t *testing.T) {
	in := strings.NewReader("\n  aapl \nzzzz\nquit\nMSFT\n")
	var out bytes.Buffer

	require.NoError(t, prompt(context.Background(), in, &out, testCollector(), strategy.DefaultConfig()))

	s := out.String()
	assert.Equal(t, 4, strings.Count(s, "symbol (or quit)> "))
	assert.Contains(t, s, "AAPL technical indicators")
	assert.Contains(t, s, "cannot fetch ZZZZ")
	assert.NotContains(t, s, "MSFT")
}

func TestPrompt_EndOfInput(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, prompt(context.Background(), strings.NewReader("aapl"), &out, testCollector(), strategy.DefaultConfig()))
	assert.Contains(t, out.String(), "AAPL technical indicators")
}

func TestNewFetcher(t *testing.T) {
	cfg := &config.Config{}
	cfg.DataSource.Provider = "mock"
	assert.Equal(t, "mock", newFetcher(cfg).Name())

	cfg.DataSource.Provider = "vstrader"
	cfg.DataSource.BaseURL = "http://localhost:8000"
	assert.Equal(t, "vstrader", newFetcher(cfg).Name())

	cfg.DataSource.Provider = "yahoo"
	assert.Equal(t, "yahoo", newFetcher(cfg).Name())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_source:\n  provider: mock\n"), 0o644))

	cmd := &cobra.Command{}
	cmd.Flags().String("config", "", "")
	require.NoError(t, cmd.Flags().Set("config", path))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.DataSource.Provider)

	require.NoError(t, os.WriteFile(path, []byte("data_source:\n  provider: carrier-pigeon\n"), 0o644))
	_, err = loadConfig(cmd)
	assert.Error(t, err)
}

func TestMetricsMux(t *testing.T) {
	metrics.FetchAttempts.WithLabelValues("picky", "ok").Inc()

	rec := httptest.NewRecorder()
	metricsMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sentinel_")
}
