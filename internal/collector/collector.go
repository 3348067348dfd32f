package collector

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.OHLCV
	Err       error
	// End is the date of the last generated bar; zero means today.
	End time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, rng string) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	end := m.End
	if end.IsZero() {
		now := time.Now().UTC()
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return generateMockBars(m.Price, TradingDays(rng), end), nil
}

// generateMockBars produces an oscillating price path so both indicators cross their levels.
func generateMockBars(basePrice float64, count int, end time.Time) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.08*math.Sin(float64(i)/7) + 0.0005*float64(i))
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector fetches daily bars with retry and turns them into a Series.
type Collector struct {
	Fetcher Fetcher
	Range   string
	Retries uint64
	// NewBackOff builds the retry schedule; nil means exponential backoff.
	NewBackOff func() backoff.BackOff
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, rng string, retries uint64) *Collector {
	return &Collector{Fetcher: fetcher, Range: rng, Retries: retries}
}

func (c *Collector) backOff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff
	if c.NewBackOff != nil {
		b = c.NewBackOff()
	} else {
		exp := backoff.NewExponentialBackOff()
		exp.MaxElapsedTime = time.Minute
		b = exp
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, c.Retries), ctx)
}

// Collect fetches the daily series for symbol. Transient failures are retried;
// unknown symbols and empty answers are not.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.Series, error) {
	logger := log.WithFields(log.Fields{"symbol": symbol, "provider": c.Fetcher.Name()})

	var bars []model.OHLCV
	attempt := 0
	op := func() error {
		attempt++
		b, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.Range)
		if err != nil {
			metrics.FetchAttempts.WithLabelValues(c.Fetcher.Name(), "error").Inc()
			if errors.Is(err, ErrSymbolNotFound) || errors.Is(err, ErrNoData) {
				return backoff.Permanent(err)
			}
			logger.WithError(err).Warnf("fetch attempt %d failed", attempt)
			return err
		}
		metrics.FetchAttempts.WithLabelValues(c.Fetcher.Name(), "ok").Inc()
		bars = b
		return nil
	}

	if err := backoff.Retry(op, c.backOff(ctx)); err != nil {
		return nil, errors.Wrapf(err, "collect %s", symbol)
	}

	series := model.NewSeries(symbol, bars)
	if series.Len() == 0 {
		return nil, errors.Wrapf(ErrNoData, "collect %s", symbol)
	}
	logger.Debugf("collected %d daily bars (%s)", series.Len(), c.Range)
	return series, nil
}
