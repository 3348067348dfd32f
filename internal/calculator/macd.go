package calculator

import (
	"github.com/pkg/errors"

	"SignalSentinel/internal/model"
)

// MACDConfig holds the EMA spans of the MACD engine.
type MACDConfig struct {
	Fast   int
	Slow   int
	Signal int
	// Adjusted switches every EMA to the bias-adjusted weighted form.
	Adjusted bool
}

// DefaultMACDConfig returns the classic 12/26/9 setup.
func DefaultMACDConfig() MACDConfig {
	return MACDConfig{Fast: 12, Slow: 26, Signal: 9}
}

// Validate rejects non-positive spans and Fast >= Slow.
func (c MACDConfig) Validate() error {
	if c.Fast <= 0 || c.Slow <= 0 || c.Signal <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "macd periods must be positive, got %d/%d/%d", c.Fast, c.Slow, c.Signal)
	}
	if c.Fast >= c.Slow {
		return errors.Wrapf(ErrInvalidConfig, "macd fast period %d must be below slow period %d", c.Fast, c.Slow)
	}
	return nil
}

func (c MACDConfig) ema(values []float64, span int) []float64 {
	if c.Adjusted {
		return AdjustedEMA(values, span)
	}
	return EMA(values, span)
}

// ComputeMACD returns the MACD line, its signal line and the histogram,
// all aligned with series. An empty series yields empty outputs.
func ComputeMACD(series *model.Series, cfg MACDConfig) (model.MACD, error) {
	if err := cfg.Validate(); err != nil {
		return model.MACD{}, err
	}

	closes := series.Closes()
	fast := cfg.ema(closes, cfg.Fast)
	slow := cfg.ema(closes, cfg.Slow)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signal := cfg.ema(line, cfg.Signal)

	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - signal[i]
	}

	return model.MACD{
		Line:      alignValues(series, line),
		Signal:    alignValues(series, signal),
		Histogram: alignValues(series, hist),
	}, nil
}

// alignValues stamps fully-defined values with the series timestamps.
func alignValues(series *model.Series, values []float64) model.IndicatorSeries {
	out := make(model.IndicatorSeries, len(values))
	for i, v := range values {
		out[i] = model.IndicatorPoint{Time: series.Points[i].Time, Value: v, Valid: true}
	}
	return out
}
