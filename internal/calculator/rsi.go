package calculator

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"SignalSentinel/internal/model"
)

// RSIConfig holds the RSI averaging window.
type RSIConfig struct {
	Period int
}

// DefaultRSIConfig returns the classic 14-day window.
func DefaultRSIConfig() RSIConfig {
	return RSIConfig{Period: 14}
}

// Validate rejects a non-positive period.
func (c RSIConfig) Validate() error {
	if c.Period <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "rsi period must be positive, got %d", c.Period)
	}
	return nil
}

// RSIThresholds are the oversold/overbought levels.
type RSIThresholds struct {
	Oversold   float64
	Overbought float64
}

// DefaultRSIThresholds returns the 30/70 levels.
func DefaultRSIThresholds() RSIThresholds {
	return RSIThresholds{Oversold: 30, Overbought: 70}
}

// Validate requires 0 <= Oversold < Overbought <= 100.
func (t RSIThresholds) Validate() error {
	if t.Oversold < 0 || t.Overbought > 100 || t.Oversold >= t.Overbought {
		return errors.Wrapf(ErrInvalidConfig, "rsi thresholds must satisfy 0 <= oversold < overbought <= 100, got %.1f/%.1f",
			t.Oversold, t.Overbought)
	}
	return nil
}

// ComputeRSI computes the simple-average RSI over cfg.Period daily changes.
// The first Period entries are not available. A window with losses of zero
// reads 100 when it has gains and stays unavailable when it is completely flat.
func ComputeRSI(series *model.Series, cfg RSIConfig) (model.IndicatorSeries, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	closes := series.Closes()
	out := make(model.IndicatorSeries, len(closes))
	if len(closes) == 0 {
		return out, nil
	}

	// gains[i]/losses[i] describe the change from i-1 to i; index 0 stays zero.
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	period := cfg.Period
	for i := range closes {
		out[i].Time = series.Points[i].Time
		if i < period {
			continue
		}
		avgGain := floats.Sum(gains[i-period+1:i+1]) / float64(period)
		avgLoss := floats.Sum(losses[i-period+1:i+1]) / float64(period)

		switch {
		case avgLoss == 0 && avgGain == 0:
			continue
		case avgLoss == 0:
			out[i].Value = 100
		default:
			rs := avgGain / avgLoss
			out[i].Value = 100 - 100/(1+rs)
		}
		out[i].Valid = true
	}
	return out, nil
}

// Zone classifies an RSI reading against the thresholds.
func Zone(rsi model.IndicatorPoint, t RSIThresholds) model.RSIZone {
	switch {
	case !rsi.Valid:
		return model.ZoneUnknown
	case rsi.Value > t.Overbought:
		return model.ZoneOverbought
	case rsi.Value < t.Oversold:
		return model.ZoneOversold
	default:
		return model.ZoneNormal
	}
}
