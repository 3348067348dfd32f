package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

const delta = 1e-9

func buildSeries(closes ...float64) *model.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &model.Series{Symbol: "TEST"}
	for i, c := range closes {
		s.Points = append(s.Points, model.PricePoint{Time: start.AddDate(0, 0, i), Close: c})
	}
	return s
}

func rising(n int) *model.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return buildSeries(closes...)
}

func falling(n int) *model.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	return buildSeries(closes...)
}

func flat(n int, price float64) *model.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return buildSeries(closes...)
}

func TestEMA_AnchorsAtFirstSample(t *testing.T) {
	// span 3 -> alpha 0.5; a windowed seed would leave the first two entries empty
	got := EMA([]float64{1, 2, 3}, 3)
	require.Len(t, got, 3)
	assert.InDelta(t, 1.0, got[0], delta)
	assert.InDelta(t, 1.5, got[1], delta)
	assert.InDelta(t, 2.25, got[2], delta)
}

func TestAdjustedEMA(t *testing.T) {
	got := AdjustedEMA([]float64{1, 2, 3}, 3)
	require.Len(t, got, 3)
	assert.InDelta(t, 1.0, got[0], delta)
	assert.InDelta(t, 2.5/1.5, got[1], delta)
	assert.InDelta(t, 4.25/1.75, got[2], delta)
}

func TestEMA_Empty(t *testing.T) {
	assert.Empty(t, EMA(nil, 12))
	assert.Empty(t, AdjustedEMA(nil, 12))
}

func TestComputeMACD_FixedValues(t *testing.T) {
	cfg := MACDConfig{Fast: 1, Slow: 3, Signal: 3}
	macd, err := ComputeMACD(buildSeries(1, 2, 3), cfg)
	require.NoError(t, err)

	// fast span 1 tracks price exactly, slow is the alpha=0.5 EMA above
	wantLine := []float64{0, 0.5, 0.75}
	wantSignal := []float64{0, 0.25, 0.5}
	for i := range wantLine {
		assert.True(t, macd.Line[i].Valid)
		assert.InDelta(t, wantLine[i], macd.Line[i].Value, delta, "line[%d]", i)
		assert.InDelta(t, wantSignal[i], macd.Signal[i].Value, delta, "signal[%d]", i)
		assert.InDelta(t, wantLine[i]-wantSignal[i], macd.Histogram[i].Value, delta, "hist[%d]", i)
	}
}

func TestComputeMACD_ConstantSeriesIsZero(t *testing.T) {
	series := flat(60, 42.5)
	macd, err := ComputeMACD(series, DefaultMACDConfig())
	require.NoError(t, err)
	require.Len(t, macd.Line, 60)
	require.Len(t, macd.Signal, 60)
	require.Len(t, macd.Histogram, 60)
	for i := range macd.Line {
		assert.InDelta(t, 0, macd.Line[i].Value, 1e-9)
		assert.InDelta(t, 0, macd.Histogram[i].Value, 1e-9)
		assert.Equal(t, series.Points[i].Time, macd.Line[i].Time)
	}
}

func TestComputeMACD_Adjusted(t *testing.T) {
	series := rising(40)
	plain, err := ComputeMACD(series, DefaultMACDConfig())
	require.NoError(t, err)

	cfg := DefaultMACDConfig()
	cfg.Adjusted = true
	adjusted, err := ComputeMACD(series, cfg)
	require.NoError(t, err)

	assert.Len(t, adjusted.Line, 40)
	assert.NotEqual(t, plain.Line[5].Value, adjusted.Line[5].Value)
}

func TestComputeMACD_Empty(t *testing.T) {
	macd, err := ComputeMACD(&model.Series{Symbol: "EMPTY"}, DefaultMACDConfig())
	require.NoError(t, err)
	assert.Empty(t, macd.Line)
	assert.Empty(t, macd.Signal)
	assert.Empty(t, macd.Histogram)
}

func TestComputeMACD_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  MACDConfig
	}{
		{"zero fast", MACDConfig{Fast: 0, Slow: 26, Signal: 9}},
		{"negative signal", MACDConfig{Fast: 12, Slow: 26, Signal: -1}},
		{"fast equals slow", MACDConfig{Fast: 26, Slow: 26, Signal: 9}},
		{"fast above slow", MACDConfig{Fast: 30, Slow: 26, Signal: 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeMACD(rising(30), tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestComputeMACD_Idempotent(t *testing.T) {
	series := buildSeries(10, 11, 10.5, 12, 13, 12.2, 11.8, 13.4, 14, 13.1)
	a, err := ComputeMACD(series, DefaultMACDConfig())
	require.NoError(t, err)
	b, err := ComputeMACD(series, DefaultMACDConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComputeRSI_FixedValues(t *testing.T) {
	// changes: +1 +1 -1 +2 0
	rsi, err := ComputeRSI(buildSeries(10, 11, 12, 11, 13, 13), RSIConfig{Period: 3})
	require.NoError(t, err)
	require.Len(t, rsi, 6)

	for i := 0; i < 3; i++ {
		_, ok := rsi.At(i)
		assert.False(t, ok, "index %d should be warming up", i)
	}
	want := map[int]float64{
		3: 100 - 100.0/3, // gains 2/3, losses 1/3
		4: 75,            // gains 1, losses 1/3
		5: 100 - 100.0/3, // gains 2/3, losses 1/3
	}
	for i, v := range want {
		got, ok := rsi.At(i)
		require.True(t, ok, "index %d", i)
		assert.InDelta(t, v, got, delta, "index %d", i)
	}
}

func TestComputeRSI_StockChartsSample(t *testing.T) {
	closes := []float64{44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42, 45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28}
	rsi, err := ComputeRSI(buildSeries(closes...), DefaultRSIConfig())
	require.NoError(t, err)

	_, ok := rsi.At(13)
	assert.False(t, ok)
	got, ok := rsi.At(14)
	require.True(t, ok)
	// first RSI(14) of the sample uses plain averages of the first 14 changes
	assert.InDelta(t, 70.46413502109704, got, 1e-6)
}

func TestComputeRSI_Flat(t *testing.T) {
	rsi, err := ComputeRSI(flat(30, 10), DefaultRSIConfig())
	require.NoError(t, err)
	require.Len(t, rsi, 30)
	for i := range rsi {
		_, ok := rsi.At(i)
		assert.False(t, ok, "flat series has no RSI at %d", i)
	}
}

func TestComputeRSI_Rising(t *testing.T) {
	rsi, err := ComputeRSI(rising(30), DefaultRSIConfig())
	require.NoError(t, err)
	for i := 14; i < 30; i++ {
		got, ok := rsi.At(i)
		require.True(t, ok)
		assert.Equal(t, 100.0, got)
	}
}

func TestComputeRSI_Falling(t *testing.T) {
	rsi, err := ComputeRSI(falling(30), DefaultRSIConfig())
	require.NoError(t, err)
	for i := 14; i < 30; i++ {
		got, ok := rsi.At(i)
		require.True(t, ok)
		assert.Equal(t, 0.0, got)
	}
}

func TestComputeRSI_ShortAndEmpty(t *testing.T) {
	rsi, err := ComputeRSI(&model.Series{}, DefaultRSIConfig())
	require.NoError(t, err)
	assert.Empty(t, rsi)

	rsi, err = ComputeRSI(rising(10), DefaultRSIConfig())
	require.NoError(t, err)
	require.Len(t, rsi, 10)
	for i := range rsi {
		assert.False(t, rsi[i].Valid)
	}
}

func TestComputeRSI_InvalidConfig(t *testing.T) {
	_, err := ComputeRSI(rising(20), RSIConfig{Period: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestComputeRSI_Idempotent(t *testing.T) {
	series := buildSeries(10, 11, 10.5, 12, 13, 12.2, 11.8, 13.4, 14, 13.1, 12.9, 13.3, 12.7, 13.8, 14.2, 14.0)
	a, err := ComputeRSI(series, DefaultRSIConfig())
	require.NoError(t, err)
	b, err := ComputeRSI(series, DefaultRSIConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestZone(t *testing.T) {
	th := DefaultRSIThresholds()
	tests := []struct {
		point model.IndicatorPoint
		want  model.RSIZone
	}{
		{model.IndicatorPoint{Value: 85, Valid: true}, model.ZoneOverbought},
		{model.IndicatorPoint{Value: 70, Valid: true}, model.ZoneNormal},
		{model.IndicatorPoint{Value: 50, Valid: true}, model.ZoneNormal},
		{model.IndicatorPoint{Value: 30, Valid: true}, model.ZoneNormal},
		{model.IndicatorPoint{Value: 29.9, Valid: true}, model.ZoneOversold},
		{model.IndicatorPoint{Value: 10}, model.ZoneUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Zone(tt.point, th), "rsi %.1f", tt.point.Value)
	}
}

func TestRSIThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultRSIThresholds().Validate())
	assert.ErrorIs(t, RSIThresholds{Oversold: 70, Overbought: 30}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, RSIThresholds{Oversold: -1, Overbought: 70}.Validate(), ErrInvalidConfig)
}
