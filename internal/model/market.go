package model

import (
	"fmt"
	"sort"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PricePoint is one daily close.
type PricePoint struct {
	Time  time.Time
	Close float64
}

// Series holds the daily closes of one symbol in strictly increasing time order.
type Series struct {
	Symbol string
	Points []PricePoint
}

// NewSeries builds a Series from raw bars. Bars are sorted by time and
// duplicate timestamps collapse to the last bar seen for that timestamp.
func NewSeries(symbol string, bars []OHLCV) *Series {
	sorted := make([]OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	points := make([]PricePoint, 0, len(sorted))
	for _, b := range sorted {
		n := len(points)
		if n > 0 && points[n-1].Time.Equal(b.Time) {
			points[n-1].Close = b.Close
			continue
		}
		points = append(points, PricePoint{Time: b.Time, Close: b.Close})
	}
	return &Series{Symbol: symbol, Points: points}
}

// Len returns the number of points.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Closes returns the closing prices in series order.
func (s *Series) Closes() []float64 {
	closes := make([]float64, s.Len())
	for i := range closes {
		closes[i] = s.Points[i].Close
	}
	return closes
}

// Last returns the most recent point.
func (s *Series) Last() (PricePoint, bool) {
	if s.Len() == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Validate checks that timestamps are strictly increasing.
func (s *Series) Validate() error {
	for i := 1; i < s.Len(); i++ {
		if !s.Points[i].Time.After(s.Points[i-1].Time) {
			return fmt.Errorf("series %s: point %d (%s) is not after point %d (%s)",
				s.Symbol, i, s.Points[i].Time.Format(time.DateOnly), i-1, s.Points[i-1].Time.Format(time.DateOnly))
		}
	}
	return nil
}

// IndicatorPoint is one indicator value. Valid is false during the warm-up span.
type IndicatorPoint struct {
	Time  time.Time
	Value float64
	Valid bool
}

// IndicatorSeries is aligned index-for-index with the Series it was computed from.
type IndicatorSeries []IndicatorPoint

// At returns the value at i and whether it is available.
func (s IndicatorSeries) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) || !s[i].Valid {
		return 0, false
	}
	return s[i].Value, true
}

// Latest returns the last point, valid or not.
func (s IndicatorSeries) Latest() (IndicatorPoint, bool) {
	if len(s) == 0 {
		return IndicatorPoint{}, false
	}
	return s[len(s)-1], true
}

// MACD groups the three aligned MACD outputs.
type MACD struct {
	Line      IndicatorSeries
	Signal    IndicatorSeries
	Histogram IndicatorSeries
}
