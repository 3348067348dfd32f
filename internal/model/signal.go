package model

import "time"

// SignalKind is the direction of a signal.
type SignalKind string

const (
	SignalBuy  SignalKind = "BUY"
	SignalSell SignalKind = "SELL"
)

// SignalSource names the indicator that produced a signal.
type SignalSource string

const (
	SourceMACD SignalSource = "MACD"
	SourceRSI  SignalSource = "RSI"
)

// RSIZone classifies an RSI reading.
type RSIZone string

const (
	ZoneOverbought RSIZone = "OVERBOUGHT"
	ZoneOversold   RSIZone = "OVERSOLD"
	ZoneNormal     RSIZone = "NORMAL"
	ZoneUnknown    RSIZone = "N/A"
)

// SignalEvent is a crossover detected at Index of the source Series. Index is always >= 1.
type SignalEvent struct {
	Index  int
	Time   time.Time
	Kind   SignalKind
	Source SignalSource
}

// CombinedSignalEvent marks a MACD event confirmed by an RSI event of the same kind.
type CombinedSignalEvent struct {
	Time time.Time
	Kind SignalKind
}

// Snapshot holds the most recent values shown in reports.
type Snapshot struct {
	Time       time.Time
	Close      float64
	MACD       IndicatorPoint
	SignalLine IndicatorPoint
	Histogram  IndicatorPoint
	RSI        IndicatorPoint
	Zone       RSIZone
}

// Analysis is the full output of one pipeline run over a Series.
type Analysis struct {
	Symbol string
	Series *Series
	MACD   MACD
	RSI    IndicatorSeries

	MACDBuys  []SignalEvent
	MACDSells []SignalEvent
	RSIBuys   []SignalEvent
	RSISells  []SignalEvent

	CombinedBuys  []CombinedSignalEvent
	CombinedSells []CombinedSignalEvent

	Latest Snapshot
}

// EventsAt returns every single-source signal that fired at index i.
func (a *Analysis) EventsAt(i int) []SignalEvent {
	var out []SignalEvent
	for _, list := range [][]SignalEvent{a.MACDBuys, a.MACDSells, a.RSIBuys, a.RSISells} {
		for _, e := range list {
			if e.Index == i {
				out = append(out, e)
			}
		}
	}
	return out
}
