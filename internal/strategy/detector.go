package strategy

import (
	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

// DetectMACDSignals scans for MACD line / signal line crossovers.
// Buy: line moves from <= signal to > signal. Sell: from >= signal to < signal.
// Indices where either value is unavailable emit nothing.
func DetectMACDSignals(line, signal model.IndicatorSeries) (buys, sells []model.SignalEvent) {
	n := min(len(line), len(signal))
	for i := 1; i < n; i++ {
		prevM, ok1 := line.At(i - 1)
		prevS, ok2 := signal.At(i - 1)
		curM, ok3 := line.At(i)
		curS, ok4 := signal.At(i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}

		switch {
		case prevM <= prevS && curM > curS:
			buys = append(buys, newEvent(i, line[i], model.SignalBuy, model.SourceMACD))
		case prevM >= prevS && curM < curS:
			sells = append(sells, newEvent(i, line[i], model.SignalSell, model.SourceMACD))
		}
	}
	return buys, sells
}

// DetectRSISignals scans for threshold crossings: a rebound out of oversold is
// a buy, a pullback out of overbought is a sell.
func DetectRSISignals(rsi model.IndicatorSeries, t calculator.RSIThresholds) (buys, sells []model.SignalEvent) {
	for i := 1; i < len(rsi); i++ {
		prev, ok1 := rsi.At(i - 1)
		cur, ok2 := rsi.At(i)
		if !ok1 || !ok2 {
			continue
		}

		switch {
		case prev <= t.Oversold && cur > t.Oversold:
			buys = append(buys, newEvent(i, rsi[i], model.SignalBuy, model.SourceRSI))
		case prev >= t.Overbought && cur < t.Overbought:
			sells = append(sells, newEvent(i, rsi[i], model.SignalSell, model.SourceRSI))
		}
	}
	return buys, sells
}

func newEvent(i int, p model.IndicatorPoint, kind model.SignalKind, src model.SignalSource) model.SignalEvent {
	return model.SignalEvent{Index: i, Time: p.Time, Kind: kind, Source: src}
}
