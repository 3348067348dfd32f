package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SignalSentinel/internal/model"
)

var FetchAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sentinel_fetch_attempts_total",
		Help: "Market data fetch attempts, by provider and result.",
	}, []string{"provider", "result"})

var AnalysesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sentinel_analyses_total",
		Help: "Completed analysis runs, by symbol and result.",
	}, []string{"symbol", "result"})

var SignalsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sentinel_latest_signals_total",
		Help: "Signals firing on the latest bar, by symbol, source and kind.",
	}, []string{"symbol", "source", "kind"})

var LatestRSI = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "sentinel_latest_rsi",
		Help: "RSI of the latest bar.",
	}, []string{"symbol"})

var LatestHistogram = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "sentinel_latest_macd_histogram",
		Help: "MACD histogram of the latest bar.",
	}, []string{"symbol"})

func init() {
	prometheus.MustRegister(FetchAttempts, AnalysesTotal, SignalsTotal, LatestRSI, LatestHistogram)
}

// ObserveAnalysis updates the per-symbol gauges from a finished analysis.
func ObserveAnalysis(a *model.Analysis) {
	AnalysesTotal.WithLabelValues(a.Symbol, "ok").Inc()
	if a.Latest.RSI.Valid {
		LatestRSI.WithLabelValues(a.Symbol).Set(a.Latest.RSI.Value)
	}
	if a.Latest.Histogram.Valid {
		LatestHistogram.WithLabelValues(a.Symbol).Set(a.Latest.Histogram.Value)
	}
}

// ObserveSignal counts one signal that fired on the latest bar.
func ObserveSignal(symbol string, e model.SignalEvent) {
	SignalsTotal.WithLabelValues(symbol, string(e.Source), string(e.Kind)).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
