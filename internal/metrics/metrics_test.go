package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"SignalSentinel/internal/model"
)

func TestObserveAnalysis(t *testing.T) {
	a := &model.Analysis{
		Symbol: "MTEST",
		Latest: model.Snapshot{
			RSI:       model.IndicatorPoint{Value: 42, Valid: true},
			Histogram: model.IndicatorPoint{Value: -0.5, Valid: true},
		},
	}
	ObserveAnalysis(a)
	ObserveAnalysis(a)

	assert.Equal(t, 2.0, testutil.ToFloat64(AnalysesTotal.WithLabelValues("MTEST", "ok")))
	assert.Equal(t, 42.0, testutil.ToFloat64(LatestRSI.WithLabelValues("MTEST")))
	assert.Equal(t, -0.5, testutil.ToFloat64(LatestHistogram.WithLabelValues("MTEST")))
}

func TestObserveSignal(t *testing.T) {
	ObserveSignal("MTEST", model.SignalEvent{Kind: model.SignalSell, Source: model.SourceRSI})
	assert.Equal(t, 1.0, testutil.ToFloat64(SignalsTotal.WithLabelValues("MTEST", "RSI", "SELL")))
}
