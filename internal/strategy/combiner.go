package strategy

import (
	"time"

	"github.com/pkg/errors"

	"SignalSentinel/internal/model"
)

// MatchMode selects how MACD events are paired with RSI events.
type MatchMode string

const (
	// MatchAllPairs emits one combined event per matching (MACD, RSI) pair,
	// so a MACD event near two RSI events appears twice.
	MatchAllPairs MatchMode = "all_pairs"
	// MatchNearest emits at most one combined event per MACD event.
	MatchNearest MatchMode = "nearest"
)

// ParseMatchMode maps a config string to a MatchMode. Empty means all pairs.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case "", MatchAllPairs:
		return MatchAllPairs, nil
	case MatchNearest:
		return MatchNearest, nil
	default:
		return "", errors.Errorf("unknown match mode %q", s)
	}
}

// CombineSignals pairs every MACD event with the RSI events of the same kind
// whose calendar date lies within toleranceDays. Output follows MACD order and
// carries the MACD event date.
func CombineSignals(macd, rsi []model.SignalEvent, toleranceDays int, mode MatchMode) []model.CombinedSignalEvent {
	var out []model.CombinedSignalEvent
	for _, m := range macd {
		for _, r := range rsi {
			if r.Kind != m.Kind {
				continue
			}
			if abs(calendarDays(m.Time, r.Time)) > toleranceDays {
				continue
			}
			out = append(out, model.CombinedSignalEvent{Time: m.Time, Kind: m.Kind})
			if mode == MatchNearest {
				break
			}
		}
	}
	return out
}

// calendarDays returns the number of civil days from b to a, using the
// location of a for both dates.
func calendarDays(a, b time.Time) int {
	b = b.In(a.Location())
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(da.Sub(db).Hours() / 24)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
