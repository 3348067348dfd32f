package collector

import (
	"context"

	"github.com/pkg/errors"

	"SignalSentinel/internal/model"
)

var (
	// ErrNoData is returned when a provider answers with no usable bars.
	ErrNoData = errors.New("no data returned")
	// ErrSymbolNotFound is returned when a provider does not know the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Fetcher defines the interface for fetching market data.
// rng is a lookback such as "1mo", "6mo" or "1y".
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol, rng string) ([]model.OHLCV, error)
	Name() string
}

// TradingDays converts a range such as "6mo" into an approximate count of
// daily bars. Unknown ranges fall back to six months.
func TradingDays(rng string) int {
	switch rng {
	case "5d":
		return 5
	case "1mo":
		return 22
	case "3mo":
		return 66
	case "6mo":
		return 126
	case "1y", "ytd":
		return 252
	case "2y":
		return 504
	case "5y":
		return 1260
	case "10y":
		return 2520
	default:
		return 126
	}
}
