package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"SignalSentinel/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public chart API.
type YahooFetcher struct {
	Client    *resty.Client
	Limiter   *rate.Limiter
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher. requestsPerSecond <= 0
// disables rate limiting.
func NewYahooFetcher(proxyURL string, requestsPerSecond float64) *YahooFetcher {
	client := resty.New().
		SetBaseURL(yahooBaseURL).
		SetTimeout(30*time.Second).
		SetHeader("User-Agent", "Mozilla/5.0")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}

	return &YahooFetcher{
		Client:  client,
		Limiter: limiter,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"NDX":    "^NDX",
			"DJI":    "^DJI",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string `json:"symbol"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func valueAt(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return 0
	}
	return *values[i]
}

// FetchDailyBars downloads daily bars for rng and returns them in chronological order.
// Bars without a close (holidays, halted sessions) are dropped.
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol, rng string) ([]model.OHLCV, error) {
	if err := f.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := f.Client.R().
		SetContext(ctx).
		SetPathParam("symbol", f.yahooSymbol(symbol)).
		SetQueryParams(map[string]string{"interval": "1d", "range": rng}).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, errors.Wrap(err, "yahoo fetch")
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(resp.Body(), &chart)

	if resp.StatusCode() != http.StatusOK {
		if resp.StatusCode() == http.StatusNotFound {
			return nil, errors.Wrapf(ErrSymbolNotFound, "yahoo: %s", symbol)
		}
		return nil, errors.Errorf("yahoo: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	if decodeErr != nil {
		return nil, errors.Wrap(decodeErr, "yahoo decode")
	}
	if chart.Chart.Error != nil {
		return nil, errors.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, errors.Wrapf(ErrNoData, "yahoo: %s", symbol)
	}

	result := chart.Chart.Result[0]
	loc := time.UTC
	if tz := result.Meta.ExchangeTimezoneName; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).In(loc),
			Open:   valueAt(quote.Open, i),
			High:   valueAt(quote.High, i),
			Low:    valueAt(quote.Low, i),
			Close:  *quote.Close[i],
			Volume: valueAt(quote.Volume, i),
		})
	}
	if len(bars) == 0 {
		return nil, errors.Wrapf(ErrNoData, "yahoo: %s", symbol)
	}
	return bars, nil
}
