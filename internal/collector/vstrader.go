package collector

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"SignalSentinel/internal/model"
)

// VsTraderFetcher implements Fetcher using the vstrader REST API.
type VsTraderFetcher struct {
	Client *resty.Client
}

// NewVsTraderFetcher creates a new fetcher with optional proxy support.
func NewVsTraderFetcher(baseURL, apiKey, proxyURL string) *VsTraderFetcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second)
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &VsTraderFetcher{Client: client}
}

func (f *VsTraderFetcher) Name() string { return "vstrader" }

// vsBar is the expected JSON shape from the vstrader API.
type vsBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *VsTraderFetcher) FetchDailyBars(ctx context.Context, symbol, rng string) ([]model.OHLCV, error) {
	var vsBars []vsBar
	resp, err := f.Client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"limit":  strconv.Itoa(TradingDays(rng)),
		}).
		SetResult(&vsBars).
		Get("/api/v1/bars/daily")
	if err != nil {
		return nil, errors.Wrap(err, "fetch bars")
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, errors.Wrapf(ErrSymbolNotFound, "vstrader: %s", symbol)
	case resp.StatusCode() != http.StatusOK:
		return nil, errors.Errorf("fetch bars: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	if len(vsBars) == 0 {
		return nil, errors.Wrapf(ErrNoData, "vstrader: %s", symbol)
	}

	bars := make([]model.OHLCV, len(vsBars))
	for i, vb := range vsBars {
		bars[i] = model.OHLCV{
			Time:   time.Unix(vb.Timestamp, 0).UTC(),
			Open:   vb.Open,
			High:   vb.High,
			Low:    vb.Low,
			Close:  vb.Close,
			Volume: vb.Volume,
		}
	}
	return bars, nil
}
