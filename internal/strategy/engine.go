package strategy

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

// DefaultToleranceDays is how far apart MACD and RSI events may be to combine.
const DefaultToleranceDays = 2

// Config bundles everything one analysis run needs.
type Config struct {
	MACD          calculator.MACDConfig
	RSI           calculator.RSIConfig
	Thresholds    calculator.RSIThresholds
	ToleranceDays int
	Mode          MatchMode
}

// DefaultConfig returns MACD 12/26/9, RSI 14 at 30/70, 2-day all-pairs combining.
func DefaultConfig() Config {
	return Config{
		MACD:          calculator.DefaultMACDConfig(),
		RSI:           calculator.DefaultRSIConfig(),
		Thresholds:    calculator.DefaultRSIThresholds(),
		ToleranceDays: DefaultToleranceDays,
		Mode:          MatchAllPairs,
	}
}

// Validate checks every engine setting.
func (c Config) Validate() error {
	if err := c.MACD.Validate(); err != nil {
		return err
	}
	if err := c.RSI.Validate(); err != nil {
		return err
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if c.ToleranceDays < 0 {
		return errors.Wrapf(calculator.ErrInvalidConfig, "tolerance days must not be negative, got %d", c.ToleranceDays)
	}
	if _, err := ParseMatchMode(string(c.Mode)); err != nil {
		return errors.Wrap(calculator.ErrInvalidConfig, err.Error())
	}
	return nil
}

// Analyze runs the full indicator and signal pipeline over series.
// It holds no state between calls.
func Analyze(series *model.Series, cfg Config) (*model.Analysis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	macd, err := calculator.ComputeMACD(series, cfg.MACD)
	if err != nil {
		return nil, err
	}
	rsi, err := calculator.ComputeRSI(series, cfg.RSI)
	if err != nil {
		return nil, err
	}

	a := &model.Analysis{
		Series: series,
		MACD:   macd,
		RSI:    rsi,
	}
	if series != nil {
		a.Symbol = series.Symbol
	}

	a.MACDBuys, a.MACDSells = DetectMACDSignals(macd.Line, macd.Signal)
	a.RSIBuys, a.RSISells = DetectRSISignals(rsi, cfg.Thresholds)
	a.CombinedBuys = CombineSignals(a.MACDBuys, a.RSIBuys, cfg.ToleranceDays, cfg.Mode)
	a.CombinedSells = CombineSignals(a.MACDSells, a.RSISells, cfg.ToleranceDays, cfg.Mode)

	if last, ok := series.Last(); ok {
		i := series.Len() - 1
		a.Latest = model.Snapshot{
			Time:       last.Time,
			Close:      last.Close,
			MACD:       macd.Line[i],
			SignalLine: macd.Signal[i],
			Histogram:  macd.Histogram[i],
			RSI:        rsi[i],
			Zone:       calculator.Zone(rsi[i], cfg.Thresholds),
		}
	} else {
		a.Latest.Zone = model.ZoneUnknown
	}

	log.WithField("symbol", a.Symbol).Debugf("analysis done: %d bars, macd %d/%d, rsi %d/%d, combined %d/%d",
		series.Len(), len(a.MACDBuys), len(a.MACDSells), len(a.RSIBuys), len(a.RSISells),
		len(a.CombinedBuys), len(a.CombinedSells))

	return a, nil
}
