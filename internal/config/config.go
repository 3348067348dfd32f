package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider          string  `yaml:"provider"` // yahoo, vstrader or mock
		BaseURL           string  `yaml:"base_url"`
		APIKey            string  `yaml:"api_key"`
		Range             string  `yaml:"range"`
		Retries           uint64  `yaml:"retries"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"data_source"`
	Indicators struct {
		MACD struct {
			Fast     int  `yaml:"fast"`
			Slow     int  `yaml:"slow"`
			Signal   int  `yaml:"signal"`
			Adjusted bool `yaml:"adjusted"`
		} `yaml:"macd"`
		RSI struct {
			Period     int     `yaml:"period"`
			Oversold   float64 `yaml:"oversold"`
			Overbought float64 `yaml:"overbought"`
		} `yaml:"rsi"`
	} `yaml:"indicators"`
	Combine struct {
		ToleranceDays *int   `yaml:"tolerance_days"`
		Mode          string `yaml:"mode"`
	} `yaml:"combine"`
	Watch struct {
		Symbols     []string `yaml:"symbols"`
		Cron        string   `yaml:"cron"`
		Concurrency int      `yaml:"concurrency"`
	} `yaml:"watch"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Metrics struct {
		Listen string `yaml:"listen"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// LoadEnv loads the given .env files into the process environment, skipping
// the ones that do not exist. Variables already set win.
func LoadEnv(filenames ...string) {
	for _, filename := range filenames {
		if s, err := os.Stat(filename); err == nil && !s.IsDir() {
			_ = godotenv.Load(filename)
		}
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "read config")
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SENTINEL_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("VSTRADER_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("SENTINEL_RANGE"); v != "" {
		cfg.DataSource.Range = v
	}
	if v := os.Getenv("SENTINEL_SYMBOLS"); v != "" {
		cfg.Watch.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("SENTINEL_CRON"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("SENTINEL_TOLERANCE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Combine.ToleranceDays = &n
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("METRICS_LISTEN"); v != "" {
		cfg.Metrics.Listen = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Range == "" {
		cfg.DataSource.Range = "6mo"
	}
	if cfg.DataSource.Retries == 0 {
		cfg.DataSource.Retries = 3
	}
	if cfg.DataSource.RequestsPerSecond == 0 {
		cfg.DataSource.RequestsPerSecond = 2
	}
	macd := calculator.DefaultMACDConfig()
	if cfg.Indicators.MACD.Fast == 0 {
		cfg.Indicators.MACD.Fast = macd.Fast
	}
	if cfg.Indicators.MACD.Slow == 0 {
		cfg.Indicators.MACD.Slow = macd.Slow
	}
	if cfg.Indicators.MACD.Signal == 0 {
		cfg.Indicators.MACD.Signal = macd.Signal
	}
	if cfg.Indicators.RSI.Period == 0 {
		cfg.Indicators.RSI.Period = calculator.DefaultRSIConfig().Period
	}
	th := calculator.DefaultRSIThresholds()
	if cfg.Indicators.RSI.Oversold == 0 {
		cfg.Indicators.RSI.Oversold = th.Oversold
	}
	if cfg.Indicators.RSI.Overbought == 0 {
		cfg.Indicators.RSI.Overbought = th.Overbought
	}
	if cfg.Combine.ToleranceDays == nil {
		n := strategy.DefaultToleranceDays
		cfg.Combine.ToleranceDays = &n
	}
	if cfg.Combine.Mode == "" {
		cfg.Combine.Mode = string(strategy.MatchAllPairs)
	}
	if cfg.Watch.Cron == "" {
		cfg.Watch.Cron = "0 30 22 * * 1-5"
	}
	if cfg.Watch.Concurrency == 0 {
		cfg.Watch.Concurrency = 4
	}

	return cfg, nil
}

// Strategy converts the indicator and combine sections into an analysis config.
func (c *Config) Strategy() strategy.Config {
	tolerance := strategy.DefaultToleranceDays
	if c.Combine.ToleranceDays != nil {
		tolerance = *c.Combine.ToleranceDays
	}
	return strategy.Config{
		MACD: calculator.MACDConfig{
			Fast:     c.Indicators.MACD.Fast,
			Slow:     c.Indicators.MACD.Slow,
			Signal:   c.Indicators.MACD.Signal,
			Adjusted: c.Indicators.MACD.Adjusted,
		},
		RSI: calculator.RSIConfig{Period: c.Indicators.RSI.Period},
		Thresholds: calculator.RSIThresholds{
			Oversold:   c.Indicators.RSI.Oversold,
			Overbought: c.Indicators.RSI.Overbought,
		},
		ToleranceDays: tolerance,
		Mode:          strategy.MatchMode(c.Combine.Mode),
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "vstrader":
		if c.DataSource.BaseURL == "" {
			return errors.New("data_source.base_url is required for the vstrader provider")
		}
	default:
		return errors.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}
	if c.DataSource.RequestsPerSecond < 0 {
		return errors.New("data_source.requests_per_second must not be negative")
	}
	return c.Strategy().Validate()
}

// ValidateWatch additionally checks what the watch command needs.
func (c *Config) ValidateWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.Watch.Symbols) == 0 {
		return errors.New("watch.symbols must not be empty")
	}
	if c.Watch.Concurrency < 0 {
		return errors.New("watch.concurrency must not be negative")
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(c.Watch.Cron); err != nil {
		return errors.Wrapf(err, "watch.cron %q", c.Watch.Cron)
	}
	if c.Telegram.BotToken == "" {
		return errors.New("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return errors.New("telegram.chat_id is required")
	}
	return nil
}

func splitSymbols(s string) []string {
	var out []string
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		out = append(out, strings.ToUpper(f))
	}
	return out
}
