package main

import (
	"os"
	_ "time/tzdata"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/config"
)

var RootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "MACD/RSI signal sentinel",
	Long:  "Daily-bar MACD and RSI crossover signals, with combined MACD+RSI confirmation",

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, err := cmd.Flags().GetBool("debug")
		if err != nil {
			return err
		}
		if debug {
			log.SetLevel(log.DebugLevel)
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().Bool("debug", false, "debug flag")
	RootCmd.PersistentFlags().String("config", "configs/config.yaml", "config file")

	RootCmd.AddCommand(analyzeCmd, interactiveCmd, watchCmd)
}

// loadConfig reads the config named by --config (or CONFIG_PATH) and validates it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" && !cmd.Flags().Changed("config") {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case "vstrader":
		return collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		return &collector.MockFetcher{Price: 100}
	default:
		return collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.RequestsPerSecond)
	}
}

func newCollector(cfg *config.Config) *collector.Collector {
	fetcher := newFetcher(cfg)
	log.Debugf("data source: %s", fetcher.Name())
	return collector.NewCollector(fetcher, cfg.DataSource.Range, cfg.DataSource.Retries)
}

func main() {
	config.LoadEnv(".env.local", ".env")
	log.SetFormatter(&prefixed.TextFormatter{})

	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("cannot execute command")
	}
}
