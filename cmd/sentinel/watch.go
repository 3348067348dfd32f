package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "scan the watchlist on a schedule and alert over Telegram",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.ValidateWatch(); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

		sched := scheduler.NewScheduler(ctx, newCollector(cfg), tn, cfg.Strategy(), cfg.Watch.Symbols, cfg.Watch.Concurrency)
		if err := sched.Register(cfg.Watch.Cron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")

		if cfg.Metrics.Listen != "" {
			srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: metricsMux()}
			go func() {
				log.Infof("serving metrics on %s", cfg.Metrics.Listen)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.WithError(err).Error("metrics server")
				}
			}()
			defer func() {
				shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
				defer done()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}

		if os.Getenv("RUN_ON_START") == "true" {
			log.Info("RUN_ON_START enabled, scanning now")
			go sched.RunNow()
		}

		log.Infof("watching %d symbols (%s). Press Ctrl+C to stop.", len(cfg.Watch.Symbols), cfg.Watch.Cron)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
			log.Info("shutdown signal received, stopping...")
		case <-ctx.Done():
		}
		cancel()
		return nil
	},
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}
