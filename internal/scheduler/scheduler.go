package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/strategy"
)

// Notifier delivers alert text.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Result is the outcome of analyzing one symbol.
type Result struct {
	Symbol   string
	Analysis *model.Analysis
	Err      error
}

// Scheduler manages the daily watchlist scan.
type Scheduler struct {
	Cron        *cron.Cron
	Collector   *collector.Collector
	Notifier    Notifier
	Strategy    strategy.Config
	Symbols     []string
	Concurrency int
	Ctx         context.Context

	mu     sync.Mutex
	alerts int
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n Notifier, cfg strategy.Config, symbols []string, concurrency int) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Collector:   col,
		Notifier:    n,
		Strategy:    cfg,
		Symbols:     symbols,
		Concurrency: concurrency,
		Ctx:         ctx,
	}
}

// Register adds the daily scan under the given cron spec (with seconds field).
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyCheck); err != nil {
		return errors.Wrap(err, "register daily task")
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// RunNow executes the daily scan immediately (for RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyCheck()
}

// AnalyzeSymbol fetches one symbol and runs the analysis pipeline on it.
func AnalyzeSymbol(ctx context.Context, col *collector.Collector, cfg strategy.Config, symbol string) (*model.Analysis, error) {
	series, err := col.Collect(ctx, symbol)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(symbol, "fetch_error").Inc()
		return nil, err
	}
	a, err := strategy.Analyze(series, cfg)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(symbol, "error").Inc()
		return nil, err
	}
	metrics.ObserveAnalysis(a)
	return a, nil
}

// AnalyzeAll analyzes every symbol concurrently, at most concurrency at a time.
// Results keep the order of symbols; a failed symbol carries its error.
func AnalyzeAll(ctx context.Context, col *collector.Collector, cfg strategy.Config, symbols []string, concurrency int) []Result {
	results := make([]Result, len(symbols))
	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			a, err := AnalyzeSymbol(ctx, col, cfg, symbol)
			results[i] = Result{Symbol: symbol, Analysis: a, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// LatestSignals returns the signals that fired on the last bar of the analysis.
func LatestSignals(a *model.Analysis) ([]model.SignalEvent, []model.CombinedSignalEvent) {
	n := a.Series.Len()
	if n == 0 {
		return nil, nil
	}
	events := a.EventsAt(n - 1)

	last := a.Latest.Time
	var combined []model.CombinedSignalEvent
	for _, c := range append(append([]model.CombinedSignalEvent{}, a.CombinedBuys...), a.CombinedSells...) {
		if c.Time.Equal(last) {
			combined = append(combined, c)
		}
	}
	return events, combined
}

func (s *Scheduler) dailyCheck() {
	runID := uuid.NewString()
	logger := log.WithField("run", runID)
	logger.Infof("running daily check for %d symbols", len(s.Symbols))

	results := AnalyzeAll(s.Ctx, s.Collector, s.Strategy, s.Symbols, s.Concurrency)

	var failed []string
	for _, r := range results {
		if r.Err != nil {
			logger.WithError(r.Err).WithField("symbol", r.Symbol).Error("daily analysis failed")
			failed = append(failed, r.Symbol)
			continue
		}

		events, combined := LatestSignals(r.Analysis)
		if len(events) == 0 && len(combined) == 0 {
			continue
		}
		for _, e := range events {
			metrics.ObserveSignal(r.Symbol, e)
		}
		logger.WithField("symbol", r.Symbol).Infof("%d signals, %d combined on latest bar", len(events), len(combined))
		s.trySend(notifier.FormatAlert(r.Analysis, events, combined))
		s.mu.Lock()
		s.alerts++
		s.mu.Unlock()
	}

	if len(failed) > 0 {
		s.trySend(fmt.Sprintf("❌ cannot fetch: %s", strings.Join(failed, ", ")))
	}
}

// Alerts returns how many alerts were sent since start.
func (s *Scheduler) Alerts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alerts
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "", "/start", "/help":
		return "Send a ticker (e.g. AAPL, TSLA, QQQ, SPY) for a MACD/RSI report.\n• /watchlist: watched symbols\n• /scan: run the daily check now"
	case "/watchlist":
		return "Watchlist: " + strings.Join(s.Symbols, ", ")
	case "/scan":
		go s.dailyCheck()
		return "Scanning watchlist..."
	}

	symbol := strings.ToUpper(strings.TrimPrefix(command, "/"))
	a, err := AnalyzeSymbol(ctx, s.Collector, s.Strategy, symbol)
	if err != nil {
		log.WithError(err).WithField("symbol", symbol).Warn("command analysis failed")
		return fmt.Sprintf("cannot fetch %s", symbol)
	}
	return notifier.FormatTelegramReport(a)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.WithError(err).Error("send notification")
	}
}
