package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/scheduler"
	"SignalSentinel/internal/strategy"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL...",
	Short: "print the indicator report of one or more symbols",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		symbols := make([]string, len(args))
		for i, a := range args {
			symbols[i] = strings.ToUpper(strings.TrimSpace(a))
		}
		printReports(cmd.Context(), cmd.OutOrStdout(), newCollector(cfg), cfg.Strategy(), symbols, cfg.Watch.Concurrency)
		return nil
	},
}

// printReports analyzes symbols concurrently and prints their reports in argument order.
// It returns how many symbols could not be fetched.
func printReports(ctx context.Context, w io.Writer, col *collector.Collector, cfg strategy.Config, symbols []string, concurrency int) int {
	failed := 0
	for _, r := range scheduler.AnalyzeAll(ctx, col, cfg, symbols, concurrency) {
		if r.Err != nil {
			fmt.Fprintf(w, "cannot fetch %s\n", r.Symbol)
			failed++
			continue
		}
		fmt.Fprint(w, notifier.FormatConsoleReport(r.Analysis))
	}
	return failed
}
