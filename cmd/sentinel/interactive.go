package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/scheduler"
	"SignalSentinel/internal/strategy"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "prompt for symbols and print their reports until quit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return prompt(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), newCollector(cfg), cfg.Strategy())
	},
}

var promptColor = color.New(color.FgCyan, color.Bold)

// prompt reads one symbol per line. "quit" or end of input stops the loop;
// blank lines prompt again.
func prompt(ctx context.Context, in io.Reader, out io.Writer, col *collector.Collector, cfg strategy.Config) error {
	scanner := bufio.NewScanner(in)
	for {
		promptColor.Fprint(out, "symbol (or quit)> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		symbol := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		switch symbol {
		case "":
			continue
		case "QUIT":
			return nil
		}

		a, err := scheduler.AnalyzeSymbol(ctx, col, cfg, symbol)
		if err != nil {
			log.WithError(err).Debug("analysis failed")
			color.New(color.FgRed).Fprintf(out, "cannot fetch %s\n", symbol)
			continue
		}
		fmt.Fprint(out, notifier.FormatConsoleReport(a))
	}
}
