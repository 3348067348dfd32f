package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"SignalSentinel/internal/model"
)

// RecentCount is how many of the latest dates each signal list shows.
const RecentCount = 3

func fixed(p model.IndicatorPoint, places int32) string {
	if !p.Valid {
		return "N/A"
	}
	return decimal.NewFromFloat(p.Value).StringFixed(places)
}

func price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func recentEventDates(events []model.SignalEvent) []string {
	if len(events) > RecentCount {
		events = events[len(events)-RecentCount:]
	}
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Time.Format(time.DateOnly)
	}
	return out
}

func recentCombinedDates(events []model.CombinedSignalEvent) []string {
	if len(events) > RecentCount {
		events = events[len(events)-RecentCount:]
	}
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Time.Format(time.DateOnly)
	}
	return out
}

func joinDates(dates []string) string {
	if len(dates) == 0 {
		return "none"
	}
	return strings.Join(dates, ", ")
}

func newTable() table.Writer {
	t := table.NewWriter()
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	t.SetStyle(style)
	return t
}

// FormatConsoleReport renders the latest values and recent signal dates as tables.
func FormatConsoleReport(a *model.Analysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s technical indicators\n", strings.ToUpper(a.Symbol)))

	latest := newTable()
	latest.AppendHeader(table.Row{"Date", "Close", "MACD", "Signal", "Histogram", "RSI", "Zone"})
	latest.AppendRow(table.Row{
		a.Latest.Time.Format(time.DateOnly),
		"$" + price(a.Latest.Close),
		fixed(a.Latest.MACD, 4),
		fixed(a.Latest.SignalLine, 4),
		fixed(a.Latest.Histogram, 4),
		fixed(a.Latest.RSI, 2),
		string(a.Latest.Zone),
	})
	b.WriteString(latest.Render())
	b.WriteString("\n")

	signals := newTable()
	signals.SetTitle(fmt.Sprintf("Recent signals (last %d)", RecentCount))
	signals.AppendHeader(table.Row{"Source", "Buy", "Sell"})
	signals.AppendRow(table.Row{"MACD", joinDates(recentEventDates(a.MACDBuys)), joinDates(recentEventDates(a.MACDSells))})
	signals.AppendRow(table.Row{"RSI", joinDates(recentEventDates(a.RSIBuys)), joinDates(recentEventDates(a.RSISells))})
	signals.AppendSeparator()
	signals.AppendRow(table.Row{"MACD+RSI", joinDates(recentCombinedDates(a.CombinedBuys)), joinDates(recentCombinedDates(a.CombinedSells))})
	b.WriteString(signals.Render())
	b.WriteString("\n")

	return b.String()
}

// FormatTelegramReport formats an analysis into a Telegram HTML message.
func FormatTelegramReport(a *model.Analysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", strings.ToUpper(a.Symbol), a.Latest.Time.Format(time.DateOnly)))
	b.WriteString(fmt.Sprintf("Close: $%s\n", price(a.Latest.Close)))
	b.WriteString(fmt.Sprintf("MACD: %s | Signal: %s\n", fixed(a.Latest.MACD, 4), fixed(a.Latest.SignalLine, 4)))
	b.WriteString(fmt.Sprintf("RSI: %s (%s)\n\n", fixed(a.Latest.RSI, 2), a.Latest.Zone))

	b.WriteString("📈 <b>Recent signals:</b>\n")
	b.WriteString(fmt.Sprintf("  MACD buy: %s\n", joinDates(recentEventDates(a.MACDBuys))))
	b.WriteString(fmt.Sprintf("  MACD sell: %s\n", joinDates(recentEventDates(a.MACDSells))))
	b.WriteString(fmt.Sprintf("  RSI buy: %s\n", joinDates(recentEventDates(a.RSIBuys))))
	b.WriteString(fmt.Sprintf("  RSI sell: %s\n", joinDates(recentEventDates(a.RSISells))))
	b.WriteString(fmt.Sprintf("  MACD+RSI buy: %s\n", joinDates(recentCombinedDates(a.CombinedBuys))))
	b.WriteString(fmt.Sprintf("  MACD+RSI sell: %s\n", joinDates(recentCombinedDates(a.CombinedSells))))

	return b.String()
}

// FormatAlert formats the signals that fired on the latest bar.
func FormatAlert(a *model.Analysis, events []model.SignalEvent, combined []model.CombinedSignalEvent) string {
	var b strings.Builder

	icon := "🔔"
	if len(combined) > 0 {
		icon = "🚨"
	}
	b.WriteString(fmt.Sprintf("%s <b>%s signal</b> | %s\n\n", icon, strings.ToUpper(a.Symbol), a.Latest.Time.Format(time.DateOnly)))
	for _, e := range events {
		b.WriteString(fmt.Sprintf("• %s %s\n", e.Source, e.Kind))
	}
	for _, c := range combined {
		b.WriteString(fmt.Sprintf("• MACD+RSI %s confirmed\n", c.Kind))
	}
	b.WriteString(fmt.Sprintf("\nClose: $%s | RSI: %s (%s)\n", price(a.Latest.Close), fixed(a.Latest.RSI, 2), a.Latest.Zone))
	return b.String()
}
