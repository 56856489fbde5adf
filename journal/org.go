package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradehub/performance"
)

// FormatTradeOrg renders a closed trade as an Org-mode block. Facts go in
// the PROPERTIES drawer; the Review heading is left for notes.
func FormatTradeOrg(t performance.ClosedTrade) string {
	heading := fmt.Sprintf("** Trade: %s %s (%s)", t.Symbol, t.Action, t.CloseTime.Format("2006-01-02 15:04"))
	open := t.OpenTime.UTC().Format(time.RFC3339)
	close := t.CloseTime.UTC().Format(time.RFC3339)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":ACTION: %s\n", t.Action))
	b.WriteString(fmt.Sprintf(":SIZING: %s %s\n", t.Sizing.Value, t.Sizing.Type))
	b.WriteString(fmt.Sprintf(":OPEN_PRICE: %.5f\n", t.OpenPrice))
	b.WriteString(fmt.Sprintf(":CLOSE_PRICE: %.5f\n", t.ClosePrice))
	b.WriteString(fmt.Sprintf(":OPEN_TIME: %s\n", open))
	b.WriteString(fmt.Sprintf(":CLOSE_TIME: %s\n", close))
	b.WriteString(fmt.Sprintf(":PIPS: %.1f\n", t.Pips))
	b.WriteString(fmt.Sprintf(":RESULT: %s\n", t.RealizedResult().StringFixed(2)))
	if t.Comment != "" {
		b.WriteString(fmt.Sprintf(":COMMENT: %s\n", t.Comment))
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []performance.ClosedTrade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

// FormatReportOrg renders a report heading with its metrics as properties,
// followed by the trades closed inside the window.
func FormatReportOrg(r performance.Report) string {
	wm := r.Windowed
	at := r.AllTime

	var b strings.Builder
	b.WriteString(fmt.Sprintf("* Account %s (%s)\n", r.AccountID, r.GeneratedAt.Format(performance.DisplayLayout)))
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ACCOUNT: %s\n", r.AccountID))
	b.WriteString(fmt.Sprintf(":GENERATED: %s\n", r.GeneratedAt.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":BALANCE: %.2f\n", r.StartingBalance))
	b.WriteString(fmt.Sprintf(":WINDOW_DAYS: %d\n", wm.WindowDays))
	b.WriteString(fmt.Sprintf(":GAIN_PCT: %.2f\n", wm.PercentageGain))
	b.WriteString(fmt.Sprintf(":TOTAL_PROFIT: %.2f\n", wm.TotalProfit))
	b.WriteString(fmt.Sprintf(":MAX_DRAWDOWN_PCT: %.2f\n", wm.MaxDrawdown))
	b.WriteString(fmt.Sprintf(":FLOATING_PL: %.2f\n", wm.FloatingPL))
	b.WriteString(fmt.Sprintf(":OPEN_ORDERS: %d\n", wm.OpenOrdersCount))
	b.WriteString(fmt.Sprintf(":WIN_RATE: %.1f\n", at.WinRate))
	b.WriteString(fmt.Sprintf(":AVG_WIN: %.2f\n", at.AvgWin))
	b.WriteString(fmt.Sprintf(":AVG_LOSS: %.2f\n", at.AvgLoss))
	b.WriteString(":END:\n")

	inWindow := performance.SelectWindow(r.History, r.GeneratedAt, wm.WindowDays).In
	if len(inWindow) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatTradesOrg(inWindow))
	}
	return b.String()
}
