package performance

import (
	"fmt"
	"io"
	"time"
)

const rule = "--------------------------------------------------"

// PrintReport writes a human readable summary of r.
func PrintReport(w io.Writer, r Report) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Account Performance")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Account:       %s\n", r.AccountID)
	fmt.Fprintf(w, "Generated:     %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Balance:       %.2f\n", r.StartingBalance)

	wm := r.Windowed
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Last %d days (since %s)\n", wm.WindowDays, wm.WindowStart.Format(DisplayLayout))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Result:        %.2f%% (%s$)\n", wm.PercentageGain, signed(wm.TotalProfit))
	fmt.Fprintf(w, "Drawdown:      %.2f%% ($%.2f)\n", wm.MaxDrawdown, wm.MaxDrawdownAmount)
	fmt.Fprintf(w, "Trades:        %d\n", wm.TradesInWindow)
	fmt.Fprintf(w, "Float:         $%.2f\n", wm.FloatingPL)
	fmt.Fprintf(w, "Open Orders:   %d\n", wm.OpenOrdersCount)

	at := r.AllTime
	fmt.Fprintln(w)
	fmt.Fprintln(w, "All Time")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Trades:        %d\n", at.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", at.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", at.Losses)
	fmt.Fprintf(w, "Win Rate:      %.1f%%\n", at.WinRate)
	fmt.Fprintf(w, "Average Win:   $%.2f\n", at.AvgWin)
	fmt.Fprintf(w, "Average Loss:  $%.2f\n", at.AvgLoss)

	fmt.Fprintln(w)
}

// PrintDaily writes the daily table, most recent day first.
func PrintDaily(w io.Writer, desc []DailySnapshot) {
	if len(desc) == 0 {
		fmt.Fprintln(w, "No data available")
		return
	}
	fmt.Fprintf(w, "%-14s %12s %8s %6s %12s %12s %8s\n", "Date", "Balance", "Pips", "Lots", "Floating P/L", "Profit", "Growth")
	for _, d := range desc {
		fmt.Fprintf(w, "%-14s %12.2f %8.1f %6.2f %12.2f %12.2f %7.2f%%\n",
			d.Label(), d.Balance, d.Pips, d.Lots, d.FloatingPL, d.Profit, d.GrowthEquity)
	}
}

// PrintHistory writes closed trades in the order given.
func PrintHistory(w io.Writer, history []ClosedTrade) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No trades")
		return
	}
	fmt.Fprintf(w, "%-16s %-16s %-8s %-5s %-10s %10s %10s %8s %10s\n",
		"Open", "Close", "Symbol", "Side", "Size", "Open Px", "Close Px", "Pips", "Result")
	for _, t := range history {
		fmt.Fprintf(w, "%-16s %-16s %-8s %-5s %-10s %10.5f %10.5f %8.1f %10s\n",
			t.OpenTime.Format("2006-01-02 15:04"),
			t.CloseTime.Format("2006-01-02 15:04"),
			t.Symbol, t.Action, t.Sizing.Value,
			t.OpenPrice, t.ClosePrice, t.Pips,
			t.RealizedResult().StringFixed(2))
	}
}

func signed(x float64) string {
	if x >= 0 {
		return fmt.Sprintf("+%.2f", x)
	}
	return fmt.Sprintf("%.2f", x)
}
