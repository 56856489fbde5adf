package performance

import (
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

var hundred = decimal.NewFromInt(100)

// ComputeWindowedMetrics derives the trailing-window figures. History may
// be in any order; in-window trades are walked by close time for the
// drawdown. A zero starting balance yields a zero percentage gain.
func ComputeWindowedMetrics(history []ClosedTrade, open []OpenPosition, startingBalance float64, now time.Time, windowDays int) WindowedMetrics {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	w := SelectWindow(history, now, windowDays)
	sortByClose(w.In)

	results := realized(w.In)
	balance := dec(startingBalance)

	total := decimal.Sum(decimal.Zero, results...)
	maxDD := maxDrawdown(balance, results)

	m := WindowedMetrics{
		TotalProfit:     toFloat(total),
		MaxDrawdown:     maxDD,
		FloatingPL:      toFloat(floating(open)),
		OpenOrdersCount: len(open),
		TradesInWindow:  len(w.In),
		WindowDays:      windowDays,
		WindowStart:     w.Start,
	}
	if !balance.IsZero() {
		m.PercentageGain = toFloat(total.Div(balance).Mul(hundred))
	}
	m.MaxDrawdownAmount = maxDD * startingBalance / 100
	return m
}

// ComputeAllTimeMetrics derives win rate and average win/loss over the full
// history. A trade with a zero result counts as a loss.
func ComputeAllTimeMetrics(history []ClosedTrade) AllTimeMetrics {
	if len(history) == 0 {
		return AllTimeMetrics{}
	}

	var wins, losses []float64
	for _, r := range realized(history) {
		v := toFloat(r)
		if r.IsPositive() {
			wins = append(wins, v)
			continue
		}
		losses = append(losses, v)
	}

	return AllTimeMetrics{
		AvgWin:  mean(wins),
		AvgLoss: mean(losses),
		WinRate: float64(len(wins)) / float64(len(history)) * 100,
		Trades:  len(history),
		Wins:    len(wins),
		Losses:  len(losses),
	}
}

// maxDrawdown walks the balance from start through results and returns the
// largest decline from the running peak, in percent of that peak.
func maxDrawdown(start decimal.Decimal, results []decimal.Decimal) float64 {
	balance := start
	peak := start
	worst := 0.0
	for _, r := range results {
		balance = balance.Add(r)
		peak = decimal.Max(peak, balance)
		if !peak.IsPositive() {
			continue
		}
		dd := toFloat(peak.Sub(balance).Div(peak).Mul(hundred))
		if dd > worst {
			worst = dd
		}
	}
	return worst
}

func realized(trades []ClosedTrade) []decimal.Decimal {
	out := make([]decimal.Decimal, len(trades))
	for i, t := range trades {
		out[i] = t.RealizedResult()
	}
	return out
}

func floating(open []OpenPosition) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range open {
		sum = sum.Add(p.Floating())
	}
	return sum
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}
