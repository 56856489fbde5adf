package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/tradehub/performance"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	trade := sampleSnapshot().History[0]
	result := FormatTradeOrg(trade)

	assert.True(t, strings.HasPrefix(result, "** Trade: XAUUSD Buy (2024-03-08 09:00)\n"))
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":SIZING: 0.50 lots\n")
	assert.Contains(t, result, ":CLOSE_PRICE: 2160.50000\n")
	assert.Contains(t, result, ":CLOSE_TIME: 2024-03-08T09:00:00Z\n")
	assert.Contains(t, result, ":RESULT: 493.00\n")
	assert.NotContains(t, result, ":COMMENT:")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "*** Review")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	result := FormatTradesOrg(sampleSnapshot().History)
	assert.Equal(t, 2, strings.Count(result, "** Trade:"))
	assert.Empty(t, FormatTradesOrg(nil))
}

func TestFormatReportOrg(t *testing.T) {
	t.Parallel()

	snap := sampleSnapshot()
	snap.History = append(snap.History, performance.ClosedTrade{
		CloseTime: fetchedAt.AddDate(0, 0, -20),
		Symbol:    "GBPUSD",
		Profit:    10,
	})
	r := performance.BuildReport(snap.Input(5))
	result := FormatReportOrg(r)

	assert.True(t, strings.HasPrefix(result, "* Account 12345 (Mar 10, 2024)\n"))
	assert.Contains(t, result, ":GENERATED: "+fetchedAt.Format(time.RFC3339)+"\n")
	assert.Contains(t, result, ":TOTAL_PROFIT: 293.00\n")
	assert.Contains(t, result, ":OPEN_ORDERS: 1\n")
	assert.Equal(t, 2, strings.Count(result, "** Trade:"), "only trades inside the window")
	assert.NotContains(t, result, "GBPUSD")
}

func TestFormatReportOrg_WindowBoundary(t *testing.T) {
	t.Parallel()

	start := fetchedAt.AddDate(0, 0, -5)
	r := performance.BuildReport(performance.Input{
		AccountID:  "12345",
		Now:        fetchedAt,
		WindowDays: 5,
		History: []performance.ClosedTrade{
			{CloseTime: start, Symbol: "EDGE", Profit: 1},
			{CloseTime: start.Add(-time.Minute), Symbol: "EARLY", Profit: 1},
		},
	})
	result := FormatReportOrg(r)

	assert.Contains(t, result, "EDGE", "the window start is inclusive")
	assert.NotContains(t, result, "EARLY")
	assert.Equal(t, r.Windowed.TradesInWindow, strings.Count(result, "** Trade:"))
}
