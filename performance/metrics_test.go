package performance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func closedAt(at time.Time, profit float64) ClosedTrade {
	return ClosedTrade{OpenTime: at.Add(-time.Hour), CloseTime: at, Symbol: "XAUUSD", Profit: profit}
}

func TestSelectWindow_BoundaryInclusive(t *testing.T) {
	t.Parallel()

	start := refNow.AddDate(0, 0, -5)
	history := []ClosedTrade{
		closedAt(start.Add(-time.Second), 1),
		closedAt(start, 2),
		closedAt(refNow, 3),
		closedAt(start.AddDate(0, 0, -30), 4),
	}

	w := SelectWindow(history, refNow, 5)
	assert.True(t, start.Equal(w.Start))
	require.Len(t, w.In, 2)
	require.Len(t, w.Out, 2)
	assert.Equal(t, 2.0, w.In[0].Profit)
	assert.Equal(t, 3.0, w.In[1].Profit)
	assert.Equal(t, 1.0, w.Out[0].Profit)
}

func TestSelectWindow_DefaultDays(t *testing.T) {
	t.Parallel()

	assert.True(t, refNow.AddDate(0, 0, -DefaultWindowDays).Equal(WindowStart(refNow, 0)))
	assert.True(t, refNow.AddDate(0, 0, -DefaultWindowDays).Equal(WindowStart(refNow, -3)))
	assert.True(t, refNow.AddDate(0, 0, -30).Equal(WindowStart(refNow, 30)))
}

func TestRealizedResult(t *testing.T) {
	t.Parallel()

	tr := ClosedTrade{Profit: 520.10, Interest: -5.05, Commission: -15.05}
	assert.Equal(t, "500", tr.RealizedResult().String())
}

func TestComputeWindowedMetrics_DrawdownScenario(t *testing.T) {
	t.Parallel()

	// delivered out of order; the walk must follow close time
	history := []ClosedTrade{
		closedAt(refNow.Add(-1*time.Hour), 300),
		closedAt(refNow.Add(-3*time.Hour), 500),
		{CloseTime: refNow.Add(-2 * time.Hour), Profit: -1990, Interest: -4, Commission: -6},
		closedAt(refNow.AddDate(0, 0, -20), -50000),
	}

	m := ComputeWindowedMetrics(history, nil, 100000, refNow, 5)

	assert.InDelta(t, -1200.0, m.TotalProfit, 1e-9)
	assert.InDelta(t, -1.2, m.PercentageGain, 1e-9)
	assert.InDelta(t, 2000.0/100500.0*100, m.MaxDrawdown, 1e-9)
	assert.InDelta(t, 1.99, m.MaxDrawdown, 0.001)
	assert.InDelta(t, m.MaxDrawdown*1000, m.MaxDrawdownAmount, 1e-6)
	assert.Equal(t, 3, m.TradesInWindow)
	assert.Equal(t, 5, m.WindowDays)
	assert.Zero(t, m.OpenOrdersCount)
	assert.Zero(t, m.FloatingPL)
}

func TestComputeWindowedMetrics_ZeroBalance(t *testing.T) {
	t.Parallel()

	history := []ClosedTrade{
		closedAt(refNow.Add(-time.Hour), 250),
		closedAt(refNow.Add(-30*time.Minute), -100),
	}

	m := ComputeWindowedMetrics(history, []OpenPosition{}, 0, refNow, 5)
	assert.Equal(t, 0.0, m.PercentageGain)
	assert.InDelta(t, 150.0, m.TotalProfit, 1e-9)
	assert.GreaterOrEqual(t, m.MaxDrawdown, 0.0)
	assert.Equal(t, 0.0, m.MaxDrawdownAmount)
}

func TestComputeWindowedMetrics_NonPositivePeak(t *testing.T) {
	t.Parallel()

	history := []ClosedTrade{
		closedAt(refNow.Add(-2*time.Hour), -100),
		closedAt(refNow.Add(-time.Hour), -50),
	}

	m := ComputeWindowedMetrics(history, nil, 0, refNow, 5)
	assert.Equal(t, 0.0, m.MaxDrawdown)
	assert.InDelta(t, -150.0, m.TotalProfit, 1e-9)
}

func TestComputeWindowedMetrics_Empty(t *testing.T) {
	t.Parallel()

	m := ComputeWindowedMetrics(nil, nil, 100000, refNow, 5)
	assert.Equal(t, 0.0, m.TotalProfit)
	assert.Equal(t, 0.0, m.PercentageGain)
	assert.Equal(t, 0.0, m.MaxDrawdown)
	assert.Equal(t, 0, m.TradesInWindow)
}

func TestComputeWindowedMetrics_FloatingIgnoresWindow(t *testing.T) {
	t.Parallel()

	open := []OpenPosition{
		{OpenTime: refNow.AddDate(-1, 0, 0), Profit: 10.5, Swap: -0.5},
		{OpenTime: refNow.Add(-time.Minute), Profit: -20, Swap: -1},
	}

	m := ComputeWindowedMetrics(nil, open, 100000, refNow, 5)
	assert.InDelta(t, -11.0, m.FloatingPL, 1e-9)
	assert.Equal(t, 2, m.OpenOrdersCount)
}

func TestComputeWindowedMetrics_DrawdownMonotonic(t *testing.T) {
	t.Parallel()

	history := []ClosedTrade{
		closedAt(refNow.Add(-10*time.Hour), 800),
		closedAt(refNow.Add(-9*time.Hour), -300),
	}

	prev := ComputeWindowedMetrics(history, nil, 50000, refNow, 5).MaxDrawdown
	for i := 0; i < 8; i++ {
		history = append(history, closedAt(refNow.Add(time.Duration(-8+i)*time.Hour), -float64(100*(i+1))))
		dd := ComputeWindowedMetrics(history, nil, 50000, refNow, 5).MaxDrawdown
		assert.GreaterOrEqual(t, dd, prev)
		prev = dd
	}
	assert.Greater(t, prev, 0.0)
}

func TestComputeWindowedMetrics_DoesNotReorderInput(t *testing.T) {
	t.Parallel()

	history := []ClosedTrade{
		closedAt(refNow.Add(-time.Hour), 1),
		closedAt(refNow.Add(-2*time.Hour), 2),
	}

	_ = ComputeWindowedMetrics(history, nil, 1000, refNow, 5)
	assert.Equal(t, 1.0, history[0].Profit)
	assert.Equal(t, 2.0, history[1].Profit)
}

func TestComputeAllTimeMetrics_Scenario(t *testing.T) {
	t.Parallel()

	history := []ClosedTrade{
		{Profit: 10},
		{Profit: -5},
		{Profit: 20},
		{Profit: 0},
		{Profit: 25, Interest: 2, Commission: 3},
	}

	m := ComputeAllTimeMetrics(history)
	assert.InDelta(t, 60.0, m.WinRate, 1e-9)
	assert.InDelta(t, 20.0, m.AvgWin, 1e-9)
	assert.InDelta(t, -2.5, m.AvgLoss, 1e-9)
	assert.Equal(t, 5, m.Trades)
	assert.Equal(t, 3, m.Wins)
	assert.Equal(t, 2, m.Losses)
	assert.InDelta(t, 40.0, m.LossRate(), 1e-9)
}

func TestComputeAllTimeMetrics_ZeroResultIsLoss(t *testing.T) {
	t.Parallel()

	// profit and costs cancel exactly
	m := ComputeAllTimeMetrics([]ClosedTrade{{Profit: 7.1, Interest: -0.1, Commission: -7}})
	assert.Equal(t, 0.0, m.WinRate)
	assert.Equal(t, 1, m.Losses)
	assert.Equal(t, 0.0, m.AvgWin)
	assert.Equal(t, 0.0, m.AvgLoss)
}

func TestComputeAllTimeMetrics_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, AllTimeMetrics{}, ComputeAllTimeMetrics(nil))
	assert.Equal(t, AllTimeMetrics{}, ComputeAllTimeMetrics([]ClosedTrade{}))
	assert.Equal(t, 0.0, AllTimeMetrics{}.LossRate())
}

func TestComputeAllTimeMetrics_RatesSumToHundred(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profits []float64
	}{
		{"all wins", []float64{1, 2, 3}},
		{"all losses", []float64{-1, 0, -3}},
		{"mixed", []float64{5, -5, 0, 12, -1, 3, 0}},
		{"single", []float64{0.01}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			history := make([]ClosedTrade, 0, len(tt.profits))
			for _, p := range tt.profits {
				history = append(history, ClosedTrade{Profit: p})
			}
			m := ComputeAllTimeMetrics(history)
			assert.GreaterOrEqual(t, m.WinRate, 0.0)
			assert.LessOrEqual(t, m.WinRate, 100.0)
			assert.InDelta(t, 100.0, m.WinRate+m.LossRate(), 1e-9)
			assert.LessOrEqual(t, m.AvgLoss, 0.0)
		})
	}
}
