package chart

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradehub/performance"
)

func day(d int, balance, growth, profit float64) performance.DailySnapshot {
	return performance.DailySnapshot{
		Date:         time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC),
		Balance:      balance,
		GrowthEquity: growth,
		Profit:       profit,
	}
}

func TestRenderDaily(t *testing.T) {
	t.Parallel()

	asc := []performance.DailySnapshot{
		day(7, 100000, 0, 0),
		day(8, 100500, 0.5, 500),
		day(9, 100300, 0.3, -200),
	}

	var buf bytes.Buffer
	require.NoError(t, RenderDaily(&buf, "12345", asc))

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "Account 12345")
	assert.Contains(t, out, "Mar 07, 2024")
	assert.Contains(t, out, "Mar 09, 2024")
	assert.Contains(t, out, "Daily Profit")
}

func TestRenderDaily_NoData(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := RenderDaily(&buf, "12345", nil)
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Zero(t, buf.Len())
}

func TestRound(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.23, round(1.2345, 2))
	assert.Equal(t, -0.5, round(-0.499, 1))
	assert.Equal(t, 0.0, round(math.NaN(), 2))
}
