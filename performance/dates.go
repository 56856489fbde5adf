package performance

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the only accepted input layout for daily snapshot dates,
	// month first. Month and day may have one or two digits.
	DateLayout = "1/2/2006"

	// TimeLayout is the input layout for trade open/close timestamps.
	TimeLayout = "1/2/2006 15:04"

	// DisplayLayout is the canonical output form of a calendar date.
	DisplayLayout = "Jan 02, 2006"

	// DefaultWindowDays is the trailing window used when none is given.
	DefaultWindowDays = 5
)

// ParseDate parses s against DateLayout and returns midnight UTC of that
// calendar day. Any other format is an error; callers drop the record.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseTime parses a trade timestamp in the broker location. A nil
// location means UTC.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(TimeLayout, strings.TrimSpace(s), loc)
}

func dec(x float64) decimal.Decimal {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(x)
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
