package performance

import "time"

// Input is one complete, already fetched record set for an account.
type Input struct {
	AccountID       string
	OpenPositions   []OpenPosition
	History         []ClosedTrade
	Daily           []RawDailySnapshot
	StartingBalance float64
	Now             time.Time
	WindowDays      int
}

// Report is everything the display layer needs for one account.
type Report struct {
	AccountID       string          `json:"accountId"`
	GeneratedAt     time.Time       `json:"generatedAt"`
	StartingBalance float64         `json:"startingBalance"`
	Windowed        WindowedMetrics `json:"windowed"`
	AllTime         AllTimeMetrics  `json:"allTime"`
	DailyAscending  []DailySnapshot `json:"dailyAscending"`
	DailyDescending []DailySnapshot `json:"dailyDescending"`
	History         []ClosedTrade   `json:"history"`
	OpenPositions   []OpenPosition  `json:"openPositions"`
}

// BuildReport computes a full report from in. It does not retain or share
// any state between calls. A zero Now means the current time.
func BuildReport(in Input) Report {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	asc, desc := NormalizeDaily(in.Daily)

	return Report{
		AccountID:       in.AccountID,
		GeneratedAt:     now,
		StartingBalance: in.StartingBalance,
		Windowed:        ComputeWindowedMetrics(in.History, in.OpenPositions, in.StartingBalance, now, in.WindowDays),
		AllTime:         ComputeAllTimeMetrics(in.History),
		DailyAscending:  asc,
		DailyDescending: desc,
		History:         MostRecentFirst(in.History),
		OpenPositions:   in.OpenPositions,
	}
}
