package performance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sizing describes a position size as reported by the broker, e.g. {"lots", "0.10"}.
type Sizing struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// OpenPosition is one currently open trade. Snapshots are replaced
// wholesale on every refresh.
type OpenPosition struct {
	OpenTime  time.Time `json:"openTime"`
	Symbol    string    `json:"symbol"`
	Action    string    `json:"action"`
	Sizing    Sizing    `json:"sizing"`
	OpenPrice float64   `json:"openPrice"`
	TP        float64   `json:"tp"`
	SL        float64   `json:"sl"`
	Comment   string    `json:"comment"`
	Profit    float64   `json:"profit"`
	Pips      float64   `json:"pips"`
	Swap      float64   `json:"swap"`
	Magic     int64     `json:"magic"`
}

// Floating is the unrealized result of the position including swap.
func (p OpenPosition) Floating() decimal.Decimal {
	return dec(p.Profit).Add(dec(p.Swap))
}

// ClosedTrade is one completed trade from the account history.
type ClosedTrade struct {
	OpenTime   time.Time `json:"openTime"`
	CloseTime  time.Time `json:"closeTime"`
	Symbol     string    `json:"symbol"`
	Action     string    `json:"action"`
	Sizing     Sizing    `json:"sizing"`
	OpenPrice  float64   `json:"openPrice"`
	ClosePrice float64   `json:"closePrice"`
	TP         float64   `json:"tp"`
	SL         float64   `json:"sl"`
	Comment    string    `json:"comment"`
	Pips       float64   `json:"pips"`
	Profit     float64   `json:"profit"`
	Interest   float64   `json:"interest"`
	Commission float64   `json:"commission"`
}

// RealizedResult is profit + interest + commission, the only P&L figure
// used for a closed trade.
func (t ClosedTrade) RealizedResult() decimal.Decimal {
	return dec(t.Profit).Add(dec(t.Interest)).Add(dec(t.Commission))
}

// DailySnapshot is the account state for one calendar day.
type DailySnapshot struct {
	Date         time.Time `json:"date"`
	Balance      float64   `json:"balance"`
	Pips         float64   `json:"pips"`
	Lots         float64   `json:"lots"`
	FloatingPL   float64   `json:"floatingPL"`
	Profit       float64   `json:"profit"`
	GrowthEquity float64   `json:"growthEquity"`
	FloatingPips float64   `json:"floatingPips"`
}

// Label returns the display form of the snapshot date, e.g. "Mar 01, 2024".
func (d DailySnapshot) Label() string {
	return d.Date.Format(DisplayLayout)
}

// WindowedMetrics summarises the trailing window ending at the reference time.
type WindowedMetrics struct {
	PercentageGain    float64   `json:"percentageGain"`
	TotalProfit       float64   `json:"totalProfit"`
	MaxDrawdown       float64   `json:"maxDrawdown"`
	MaxDrawdownAmount float64   `json:"maxDrawdownAmount"`
	FloatingPL        float64   `json:"floatingPL"`
	OpenOrdersCount   int       `json:"openOrdersCount"`
	TradesInWindow    int       `json:"tradesInWindow"`
	WindowDays        int       `json:"windowDays"`
	WindowStart       time.Time `json:"windowStart"`
}

// AllTimeMetrics summarises the full closed-trade history.
type AllTimeMetrics struct {
	AvgWin  float64 `json:"avgWin"`
	AvgLoss float64 `json:"avgLoss"`
	WinRate float64 `json:"winRate"`
	Trades  int     `json:"trades"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
}

// LossRate is the share of trades with a non-positive result, in percent.
func (m AllTimeMetrics) LossRate() float64 {
	if m.Trades == 0 {
		return 0
	}
	return float64(m.Losses) / float64(m.Trades) * 100
}
