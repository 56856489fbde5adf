package performance

import (
	"slices"
	"sort"
	"time"
)

// RawDailySnapshot is a daily record as delivered upstream, date unparsed.
type RawDailySnapshot struct {
	Date         string  `json:"date"`
	Balance      float64 `json:"balance"`
	Pips         float64 `json:"pips"`
	Lots         float64 `json:"lots"`
	FloatingPL   float64 `json:"floatingPL"`
	Profit       float64 `json:"profit"`
	GrowthEquity float64 `json:"growthEquity"`
	FloatingPips float64 `json:"floatingPips"`
}

// RawOpenPosition is an open trade as delivered upstream.
type RawOpenPosition struct {
	OpenTime  string  `json:"openTime"`
	Symbol    string  `json:"symbol"`
	Action    string  `json:"action"`
	Sizing    Sizing  `json:"sizing"`
	OpenPrice float64 `json:"openPrice"`
	TP        float64 `json:"tp"`
	SL        float64 `json:"sl"`
	Comment   string  `json:"comment"`
	Profit    float64 `json:"profit"`
	Pips      float64 `json:"pips"`
	Swap      float64 `json:"swap"`
	Magic     int64   `json:"magic"`
}

// RawClosedTrade is a history record as delivered upstream.
type RawClosedTrade struct {
	OpenTime   string  `json:"openTime"`
	CloseTime  string  `json:"closeTime"`
	Symbol     string  `json:"symbol"`
	Action     string  `json:"action"`
	Sizing     Sizing  `json:"sizing"`
	OpenPrice  float64 `json:"openPrice"`
	ClosePrice float64 `json:"closePrice"`
	TP         float64 `json:"tp"`
	SL         float64 `json:"sl"`
	Comment    string  `json:"comment"`
	Pips       float64 `json:"pips"`
	Profit     float64 `json:"profit"`
	Interest   float64 `json:"interest"`
	Commission float64 `json:"commission"`
}

// FlattenDaily joins the nested daily arrays returned upstream, keeping order.
func FlattenDaily(nested [][]RawDailySnapshot) []RawDailySnapshot {
	n := 0
	for _, day := range nested {
		n += len(day)
	}
	out := make([]RawDailySnapshot, 0, n)
	for _, day := range nested {
		out = append(out, day...)
	}
	return out
}

// NormalizeDaily returns the snapshots unique per calendar date in
// ascending and descending order. Records whose date does not parse are
// dropped. On a duplicate date the later record in raw wins.
func NormalizeDaily(raw []RawDailySnapshot) (asc, desc []DailySnapshot) {
	byDate := make(map[time.Time]DailySnapshot, len(raw))
	for _, r := range raw {
		d, err := ParseDate(r.Date)
		if err != nil {
			continue
		}
		byDate[d] = DailySnapshot{
			Date:         d,
			Balance:      r.Balance,
			Pips:         r.Pips,
			Lots:         r.Lots,
			FloatingPL:   r.FloatingPL,
			Profit:       r.Profit,
			GrowthEquity: r.GrowthEquity,
			FloatingPips: r.FloatingPips,
		}
	}

	asc = make([]DailySnapshot, 0, len(byDate))
	for _, s := range byDate {
		asc = append(asc, s)
	}
	sort.Slice(asc, func(i, j int) bool { return asc[i].Date.Before(asc[j].Date) })

	desc = slices.Clone(asc)
	slices.Reverse(desc)
	return asc, desc
}

// NormalizeHistory parses raw history in loc and returns it ordered by
// close time, oldest first, along with the number of dropped records.
func NormalizeHistory(raw []RawClosedTrade, loc *time.Location) ([]ClosedTrade, int) {
	out := make([]ClosedTrade, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		open, err := ParseTime(r.OpenTime, loc)
		if err != nil {
			dropped++
			continue
		}
		closed, err := ParseTime(r.CloseTime, loc)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, ClosedTrade{
			OpenTime:   open,
			CloseTime:  closed,
			Symbol:     r.Symbol,
			Action:     r.Action,
			Sizing:     r.Sizing,
			OpenPrice:  r.OpenPrice,
			ClosePrice: r.ClosePrice,
			TP:         r.TP,
			SL:         r.SL,
			Comment:    r.Comment,
			Pips:       r.Pips,
			Profit:     r.Profit,
			Interest:   r.Interest,
			Commission: r.Commission,
		})
	}
	sortByClose(out)
	return out, dropped
}

// NormalizeOpen parses raw open positions in loc, preserving upstream order.
func NormalizeOpen(raw []RawOpenPosition, loc *time.Location) ([]OpenPosition, int) {
	out := make([]OpenPosition, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		open, err := ParseTime(r.OpenTime, loc)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, OpenPosition{
			OpenTime:  open,
			Symbol:    r.Symbol,
			Action:    r.Action,
			Sizing:    r.Sizing,
			OpenPrice: r.OpenPrice,
			TP:        r.TP,
			SL:        r.SL,
			Comment:   r.Comment,
			Profit:    r.Profit,
			Pips:      r.Pips,
			Swap:      r.Swap,
			Magic:     r.Magic,
		})
	}
	return out, dropped
}

// MostRecentFirst returns a copy of history ordered by close time, newest first.
func MostRecentFirst(history []ClosedTrade) []ClosedTrade {
	out := slices.Clone(history)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CloseTime.After(out[j].CloseTime) })
	return out
}

func sortByClose(trades []ClosedTrade) {
	sort.SliceStable(trades, func(i, j int) bool { return trades[i].CloseTime.Before(trades[j].CloseTime) })
}
