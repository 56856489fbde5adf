package performance

import "time"

// Window is closed-trade history split around a trailing window.
type Window struct {
	Start time.Time
	In    []ClosedTrade
	Out   []ClosedTrade
}

// WindowStart returns now minus days calendar days, in now's location.
func WindowStart(now time.Time, days int) time.Time {
	if days <= 0 {
		days = DefaultWindowDays
	}
	return now.AddDate(0, 0, -days)
}

// SelectWindow splits history into trades closed at or after the window
// start and the rest. Input order is preserved in both halves.
func SelectWindow(history []ClosedTrade, now time.Time, days int) Window {
	w := Window{Start: WindowStart(now, days)}
	for _, t := range history {
		if t.CloseTime.Before(w.Start) {
			w.Out = append(w.Out, t)
			continue
		}
		w.In = append(w.In, t)
	}
	return w
}
