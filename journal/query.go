package journal

import (
	"context"
	"time"

	"github.com/rustyeddy/tradehub/performance"
)

// ListTradesClosedBetween returns trades of a snapshot whose close time
// is within [start, end), oldest first.
func (j *SQLite) ListTradesClosedBetween(ctx context.Context, snapshotID string, start, end time.Time) ([]performance.ClosedTrade, error) {
	return j.closedTrades(ctx, `WHERE snapshot_id = ? AND close_time >= ? AND close_time < ?`,
		snapshotID, start.UTC(), end.UTC())
}

func (j *SQLite) closedTrades(ctx context.Context, where string, args ...any) ([]performance.ClosedTrade, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT open_time, close_time, symbol, action, sizing_type, sizing_value,
		       open_price, close_price, tp, sl, comment, pips, profit, interest, commission
		FROM closed_trades `+where+`
		ORDER BY seq ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []performance.ClosedTrade
	for rows.Next() {
		var t performance.ClosedTrade
		if err := rows.Scan(
			&t.OpenTime,
			&t.CloseTime,
			&t.Symbol,
			&t.Action,
			&t.Sizing.Type,
			&t.Sizing.Value,
			&t.OpenPrice,
			&t.ClosePrice,
			&t.TP,
			&t.SL,
			&t.Comment,
			&t.Pips,
			&t.Profit,
			&t.Interest,
			&t.Commission,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLite) openPositions(ctx context.Context, snapshotID string) ([]performance.OpenPosition, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT open_time, symbol, action, sizing_type, sizing_value,
		       open_price, tp, sl, comment, profit, pips, swap, magic
		FROM open_positions
		WHERE snapshot_id = ?
		ORDER BY seq ASC`, snapshotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []performance.OpenPosition
	for rows.Next() {
		var p performance.OpenPosition
		if err := rows.Scan(
			&p.OpenTime,
			&p.Symbol,
			&p.Action,
			&p.Sizing.Type,
			&p.Sizing.Value,
			&p.OpenPrice,
			&p.TP,
			&p.SL,
			&p.Comment,
			&p.Profit,
			&p.Pips,
			&p.Swap,
			&p.Magic,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (j *SQLite) daily(ctx context.Context, snapshotID string) ([]performance.RawDailySnapshot, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT date, balance, pips, lots, floating_pl, profit, growth_equity, floating_pips
		FROM daily
		WHERE snapshot_id = ?
		ORDER BY seq ASC`, snapshotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []performance.RawDailySnapshot
	for rows.Next() {
		var d performance.RawDailySnapshot
		if err := rows.Scan(
			&d.Date,
			&d.Balance,
			&d.Pips,
			&d.Lots,
			&d.FloatingPL,
			&d.Profit,
			&d.GrowthEquity,
			&d.FloatingPips,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
