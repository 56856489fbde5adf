package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradehub/pkg/id"
)

// SQLite keeps the latest raw snapshot of every imported account.
type SQLite struct {
	db *sql.DB
}

// AccountSummary describes the snapshot held for one account.
type AccountSummary struct {
	AccountID  string    `json:"accountId"`
	SnapshotID string    `json:"snapshotId"`
	FetchedAt  time.Time `json:"fetchedAt"`
	Balance    float64   `json:"balance"`
	Currency   string    `json:"currency"`
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// RecordSnapshot stores s and drops the account's previous snapshot in the
// same transaction. It returns the new snapshot id.
func (j *SQLite) RecordSnapshot(ctx context.Context, s Snapshot) (string, error) {
	if s.AccountID == "" {
		return "", fmt.Errorf("snapshot has no account id")
	}
	if s.FetchedAt.IsZero() {
		s.FetchedAt = time.Now()
	}
	if s.ID == "" {
		s.ID = id.At(s.FetchedAt)
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if err := deleteAccount(ctx, tx, s.AccountID); err != nil {
		return "", err
	}

	_, offset := s.FetchedAt.Zone()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (snapshot_id, account_id, fetched_at, timezone, tz_offset, balance, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.AccountID, s.FetchedAt.UTC(), s.FetchedAt.Location().String(), offset, s.Balance, s.Currency,
	); err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	for i, t := range s.History {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO closed_trades
			(snapshot_id, seq, open_time, close_time, symbol, action, sizing_type, sizing_value,
			 open_price, close_price, tp, sl, comment, pips, profit, interest, commission)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, i, t.OpenTime.UTC(), t.CloseTime.UTC(), t.Symbol, t.Action, t.Sizing.Type, t.Sizing.Value,
			t.OpenPrice, t.ClosePrice, t.TP, t.SL, t.Comment, t.Pips, t.Profit, t.Interest, t.Commission,
		); err != nil {
			return "", fmt.Errorf("insert closed trade %d: %w", i, err)
		}
	}

	for i, p := range s.Open {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO open_positions
			(snapshot_id, seq, open_time, symbol, action, sizing_type, sizing_value,
			 open_price, tp, sl, comment, profit, pips, swap, magic)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, i, p.OpenTime.UTC(), p.Symbol, p.Action, p.Sizing.Type, p.Sizing.Value,
			p.OpenPrice, p.TP, p.SL, p.Comment, p.Profit, p.Pips, p.Swap, p.Magic,
		); err != nil {
			return "", fmt.Errorf("insert open position %d: %w", i, err)
		}
	}

	for i, d := range s.Daily {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO daily
			(snapshot_id, seq, date, balance, pips, lots, floating_pl, profit, growth_equity, floating_pips)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, i, d.Date, d.Balance, d.Pips, d.Lots, d.FloatingPL, d.Profit, d.GrowthEquity, d.FloatingPips,
		); err != nil {
			return "", fmt.Errorf("insert daily %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return s.ID, nil
}

func deleteAccount(ctx context.Context, tx *sql.Tx, accountID string) error {
	for _, table := range []string{"closed_trades", "open_positions", "daily"} {
		q := fmt.Sprintf(`DELETE FROM %s WHERE snapshot_id IN
			(SELECT snapshot_id FROM snapshots WHERE account_id = ?)`, table)
		if _, err := tx.ExecContext(ctx, q, accountID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	return nil
}

// Snapshot loads the stored snapshot of an account, or ErrNoSnapshot.
func (j *SQLite) Snapshot(ctx context.Context, accountID string) (Snapshot, error) {
	var (
		s      Snapshot
		tz     string
		offset int
	)
	row := j.db.QueryRowContext(ctx, `
		SELECT snapshot_id, account_id, fetched_at, timezone, tz_offset, balance, currency
		FROM snapshots
		WHERE account_id = ?`, accountID)
	if err := row.Scan(&s.ID, &s.AccountID, &s.FetchedAt, &tz, &offset, &s.Balance, &s.Currency); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, fmt.Errorf("account %s: %w", accountID, ErrNoSnapshot)
		}
		return Snapshot{}, err
	}
	// The window edge is computed in this zone, so restore it.
	s.FetchedAt = s.FetchedAt.In(location(tz, offset))

	var err error
	if s.History, err = j.closedTrades(ctx, `WHERE snapshot_id = ?`, s.ID); err != nil {
		return Snapshot{}, err
	}
	if s.Open, err = j.openPositions(ctx, s.ID); err != nil {
		return Snapshot{}, err
	}
	if s.Daily, err = j.daily(ctx, s.ID); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Accounts lists every account with a stored snapshot, ordered by id.
func (j *SQLite) Accounts(ctx context.Context) ([]AccountSummary, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT account_id, snapshot_id, fetched_at, balance, currency
		FROM snapshots
		ORDER BY account_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AccountSummary{}
	for rows.Next() {
		var a AccountSummary
		if err := rows.Scan(&a.AccountID, &a.SnapshotID, &a.FetchedAt, &a.Balance, &a.Currency); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

// location resolves a stored zone name, falling back to a fixed offset
// when the name is not in the zone database.
func location(name string, offset int) *time.Location {
	switch name {
	case "", "UTC":
		return time.UTC
	case "Local":
		return time.Local
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.FixedZone(name, offset)
}
