package journal

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradehub/performance"
)

var fetchedAt = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return j, path
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		AccountID: "12345",
		FetchedAt: fetchedAt,
		Balance:   100000,
		Currency:  "USD",
		History: []performance.ClosedTrade{
			{
				OpenTime:   time.Date(2024, 3, 8, 8, 0, 0, 0, time.UTC),
				CloseTime:  time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC),
				Symbol:     "XAUUSD",
				Action:     "Buy",
				Sizing:     performance.Sizing{Type: "lots", Value: "0.50"},
				OpenPrice:  2150.5,
				ClosePrice: 2160.5,
				Profit:     500,
				Commission: -7,
			},
			{
				OpenTime:  time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC),
				CloseTime: time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC),
				Symbol:    "EURUSD",
				Action:    "Sell",
				Profit:    -200,
			},
		},
		Open: []performance.OpenPosition{
			{OpenTime: time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC), Symbol: "XAUUSD", Profit: 42, Swap: -2, Magic: 9001},
		},
		Daily: []performance.RawDailySnapshot{
			{Date: "03/09/2024", Balance: 100300},
			{Date: "03/08/2024", Balance: 100493},
		},
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table'`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	for _, table := range []string{"snapshots", "closed_trades", "open_positions", "daily"} {
		assert.True(t, found[table], table)
	}
}

func TestSQLiteRecordAndLoadSnapshot(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	snapID, err := j.RecordSnapshot(ctx, sampleSnapshot())
	require.NoError(t, err)
	assert.Len(t, snapID, 26)

	got, err := j.Snapshot(ctx, "12345")
	require.NoError(t, err)

	assert.Equal(t, snapID, got.ID)
	assert.True(t, fetchedAt.Equal(got.FetchedAt))
	assert.Equal(t, 100000.0, got.Balance)
	assert.Equal(t, "USD", got.Currency)

	require.Len(t, got.History, 2)
	first := got.History[0]
	assert.Equal(t, "XAUUSD", first.Symbol)
	assert.Equal(t, performance.Sizing{Type: "lots", Value: "0.50"}, first.Sizing)
	assert.True(t, time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC).Equal(first.CloseTime))
	assert.InDelta(t, 2160.5, first.ClosePrice, 1e-9)
	assert.InDelta(t, -7.0, first.Commission, 1e-9)

	require.Len(t, got.Open, 1)
	assert.Equal(t, int64(9001), got.Open[0].Magic)

	require.Len(t, got.Daily, 2)
	assert.Equal(t, "03/09/2024", got.Daily[0].Date, "raw daily order is preserved")
}

func TestSQLiteSnapshotReplacesPrevious(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	ctx := context.Background()

	_, err := j.RecordSnapshot(ctx, sampleSnapshot())
	require.NoError(t, err)

	next := Snapshot{
		AccountID: "12345",
		FetchedAt: fetchedAt.Add(time.Hour),
		Balance:   99000,
		History:   sampleSnapshot().History[:1],
	}
	nextID, err := j.RecordSnapshot(ctx, next)
	require.NoError(t, err)

	got, err := j.Snapshot(ctx, "12345")
	require.NoError(t, err)
	assert.Equal(t, nextID, got.ID)
	assert.Equal(t, 99000.0, got.Balance)
	assert.Len(t, got.History, 1)
	assert.Empty(t, got.Open)
	assert.Empty(t, got.Daily)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM closed_trades`).Scan(&n))
	assert.Equal(t, 1, n, "old rows are removed")
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLiteSnapshotMissing(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)

	_, err := j.Snapshot(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSnapshot))
}

func TestSQLiteRecordSnapshotRequiresAccount(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)

	_, err := j.RecordSnapshot(context.Background(), Snapshot{})
	assert.Error(t, err)
}

func TestSQLiteAccounts(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	accounts, err := j.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
	assert.NotNil(t, accounts, "no imports is an empty list")

	other := sampleSnapshot()
	other.AccountID = "111"
	other.Balance = 5000
	_, err = j.RecordSnapshot(ctx, sampleSnapshot())
	require.NoError(t, err)
	_, err = j.RecordSnapshot(ctx, other)
	require.NoError(t, err)

	accounts, err = j.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "111", accounts[0].AccountID)
	assert.Equal(t, 5000.0, accounts[0].Balance)
	assert.Equal(t, "12345", accounts[1].AccountID)
}

func TestSnapshotInputMatchesLiveReport(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	snap := sampleSnapshot()
	_, err := j.RecordSnapshot(ctx, snap)
	require.NoError(t, err)

	stored, err := j.Snapshot(ctx, "12345")
	require.NoError(t, err)

	live := performance.BuildReport(snap.Input(5))
	offline := performance.BuildReport(stored.Input(5))

	assert.Equal(t, live.Windowed, offline.Windowed)
	assert.Equal(t, live.AllTime, offline.AllTime)
	assert.Equal(t, len(live.DailyAscending), len(offline.DailyAscending))
	assert.InDelta(t, 293.0, offline.Windowed.TotalProfit, 1e-9)
}

func TestSnapshotKeepsReferenceZone(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	// First week after the March DST change: 5 days back crosses it.
	snap := Snapshot{
		AccountID: "12345",
		FetchedAt: time.Date(2024, 3, 12, 12, 0, 0, 0, ny),
		Balance:   100000,
		History: []performance.ClosedTrade{
			{CloseTime: time.Date(2024, 3, 7, 16, 30, 0, 0, time.UTC), Profit: 100},
			{CloseTime: time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC), Profit: 50},
		},
	}
	_, err = j.RecordSnapshot(ctx, snap)
	require.NoError(t, err)

	stored, err := j.Snapshot(ctx, "12345")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", stored.FetchedAt.Location().String())
	assert.True(t, snap.FetchedAt.Equal(stored.FetchedAt))

	live := performance.BuildReport(snap.Input(5)).Windowed
	offline := performance.BuildReport(stored.Input(5)).Windowed

	assert.True(t, live.WindowStart.Equal(offline.WindowStart))
	assert.Equal(t, 1, live.TradesInWindow)
	assert.Equal(t, live.TradesInWindow, offline.TradesInWindow)
	assert.InDelta(t, live.TotalProfit, offline.TotalProfit, 1e-9)
	assert.InDelta(t, 50.0, offline.TotalProfit, 1e-9)
}

func TestSnapshotFixedZone(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	zone := time.FixedZone("BRK+3", 3*3600)
	snap := sampleSnapshot()
	snap.FetchedAt = time.Date(2024, 3, 10, 23, 30, 0, 0, zone)
	_, err := j.RecordSnapshot(ctx, snap)
	require.NoError(t, err)

	stored, err := j.Snapshot(ctx, "12345")
	require.NoError(t, err)
	name, offset := stored.FetchedAt.Zone()
	assert.Equal(t, "BRK+3", name)
	assert.Equal(t, 3*3600, offset)
	assert.Equal(t, 23, stored.FetchedAt.Hour())
}
