package journal

import (
	"context"
	"errors"
	"time"

	"github.com/rustyeddy/tradehub/performance"
)

// ErrNoSnapshot is returned when an account has never been imported.
var ErrNoSnapshot = errors.New("no snapshot imported for account")

// Snapshot is one complete fetch of an account's raw records. Daily rows
// keep their upstream date strings and order so that normalization on
// load behaves exactly as on a live fetch.
type Snapshot struct {
	ID        string
	AccountID string
	FetchedAt time.Time
	Balance   float64
	Currency  string
	Open      []performance.OpenPosition
	History   []performance.ClosedTrade
	Daily     []performance.RawDailySnapshot
}

// Input turns the snapshot into engine input evaluated at its fetch time.
func (s Snapshot) Input(windowDays int) performance.Input {
	return performance.Input{
		AccountID:       s.AccountID,
		OpenPositions:   s.Open,
		History:         s.History,
		Daily:           s.Daily,
		StartingBalance: s.Balance,
		Now:             s.FetchedAt,
		WindowDays:      windowDays,
	}
}

// Journal stores snapshots. Recording a snapshot replaces whatever was
// held for that account before; records are never merged.
type Journal interface {
	RecordSnapshot(ctx context.Context, s Snapshot) (string, error)
	Close() error
}

var (
	_ Journal = (*SQLite)(nil)
	_ Journal = (*CSV)(nil)
)
