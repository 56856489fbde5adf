package myfxbook

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/tradehub/performance"
)

// DefaultLookbackDays is how far back daily data is requested.
const DefaultLookbackDays = 30

// Snapshot is one complete refresh of an account. It is either fully
// populated or not returned at all.
type Snapshot struct {
	AccountID string
	Account   Account
	FetchedAt time.Time
	Open      []performance.OpenPosition
	History   []performance.ClosedTrade
	Daily     []performance.RawDailySnapshot
	Dropped   int
}

// Input turns the snapshot into engine input.
func (s *Snapshot) Input(windowDays int) performance.Input {
	return performance.Input{
		AccountID:       s.AccountID,
		OpenPositions:   s.Open,
		History:         s.History,
		Daily:           s.Daily,
		StartingBalance: s.Account.Balance,
		Now:             s.FetchedAt,
		WindowDays:      windowDays,
	}
}

// FindAccount returns the account whose id matches accountID.
func FindAccount(accounts []Account, accountID string) (Account, bool) {
	for _, a := range accounts {
		if strconv.FormatInt(a.ID, 10) == accountID {
			return a, true
		}
	}
	return Account{}, false
}

// FetchSnapshot requests accounts, open trades, history and daily data
// concurrently. Any failure cancels the rest and no partial data is returned.
func (c *Client) FetchSnapshot(ctx context.Context, session, accountID string, lookbackDays int, now time.Time) (*Snapshot, error) {
	if session == "" {
		return nil, ErrNoSession
	}
	if accountID == "" {
		return nil, fmt.Errorf("account id is required")
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	if now.IsZero() {
		now = time.Now()
	}
	// Trade timestamps are in the broker zone; the window edge must be too.
	now = now.In(c.loc)

	var (
		accounts []Account
		rawOpen  []performance.RawOpenPosition
		rawHist  []performance.RawClosedTrade
		daily    []performance.RawDailySnapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		accounts, err = c.Accounts(gctx, session)
		return err
	})
	g.Go(func() (err error) {
		rawOpen, err = c.OpenTrades(gctx, session, accountID)
		return err
	})
	g.Go(func() (err error) {
		rawHist, err = c.History(gctx, session, accountID)
		return err
	})
	g.Go(func() (err error) {
		daily, err = c.DataDaily(gctx, session, accountID, now.AddDate(0, 0, -lookbackDays), now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch account %s: %w", accountID, err)
	}

	account, ok := FindAccount(accounts, accountID)
	if !ok {
		return nil, fmt.Errorf("account %s %w", accountID, ErrAccountNotFound)
	}

	open, droppedOpen := performance.NormalizeOpen(rawOpen, c.loc)
	history, droppedHist := performance.NormalizeHistory(rawHist, c.loc)

	snap := &Snapshot{
		AccountID: accountID,
		Account:   account,
		FetchedAt: now,
		Open:      open,
		History:   history,
		Daily:     daily,
		Dropped:   droppedOpen + droppedHist,
	}
	if snap.Dropped > 0 {
		c.log.Warn().
			Str("account", accountID).
			Int("open_dropped", droppedOpen).
			Int("history_dropped", droppedHist).
			Msg("Dropped records with malformed timestamps")
	}
	c.log.Info().
		Str("account", accountID).
		Int("open", len(open)).
		Int("history", len(history)).
		Int("daily", len(daily)).
		Msg("Fetched account snapshot")

	return snap, nil
}
