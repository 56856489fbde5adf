package journal

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/tradehub/performance"
	"github.com/rustyeddy/tradehub/pkg/id"
)

// CSV writes closed trades and daily snapshots to two files.
type CSV struct {
	trades *csv.Writer
	daily  *csv.Writer
	tf, df *os.File
}

func NewCSV(tradesPath, dailyPath string) (*CSV, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	df, err := os.Create(dailyPath)
	if err != nil {
		_ = tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	dw := csv.NewWriter(df)

	if err := tw.Write([]string{"open_time", "close_time", "symbol", "action", "sizing", "open_price", "close_price", "pips", "profit", "interest", "commission", "result"}); err != nil {
		return nil, err
	}
	if err := dw.Write([]string{"date", "balance", "pips", "lots", "floating_pl", "profit", "growth_equity", "floating_pips"}); err != nil {
		return nil, err
	}

	return &CSV{tw, dw, tf, df}, nil
}

func (j *CSV) RecordTrade(t performance.ClosedTrade) error {
	return j.trades.Write([]string{
		t.OpenTime.Format(time.RFC3339),
		t.CloseTime.Format(time.RFC3339),
		t.Symbol,
		t.Action,
		t.Sizing.Value + " " + t.Sizing.Type,
		f(t.OpenPrice),
		f(t.ClosePrice),
		f(t.Pips),
		f(t.Profit),
		f(t.Interest),
		f(t.Commission),
		t.RealizedResult().StringFixed(2),
	})
}

func (j *CSV) RecordDaily(d performance.DailySnapshot) error {
	return j.daily.Write([]string{
		d.Date.Format("2006-01-02"),
		f(d.Balance),
		f(d.Pips),
		f(d.Lots),
		f(d.FloatingPL),
		f(d.Profit),
		f(d.GrowthEquity),
		f(d.FloatingPips),
	})
}

// RecordSnapshot writes the snapshot's history and its normalized daily
// series in ascending order. The returned id is the snapshot's own.
func (j *CSV) RecordSnapshot(_ context.Context, s Snapshot) (string, error) {
	if s.ID == "" {
		s.ID = id.At(s.FetchedAt)
	}
	for _, t := range s.History {
		if err := j.RecordTrade(t); err != nil {
			return "", err
		}
	}
	asc, _ := performance.NormalizeDaily(s.Daily)
	for _, d := range asc {
		if err := j.RecordDaily(d); err != nil {
			return "", err
		}
	}
	j.trades.Flush()
	j.daily.Flush()
	if err := j.trades.Error(); err != nil {
		return "", err
	}
	return s.ID, j.daily.Error()
}

func (j *CSV) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.daily.Flush()
	if err := j.daily.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	if err := j.df.Close(); err != nil {
		return err
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
