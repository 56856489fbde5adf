package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradehub/chart"
	"github.com/rustyeddy/tradehub/journal"
	"github.com/rustyeddy/tradehub/performance"
)

type reportFlags struct {
	days   int
	org    bool
	asJSON bool
	trades bool
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.days, "days", 0, "Trailing window in days (default from config)")
	cmd.Flags().BoolVar(&f.org, "org", false, "Print an Org-mode block")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&f.trades, "trades", false, "Include the closed trade history")
}

func newAccountsCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts visible to the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := rc.Client()
			if err != nil {
				return err
			}
			accounts, err := client.Accounts(cmd.Context(), rc.Cfg.Myfxbook.Session)
			if err != nil {
				return fmt.Errorf("list accounts: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tName\tBalance\tEquity\tGain\tCurrency")
			for _, a := range accounts {
				fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f%%\t%s\n", a.ID, a.Name, a.Balance, a.Equity, a.Gain, a.Currency)
			}
			return tw.Flush()
		},
	}
	return cmd
}

func newReportCmd(rc *RootConfig) *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report [account-id]",
		Short: "Fetch an account and print its performance report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := rc.liveInput(cmd.Context(), args, flags.days)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), performance.BuildReport(in), flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func newDailyCmd(rc *RootConfig) *cobra.Command {
	var fromJournal bool

	cmd := &cobra.Command{
		Use:   "daily [account-id]",
		Short: "Print the daily snapshots, most recent first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := rc.input(cmd.Context(), args, 0, fromJournal)
			if err != nil {
				return err
			}
			_, desc := performance.NormalizeDaily(in.Daily)
			performance.PrintDaily(cmd.OutOrStdout(), desc)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromJournal, "journal", false, "Read the imported snapshot instead of fetching")
	return cmd
}

func newChartCmd(rc *RootConfig) *cobra.Command {
	var (
		out         string
		fromJournal bool
	)

	cmd := &cobra.Command{
		Use:   "chart [account-id]",
		Short: "Render the daily balance and growth chart as HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := rc.input(cmd.Context(), args, 0, fromJournal)
			if err != nil {
				return err
			}
			asc, _ := performance.NormalizeDaily(in.Daily)

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := chart.RenderDaily(f, in.AccountID, asc); err != nil {
				_ = f.Close()
				_ = os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "growth.html", "Output HTML file")
	cmd.Flags().BoolVar(&fromJournal, "journal", false, "Read the imported snapshot instead of fetching")
	return cmd
}

func (rc *RootConfig) input(ctx context.Context, args []string, days int, fromJournal bool) (performance.Input, error) {
	if fromJournal {
		return rc.journalInput(ctx, args, days)
	}
	return rc.liveInput(ctx, args, days)
}

func (rc *RootConfig) liveInput(ctx context.Context, args []string, days int) (performance.Input, error) {
	accountID, err := rc.AccountID(args)
	if err != nil {
		return performance.Input{}, err
	}
	client, err := rc.Client()
	if err != nil {
		return performance.Input{}, err
	}
	snap, err := client.FetchSnapshot(ctx, rc.Cfg.Myfxbook.Session, accountID, rc.Cfg.Myfxbook.LookbackDays, rc.now())
	if err != nil {
		return performance.Input{}, err
	}
	return snap.Input(rc.windowDays(days)), nil
}

func (rc *RootConfig) journalInput(ctx context.Context, args []string, days int) (performance.Input, error) {
	accountID, err := rc.AccountID(args)
	if err != nil {
		return performance.Input{}, err
	}
	j, err := journal.NewSQLite(rc.Cfg.Journal.DBPath)
	if err != nil {
		return performance.Input{}, fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	snap, err := j.Snapshot(ctx, accountID)
	if err != nil {
		return performance.Input{}, err
	}
	return snap.Input(rc.windowDays(days)), nil
}

func (rc *RootConfig) windowDays(days int) int {
	if days > 0 {
		return days
	}
	return rc.Cfg.Metrics.WindowDays
}

func writeReport(w io.Writer, r performance.Report, flags reportFlags) error {
	switch {
	case flags.asJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case flags.org:
		_, err := fmt.Fprintln(w, journal.FormatReportOrg(r))
		return err
	}

	performance.PrintReport(w, r)
	if flags.trades {
		performance.PrintHistory(w, r.History)
	}
	return nil
}
