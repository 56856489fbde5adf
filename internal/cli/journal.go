package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradehub/journal"
	"github.com/rustyeddy/tradehub/myfxbook"
	"github.com/rustyeddy/tradehub/performance"
)

// toJournal keeps the fetched records as they are; nothing computed is stored.
func toJournal(s *myfxbook.Snapshot) journal.Snapshot {
	return journal.Snapshot{
		AccountID: s.AccountID,
		FetchedAt: s.FetchedAt,
		Balance:   s.Account.Balance,
		Currency:  s.Account.Currency,
		Open:      s.Open,
		History:   s.History,
		Daily:     s.Daily,
	}
}

func newImportCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [account-id]",
		Short: "Fetch an account and store the snapshot in the configured journal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := rc.AccountID(args)
			if err != nil {
				return err
			}
			client, err := rc.Client()
			if err != nil {
				return err
			}
			snap, err := client.FetchSnapshot(cmd.Context(), rc.Cfg.Myfxbook.Session, accountID, rc.Cfg.Myfxbook.LookbackDays, rc.now())
			if err != nil {
				return err
			}

			j, err := rc.OpenJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			snapID, err := j.RecordSnapshot(cmd.Context(), toJournal(snap))
			if err != nil {
				return fmt.Errorf("record snapshot: %w", err)
			}

			rc.Log.Info().
				Str("account", accountID).
				Str("snapshot", snapID).
				Str("journal", rc.Cfg.Journal.Type).
				Msg("Imported snapshot")
			fmt.Fprintf(cmd.OutOrStdout(), "Imported account %s as snapshot %s (%d trades, %d open, %d daily)\n",
				accountID, snapID, len(snap.History), len(snap.Open), len(snap.Daily))
			return nil
		},
	}
	return cmd
}

func newJournalCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Query imported snapshots",
		Long: `Query snapshots imported into the SQLite journal.

Examples:
  tradehub journal accounts
  tradehub journal report 12345 --days 7
  tradehub journal trades 12345 2024-03-08`,
	}

	cmd.AddCommand(
		newJournalAccountsCmd(rc),
		newJournalReportCmd(rc),
		newJournalTradesCmd(rc),
	)
	return cmd
}

func newJournalAccountsCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List imported accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.NewSQLite(rc.Cfg.Journal.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer j.Close()

			accounts, err := j.Accounts(cmd.Context())
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No accounts imported")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "Account\tSnapshot\tFetched\tBalance\tCurrency")
			for _, a := range accounts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n", a.AccountID, a.SnapshotID, a.FetchedAt.Format(time.RFC3339), a.Balance, a.Currency)
			}
			return tw.Flush()
		},
	}
}

func newJournalReportCmd(rc *RootConfig) *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report [account-id]",
		Short: "Recompute the report from the imported snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := rc.journalInput(cmd.Context(), args, flags.days)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), performance.BuildReport(in), flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func newJournalTradesCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "trades <account-id> <YYYY-MM-DD>",
		Short: "Print trades of the imported snapshot closed on a day as Org blocks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := rc.Cfg.Metrics.Location()
			if err != nil {
				return err
			}
			start, end, err := dayBounds(loc, args[1])
			if err != nil {
				return fmt.Errorf("date: %w", err)
			}

			j, err := journal.NewSQLite(rc.Cfg.Journal.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer j.Close()

			snap, err := j.Snapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			trades, err := j.ListTradesClosedBetween(cmd.Context(), snap.ID, start, end)
			if err != nil {
				return fmt.Errorf("query trades: %w", err)
			}
			if len(trades) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No trades")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(trades))
			return nil
		},
	}
}

func newExportCmd(rc *RootConfig) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export [account-id]",
		Short: "Export the imported snapshot's trades and daily data to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := rc.AccountID(args)
			if err != nil {
				return err
			}

			j, err := journal.NewSQLite(rc.Cfg.Journal.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer j.Close()

			snap, err := j.Snapshot(cmd.Context(), accountID)
			if err != nil {
				return err
			}

			tradesPath := rc.Cfg.Journal.TradesFile
			if tradesPath == "" {
				tradesPath = fmt.Sprintf("%s_trades.csv", accountID)
			}
			dailyPath := rc.Cfg.Journal.DailyFile
			if dailyPath == "" {
				dailyPath = fmt.Sprintf("%s_daily.csv", accountID)
			}
			if dir != "" {
				tradesPath = filepath.Join(dir, filepath.Base(tradesPath))
				dailyPath = filepath.Join(dir, filepath.Base(dailyPath))
			}

			out, err := journal.NewCSV(tradesPath, dailyPath)
			if err != nil {
				return err
			}
			if _, err := out.RecordSnapshot(cmd.Context(), snap); err != nil {
				_ = out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s and %s\n", tradesPath, dailyPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory for the CSV files")
	return cmd
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
