package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradehub/config"
	"github.com/rustyeddy/tradehub/journal"
	"github.com/rustyeddy/tradehub/myfxbook"
	"github.com/rustyeddy/tradehub/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// RootConfig holds the persistent flags and the state shared by every
// subcommand once PersistentPreRunE has run.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	Session    string
	Pretty     bool

	Cfg *config.Config
	Log zerolog.Logger

	// Now is the reference time for live fetches; nil means time.Now.
	Now func() time.Time
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&RootConfig{})
}

func newRootCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tradehub",
		Short:         "Tradehub: account performance metrics from myfxbook",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "SQLite journal database (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&rc.Session, "session", "", "myfxbook session token (default $MYFXBOOK_SESSION)")
	cmd.PersistentFlags().BoolVar(&rc.Pretty, "pretty", false, "Human readable log output")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rc.load()
	}

	cmd.AddCommand(
		newAccountsCmd(rc),
		newReportCmd(rc),
		newDailyCmd(rc),
		newImportCmd(rc),
		newJournalCmd(rc),
		newExportCmd(rc),
		newChartCmd(rc),
		newServeCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tradehub %s\n", Version)
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// load reads the config and applies flag overrides.
func (rc *RootConfig) load() error {
	cfg, err := config.Load(rc.ConfigPath)
	if err != nil {
		return err
	}
	if rc.DBPath != "" {
		cfg.Journal.DBPath = rc.DBPath
	}
	if rc.LogLevel != "" {
		cfg.Log.Level = rc.LogLevel
	}
	if rc.Session != "" {
		cfg.Myfxbook.Session = rc.Session
	}
	if rc.Pretty {
		cfg.Log.Pretty = true
	}

	rc.Cfg = cfg
	rc.Log = logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(rc.Log)
	return nil
}

// Client builds a myfxbook client from the loaded config.
func (rc *RootConfig) Client() (*myfxbook.Client, error) {
	timeout, err := rc.Cfg.Myfxbook.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	loc, err := rc.Cfg.Metrics.Location()
	if err != nil {
		return nil, err
	}
	return myfxbook.NewClient(myfxbook.Options{
		BaseURL:  rc.Cfg.Myfxbook.BaseURL,
		Timeout:  timeout,
		Location: loc,
		Logger:   rc.Log,
	}), nil
}

// OpenJournal opens the import target named by journal.type.
func (rc *RootConfig) OpenJournal() (journal.Journal, error) {
	jc := rc.Cfg.Journal
	switch jc.Type {
	case "csv":
		j, err := journal.NewCSV(jc.TradesFile, jc.DailyFile)
		if err != nil {
			return nil, fmt.Errorf("open csv journal: %w", err)
		}
		return j, nil
	case "sqlite", "":
		j, err := journal.NewSQLite(jc.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}

func (rc *RootConfig) now() time.Time {
	if rc.Now != nil {
		return rc.Now()
	}
	return time.Now()
}

// AccountID returns the positional account argument or the configured one.
func (rc *RootConfig) AccountID(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if rc.Cfg.Myfxbook.AccountID != "" {
		return rc.Cfg.Myfxbook.AccountID, nil
	}
	return "", fmt.Errorf("account id required (argument or MYFXBOOK_ACCOUNT)")
}
