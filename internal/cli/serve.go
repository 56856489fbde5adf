package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradehub/internal/server"
	"github.com/rustyeddy/tradehub/journal"
)

func newServeCmd(rc *RootConfig) *cobra.Command {
	var (
		port      int
		noJournal bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == 0 {
				port = rc.Cfg.Server.Port
			}
			client, err := rc.Client()
			if err != nil {
				return err
			}

			scfg := server.Config{
				Port:         port,
				Log:          rc.Log,
				Fetcher:      client,
				Session:      rc.Cfg.Myfxbook.Session,
				LookbackDays: rc.Cfg.Myfxbook.LookbackDays,
				WindowDays:   rc.Cfg.Metrics.WindowDays,
				DevMode:      rc.Cfg.Server.DevMode,
			}
			if !noJournal {
				j, err := journal.NewSQLite(rc.Cfg.Journal.DBPath)
				if err != nil {
					return fmt.Errorf("open db: %w", err)
				}
				defer j.Close()
				scfg.Store = j
			}

			srv := server.New(scfg)

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-errCh:
				return err
			case <-quit:
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				rc.Log.Error().Err(err).Msg("Server forced to shutdown")
				return err
			}
			rc.Log.Info().Msg("Server stopped")
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (default from config)")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "Serve live data only")
	return cmd
}
