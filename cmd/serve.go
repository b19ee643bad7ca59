package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/settingsync/settingsync/internal/adapters/httpapi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *app) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the status endpoint clients poll",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app.dispatcher.Start()
			defer app.dispatcher.Close()

			server := httpapi.NewServer(app.status, app.logger)
			if err := server.Start(listenAddr); err != nil {
				return err
			}

			runSessionSweeper(ctx, app)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", app.listenAddr, "address to listen on")

	return cmd
}

// runSessionSweeper periodically reaps sessions of clients that stopped
// polling, so their disconnect events still fire. Blocks until ctx is
// cancelled.
func runSessionSweeper(ctx context.Context, app *app) {
	interval := app.sweepInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := app.status.ExpireStaleSessions(ctx); err != nil {
				app.logger.Error("expire stale run sessions", "error", err)
			}
		}
	}
}
