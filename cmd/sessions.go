package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	sessionsrender "github.com/settingsync/settingsync/internal/adapters/render/sessions"
	"github.com/spf13/cobra"
)

func newSessionsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and control live run sessions",
	}

	cmd.AddCommand(
		newSessionsListCmd(app),
		newSessionsLiveReloadCmd(app),
		newSessionsRestartCmd(app),
	)

	return cmd
}

func newSessionsListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients with live run sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := app.api.Statuses(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(statuses)
			}

			rendered, err := app.sessionRenderer(statuses, sessionsrender.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render sessions: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of the rendered view")

	return cmd
}

func newSessionsLiveReloadCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live-reload <run-session-id> <true|false>",
		Short: "Toggle live settings reload for one run session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runSessionID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse run session id: %w", err)
			}

			liveReload, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("parse live reload value: %w", err)
			}

			if err := app.api.SetLiveReload(cmd.Context(), runSessionID, liveReload); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "live reload set to %t for %s\n", liveReload, runSessionID)
			return nil
		},
	}

	return cmd
}

func newSessionsRestartCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restart <run-session-id>",
		Short: "Ask one run session to restart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runSessionID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse run session id: %w", err)
			}

			if err := app.api.RequestRestart(cmd.Context(), runSessionID); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "restart requested for %s\n", runSessionID)
			return nil
		},
	}
}
