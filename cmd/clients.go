package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/settingsync/settingsync/internal/domain"
	"github.com/spf13/cobra"
)

func newClientsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage registered client definitions",
	}

	cmd.AddCommand(
		newClientsAddCmd(app),
		newClientsListCmd(app),
		newClientsTouchCmd(app),
		newClientsRestartRequiredCmd(app),
	)

	return cmd
}

func newClientsAddCmd(app *app) *cobra.Command {
	var (
		name     string
		instance string
		secret   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a client definition",
		RunE: func(cmd *cobra.Command, _ []string) error {
			def := domain.ClientDefinition{
				Name:       name,
				Instance:   instance,
				SecretHash: domain.HashSecret(secret),
			}
			if err := app.directory.Save(cmd.Context(), def); err != nil {
				return fmt.Errorf("save client definition: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", def.Key().String())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "client name")
	cmd.Flags().StringVar(&instance, "instance", "", "client instance")
	cmd.Flags().StringVar(&secret, "secret", "", "client secret")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}

func newClientsListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered client definitions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			defs, err := app.directory.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, def := range defs {
				lastUpdate := "never"
				if !def.LastSettingValueUpdate.IsZero() {
					lastUpdate = def.LastSettingValueUpdate.Format("2006-01-02 15:04:05")
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tlast setting update: %s\n", def.Key().String(), lastUpdate)
			}

			return nil
		},
	}
}

// newClientsTouchCmd records setting value changes on behalf of the
// settings layer: it bumps the definition's last update marker and writes
// one audit entry per setting name, which is what the change detector
// reads back.
func newClientsTouchCmd(app *app) *cobra.Command {
	var (
		name     string
		instance string
		settings []string
	)

	cmd := &cobra.Command{
		Use:   "touch",
		Short: "Record setting value changes for a client definition",
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := app.directory.Get(cmd.Context(), name, instance)
			if err != nil {
				return fmt.Errorf("lookup client %q: %w", name, err)
			}

			now := app.now()
			for _, setting := range settings {
				err := app.events.Append(cmd.Context(), domain.Event{
					ID:          uuid.New(),
					Timestamp:   now,
					Kind:        domain.EventSettingValueChanged,
					ClientName:  def.Name,
					Instance:    def.Instance,
					SettingName: setting,
					Message:     fmt.Sprintf("setting %s changed", setting),
				})
				if err != nil {
					return fmt.Errorf("record setting change: %w", err)
				}
			}

			def.LastSettingValueUpdate = now
			if err := app.directory.Save(cmd.Context(), def); err != nil {
				return fmt.Errorf("save client definition: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %d setting change(s) for %s\n", len(settings), def.Key().String())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "client name")
	cmd.Flags().StringVar(&instance, "instance", "", "client instance")
	cmd.Flags().StringSliceVar(&settings, "setting", nil, "setting name that changed (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("setting")

	return cmd
}

func newClientsRestartRequiredCmd(app *app) *cobra.Command {
	var (
		name     string
		instance string
	)

	cmd := &cobra.Command{
		Use:   "restart-required",
		Short: "Flag every run session of a client as needing a restart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flagged, err := app.api.MarkRestartRequired(cmd.Context(), name, instance)
			if err != nil {
				return err
			}

			key := domain.ClientKey{Name: name, Instance: instance}.String()
			if flagged == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no live sessions for %s; nothing to flag\n", key)
				return nil
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "restart required for %d session(s) of %s\n", flagged, key)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "client name")
	cmd.Flags().StringVar(&instance, "instance", "", "client instance")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
