package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ssd",
		Short:         "Settings sync daemon (ssd): track client run sessions and settings freshness",
		Long:          "ssd serves the settings status endpoint that running clients poll, tracks their run sessions, detects pending setting updates, and raises lifecycle events for connects, disconnects, configuration errors and memory leaks.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(app),
		newClientsCmd(app),
		newSessionsCmd(app),
	)

	return rootCmd
}
