package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/fbauth/internal/app"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	themeCmd = &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Switch the output theme",
		Long:      `Sets the output theme. Without an argument the theme flips between dark and light.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var value string
			if len(args) > 0 {
				value = args[0]
			}

			return app.ExecuteThemeCommand(cmd.Context(), appConfig, cmd.OutOrStdout(), value)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is stored and what its token says",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.ExecuteStatusCommand(cmd.Context(), appConfig, cmd.OutOrStdout())
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	initCmd = &cobra.Command{
		Use:   "init <api-key>",
		Short: "Save the Web API key to the configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ExecuteInitCommand(cmd.Context(), appConfig, cmd.OutOrStdout(), args[0])
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteVersionCommand(cmd.OutOrStdout())
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(themeCmd, statusCmd, initCmd, versionCmd)
}
