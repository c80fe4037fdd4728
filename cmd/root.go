package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/fbauth/internal/app"
	"github.com/oshokin/fbauth/internal/config"
	"github.com/oshokin/fbauth/internal/logger"
)

// Exit codes of the process.
const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "fbauth",
		Short: "Sign up, sign in and inspect Firebase email/password accounts.",
		Long: `fbauth is a CLI client for the Firebase Identity Toolkit REST API.
It supports:
- Registering an email/password account
- Logging in and keeping the session token locally
- Fetching the profile of the logged-in account
- Logging out

The Web API key of the Firebase project is read from the configuration file,
the FIREBASE_API_KEY environment variable or the --api-key flag.`,
		PersistentPreRun: initConfig,
		SilenceErrors:    true,
		SilenceUsage:     true,
	}
)

// Execute executes the root command and exits with status 1 when the command fails.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	exitCodes := make(chan int, 1)

	go func() {
		defer stop()

		exitCodes <- exitCode(rootCmd.ExecuteContext(ctx))
	}()

	<-ctx.Done()

	code := exitCodeFailure

	select {
	case code = <-exitCodes:
	default:
		logger.Warn(ctx, "Interrupted")
	}

	stop()

	_ = logger.Logger().Sync()

	os.Exit(code)
}

// exitCode maps a command error to the process exit code.
// Failures already rendered by the application are not printed again.
func exitCode(err error) int {
	if err == nil {
		return exitCodeSuccess
	}

	if !errors.Is(err, app.ErrOperationFailed) {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
	}

	return exitCodeFailure
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootFlags := rootCmd.PersistentFlags()

	rootFlags.StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootFlags.String(
		"api-key",
		"",
		"Web API key of the Firebase project (overrides the configuration file).")

	rootFlags.String(
		"session-file",
		"",
		fmt.Sprintf("file holding the session token and theme (default is '%s')",
			config.DefaultSessionFilename))

	rootFlags.String(
		"log-level",
		"",
		"log level: debug, info, warn, error.")

	rootFlags.Bool(
		"no-color",
		false,
		"disable colored output.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	if err = bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("api-key"); flag != nil && flag.Changed {
		cfg.APIKey, _ = flags.GetString("api-key")
	}

	if flag := flags.Lookup("session-file"); flag != nil && flag.Changed {
		cfg.SessionFile, _ = flags.GetString("session-file")
	}

	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flag := flags.Lookup("no-color"); flag != nil && flag.Changed {
		noColor, _ := flags.GetBool("no-color")
		cfg.Color = !noColor
	}

	return config.ValidateConfig(cfg)
}
