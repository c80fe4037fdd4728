package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/fbauth/internal/config"
	"github.com/oshokin/fbauth/internal/constants"
)

const testBaseConfigContent = `
api_key: "config_key"
identity_base_url: "http://localhost:9099/v1"
session_file: "/config/session.yaml"
log_level: "info"
request_timeout: "30s"
color: true
`

// newTestFlagSet returns a command carrying the same persistent flags as the root command.
func newTestFlagSet() *cobra.Command {
	testCmd := &cobra.Command{Use: "test"}

	testCmd.Flags().String("api-key", "", "API key")
	testCmd.Flags().String("session-file", "", "session file")
	testCmd.Flags().String("log-level", "", "log level")
	testCmd.Flags().Bool("no-color", false, "disable color")

	return testCmd
}

// TestFlagOverrides tests that command-line flags correctly override configuration file values.
//
//nolint:funlen,nolintlint,tparallel // Cannot run in parallel due to Viper global state.
func TestFlagOverrides(t *testing.T) {
	t.Setenv("FIREBASE_API_KEY", "")
	t.Setenv("FBAUTH_API_KEY", "")

	tests := []struct {
		name           string
		flags          map[string]string
		expectedConfig func(*testing.T, *config.Config)
	}{
		{
			name:  "no flags - use config values",
			flags: map[string]string{},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "config_key", cfg.APIKey)
				assert.Equal(t, "/config/session.yaml", cfg.SessionFile)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.True(t, cfg.Color)
			},
		},
		{
			name:  "api-key flag only",
			flags: map[string]string{"api-key": "flag_key"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "flag_key", cfg.APIKey)
				assert.Equal(t, "/config/session.yaml", cfg.SessionFile)
			},
		},
		{
			name:  "session-file flag only",
			flags: map[string]string{"session-file": "/flag/session.yaml"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "config_key", cfg.APIKey)
				assert.Equal(t, "/flag/session.yaml", cfg.SessionFile)
			},
		},
		{
			name:  "log-level flag only",
			flags: map[string]string{"log-level": "debug"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "debug", cfg.ParsedLogLevel.String())
			},
		},
		{
			name:  "no-color flag",
			flags: map[string]string{"no-color": "true"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.False(t, cfg.Color)
			},
		},
		{
			name: "all flags - override everything",
			flags: map[string]string{
				"api-key":      "all_key",
				"session-file": "/all/session.yaml",
				"log-level":    "warn",
				"no-color":     "true",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "all_key", cfg.APIKey)
				assert.Equal(t, "/all/session.yaml", cfg.SessionFile)
				assert.Equal(t, "warn", cfg.LogLevel)
				assert.False(t, cfg.Color)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "test-config.yaml")

			err := os.WriteFile(configPath, []byte(testBaseConfigContent), constants.DefaultFilePermissions)
			require.NoError(t, err)

			cfg, err := config.LoadConfig(configPath)
			require.NoError(t, err)

			testCmd := newTestFlagSet()

			for flagName, flagValue := range tt.flags {
				require.NoError(t, testCmd.Flags().Set(flagName, flagValue), "failed to set flag %s", flagName)
			}

			require.NoError(t, bindFlagsToConfig(testCmd.Flags(), cfg))

			tt.expectedConfig(t, cfg)
		})
	}
}

// TestFlagOverrides_InvalidValues tests that invalid flag values are caught during validation.
//
//nolint:nolintlint,tparallel // Cannot run in parallel due to Viper global state.
func TestFlagOverrides_InvalidValues(t *testing.T) {
	invalidTests := []struct {
		name          string
		flagName      string
		flagValue     string
		expectedError string
	}{
		{
			name:          "invalid log level",
			flagName:      "log-level",
			flagValue:     "verbose",
			expectedError: "unknown log level",
		},
		{
			name:          "empty session file",
			flagName:      "session-file",
			flagValue:     " ",
			expectedError: "session_file cannot be empty",
		},
	}

	for _, tt := range invalidTests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "test-config.yaml")

			err := os.WriteFile(configPath, []byte(testBaseConfigContent), constants.DefaultFilePermissions)
			require.NoError(t, err)

			cfg, err := config.LoadConfig(configPath)
			require.NoError(t, err)

			testCmd := newTestFlagSet()
			require.NoError(t, testCmd.Flags().Set(tt.flagName, tt.flagValue))

			err = bindFlagsToConfig(testCmd.Flags(), cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

// TestBindFlagsToConfig_EmptyFlagSet tests handling of empty flag set.
func TestBindFlagsToConfig_EmptyFlagSet(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		APIKey:      "test_key",
		SessionFile: "session.yaml",
		LogLevel:    "info",
	}

	emptyFlags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	require.NoError(t, bindFlagsToConfig(emptyFlags, cfg))
	assert.Equal(t, config.DefaultIdentityBaseURL, cfg.IdentityBaseURL)
}

// TestReadCredentials tests reading credentials from flags and prompts.
func TestReadCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		flags            map[string]string
		input            string
		expectedEmail    string
		expectedPassword string
		expectedError    error
	}{
		{
			name:             "both flags",
			flags:            map[string]string{"email": "user@test.com", "password": "secret1"},
			expectedEmail:    "user@test.com",
			expectedPassword: "secret1",
		},
		{
			name:             "password prompted",
			flags:            map[string]string{"email": "user@test.com"},
			input:            "secret1\n",
			expectedEmail:    "user@test.com",
			expectedPassword: "secret1",
		},
		{
			name:             "both prompted without trailing newline",
			input:            "user@test.com\r\nsecret1",
			expectedEmail:    "user@test.com",
			expectedPassword: "secret1",
		},
		{
			name:          "closed input",
			flags:         map[string]string{"email": "user@test.com"},
			expectedError: ErrNoInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			testCmd := &cobra.Command{Use: "test"}
			testCmd.Flags().StringP("email", "e", "", "email")
			testCmd.Flags().StringP("password", "p", "", "password")

			for flagName, flagValue := range tt.flags {
				require.NoError(t, testCmd.Flags().Set(flagName, flagValue))
			}

			var prompts bytes.Buffer

			testCmd.SetIn(strings.NewReader(tt.input))
			testCmd.SetErr(&prompts)

			email, password, err := readCredentials(testCmd)

			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedEmail, email)
			assert.Equal(t, tt.expectedPassword, password)
		})
	}
}

// TestExitCode tests the exitCode function.
func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, exitCodeSuccess, exitCode(nil))
	assert.Equal(t, exitCodeFailure, exitCode(ErrNoInput))
}
