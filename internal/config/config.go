package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/fbauth/internal/constants"
	"github.com/oshokin/fbauth/internal/logger"
	"github.com/oshokin/fbauth/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// APIKey is the Web API key of the Firebase project.
	APIKey string `mapstructure:"api_key"`
	// IdentityBaseURL is the base URL of the Identity Toolkit REST API.
	IdentityBaseURL string `mapstructure:"identity_base_url"`
	// SessionFile is the path of the file holding the session token and theme.
	SessionFile string `mapstructure:"session_file"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// RequestTimeout bounds a single request to the identity service (e.g., "30s").
	RequestTimeout string `mapstructure:"request_timeout"`
	// Color enables colored terminal output.
	Color bool `mapstructure:"color"`
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedRequestTimeout is the parsed request timeout.
	ParsedRequestTimeout time.Duration
}

const (
	// DefaultIdentityBaseURL is the base URL of the Identity Toolkit REST API.
	DefaultIdentityBaseURL = "https://identitytoolkit.googleapis.com/v1"

	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".fbauth.yaml"

	// DefaultSessionFilename is the default name of the session file.
	DefaultSessionFilename = ".fbauth-session.yaml"

	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "info"

	// DefaultRequestTimeout is the request timeout used when none is configured.
	DefaultRequestTimeout = "60s"

	// DefaultMaxLogLength is the default maximum size (in bytes) of a logged HTTP exchange.
	DefaultMaxLogLength = 64 * 1024 // 64 KB

	// PlaceholderAPIKey is the value shipped in sample configs; it is never a real key.
	PlaceholderAPIKey = "YOUR_API_KEY_HERE"

	// envPrefix prefixes environment variable overrides, e.g. FBAUTH_LOG_LEVEL.
	envPrefix = "FBAUTH"

	// firebaseAPIKeyEnv is the conventional environment variable for the Firebase Web API key.
	firebaseAPIKeyEnv = "FIREBASE_API_KEY"

	// apiKeyField is the configuration key of the API key.
	apiKeyField = "api_key"
)

// Static error definitions for better error handling.
var (
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidRequestTimeout indicates that the request timeout is not positive.
	ErrInvalidRequestTimeout = errors.New("request_timeout must be positive")
	// ErrInvalidIdentityBaseURL indicates that the identity base URL is not an absolute HTTP(S) URL.
	ErrInvalidIdentityBaseURL = errors.New("identity_base_url must be an absolute http(s) URL")
	// ErrEmptySessionFile indicates that the session file path is missing.
	ErrEmptySessionFile = errors.New("session_file cannot be empty")
	// ErrEmptyAPIKey indicates that an empty API key was passed to SaveAPIKey.
	ErrEmptyAPIKey = errors.New("API key cannot be empty")
)

// LoadConfig loads configuration settings from a YAML file, environment variables and defaults.
// A missing default configuration file is not an error; a missing explicitly named one is.
func LoadConfig(configFilename string) (*Config, error) {
	isExplicit := configFilename != ""
	if !isExplicit {
		configFilename = DefaultConfigFilename
	}

	// Loading twice in one process must not leak values from the previous file.
	viper.Reset()
	viper.SetConfigFile(configFilename)
	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if err := viper.BindEnv(apiKeyField, envPrefix+"_API_KEY", firebaseAPIKeyEnv); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	isFileExist, err := utils.IsFileExist(configFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from file: %w", err)
	}

	if isFileExist || isExplicit {
		if err = viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err = viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
// The API key is deliberately not checked here: the identity client rejects
// a missing key at call time, before any request is made.
func ValidateConfig(cfg *Config) error {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	cfg.IdentityBaseURL = strings.TrimSpace(cfg.IdentityBaseURL)
	if cfg.IdentityBaseURL == "" {
		cfg.IdentityBaseURL = DefaultIdentityBaseURL
	}

	baseURL, err := url.Parse(cfg.IdentityBaseURL)
	if err != nil || (baseURL.Scheme != "http" && baseURL.Scheme != "https") || baseURL.Host == "" {
		return fmt.Errorf("%w: '%s'", ErrInvalidIdentityBaseURL, cfg.IdentityBaseURL)
	}

	cfg.SessionFile = strings.TrimSpace(cfg.SessionFile)
	if cfg.SessionFile == "" {
		return ErrEmptySessionFile
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	requestTimeout := strings.TrimSpace(cfg.RequestTimeout)
	if requestTimeout == "" {
		requestTimeout = DefaultRequestTimeout
	}

	cfg.ParsedRequestTimeout, err = time.ParseDuration(requestTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse request timeout: %w", err)
	}

	if cfg.ParsedRequestTimeout <= 0 {
		return ErrInvalidRequestTimeout
	}

	return nil
}

// SaveAPIKey stores the API key in the configuration file while preserving the original format and order.
func SaveAPIKey(cfg *Config) error {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return ErrEmptyAPIKey
	}

	configFile := getConfigFilePath()

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile) //nolint:gosec // The path comes from the user's own flags.
	if err != nil {
		return handleMissingConfigFile(configFile, apiKey, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	setStringInNode(&node, apiKeyField, apiKey)

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(configFile, newContent, constants.PrivateFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault(apiKeyField, "")
	viper.SetDefault("identity_base_url", DefaultIdentityBaseURL)
	viper.SetDefault("session_file", DefaultSessionFilename)
	viper.SetDefault("log_level", DefaultLogLevel)
	viper.SetDefault("request_timeout", DefaultRequestTimeout)
	viper.SetDefault("color", true)
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file holding only the API key if it doesn't exist.
func handleMissingConfigFile(configFile, apiKey string, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content, err := yaml.Marshal(map[string]string{apiKeyField: apiKey})
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(configFile, content, constants.PrivateFilePermissions); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// setStringInNode sets a top-level string value in the YAML node tree, appending the key when absent.
func setStringInNode(node *yaml.Node, key, value string) {
	// An empty document gets a fresh mapping.
	if len(node.Content) == 0 {
		node.Kind = yaml.DocumentNode
		node.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}

	mapNode := node.Content[0]
	if mapNode.Kind != yaml.MappingNode {
		return
	}

	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		if mapNode.Content[i].Value != key {
			continue
		}

		valueNode := mapNode.Content[i+1]
		valueNode.Kind = yaml.ScalarNode
		valueNode.Tag = "!!str"
		valueNode.Value = value

		if valueNode.Style == 0 {
			valueNode.Style = yaml.DoubleQuotedStyle
		}

		return
	}

	mapNode.Content = append(mapNode.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.DoubleQuotedStyle},
	)
}
