// Package config handles configuration for sportchat.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	apierrors "github.com/diogo/sportchat/internal/errors"
	"github.com/diogo/sportchat/internal/models"
)

// Environment variables that override the config file
const (
	EnvBackendURL = "SPORTCHAT_BACKEND_URL"
	EnvTimeout    = "SPORTCHAT_TIMEOUT"
	EnvTheme      = "SPORTCHAT_THEME"
	EnvVerbose    = "SPORTCHAT_VERBOSE"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`             // "dark", "light", "dracula", "notty", "ascii" or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
}

// Config represents the user configuration
type Config struct {
	// BackendURL is the base URL of the answer service, without trailing slash.
	BackendURL string `json:"backend_url"`
	// TimeoutSeconds bounds a single ask request. Zero means no timeout.
	TimeoutSeconds  int            `json:"timeout_seconds"`
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	LogFile         string         `json:"log_file,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BackendURL:      models.DefaultBackendURL,
		TimeoutSeconds:  0,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".sportchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file from config, or the default under the config dir
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "logs", "sportchat.log"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given). Missing files are ignored and variables already set in the
// environment are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv returns cfg with environment overrides applied
func ApplyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		cfg.BackendURL = v
	}

	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		seconds, err := parseTimeout(v)
		if err != nil {
			return cfg, err
		}
		cfg.TimeoutSeconds = seconds
	}

	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.TUITheme = v
	}

	if v := strings.TrimSpace(os.Getenv(EnvVerbose)); v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, apierrors.NewConfigError(EnvVerbose, fmt.Sprintf("%q is not a boolean", v))
		}
		cfg.Verbose = verbose
	}

	return cfg, nil
}

// Resolve builds the effective configuration. Precedence, highest first:
// backendURL argument (the --backend-url flag), environment (including .env),
// config file, defaults. The returned BackendURL is validated and normalized.
func Resolve(backendURL string) (Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return cfg, err
	}

	if err := LoadDotEnv(); err != nil {
		return cfg, err
	}

	cfg, err = ApplyEnv(cfg)
	if err != nil {
		return cfg, err
	}

	if backendURL != "" {
		cfg.BackendURL = backendURL
	}

	normalized, err := NormalizeBackendURL(cfg.BackendURL)
	if err != nil {
		return cfg, err
	}
	cfg.BackendURL = normalized

	return cfg, nil
}

// NormalizeBackendURL validates a backend base URL and trims trailing slashes
func NormalizeBackendURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apierrors.NewConfigError("backend_url", "must not be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", apierrors.NewConfigError("backend_url", err.Error())
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apierrors.NewConfigError("backend_url", fmt.Sprintf("scheme must be http or https, got %q", u.Scheme))
	}

	if u.Host == "" {
		return "", apierrors.NewConfigError("backend_url", "missing host")
	}

	return strings.TrimRight(raw, "/"), nil
}

// SettableKeys lists the keys accepted by SetValue
func SettableKeys() []string {
	return []string{
		"backend-url",
		"timeout",
		"theme",
		"markdown-style",
		"copy-to-clipboard",
		"verbose",
		"log-file",
	}
}

// SetValue updates a single configuration key from its string form
func SetValue(cfg *Config, key, value string) error {
	switch key {
	case "backend-url":
		normalized, err := NormalizeBackendURL(value)
		if err != nil {
			return err
		}
		cfg.BackendURL = normalized
	case "timeout":
		seconds, err := parseTimeout(value)
		if err != nil {
			return err
		}
		cfg.TimeoutSeconds = seconds
	case "theme":
		cfg.TUITheme = value
	case "markdown-style":
		cfg.Markdown.Style = value
	case "copy-to-clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return apierrors.NewConfigError(key, fmt.Sprintf("%q is not a boolean", value))
		}
		cfg.CopyToClipboard = b
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return apierrors.NewConfigError(key, fmt.Sprintf("%q is not a boolean", value))
		}
		cfg.Verbose = b
	case "log-file":
		cfg.LogFile = value
	default:
		return apierrors.NewConfigError("key", fmt.Sprintf("unknown key %q (valid: %s)", key, strings.Join(SettableKeys(), ", ")))
	}
	return nil
}

func parseTimeout(v string) (int, error) {
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return 0, apierrors.NewConfigError("timeout", fmt.Sprintf("%q is not a non-negative number of seconds", v))
	}
	return seconds, nil
}
