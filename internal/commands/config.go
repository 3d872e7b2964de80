package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/sportchat/internal/config"
	apierrors "github.com/diogo/sportchat/internal/errors"
	"github.com/diogo/sportchat/internal/render"
)

var (
	configKeyStyle   = lipgloss.NewStyle().Foreground(colorTextDim).Width(20)
	configValueStyle = lipgloss.NewStyle().Foreground(colorText)
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change sportchat settings stored in ~/.sportchat/config.json.

The backend URL can also be set with --backend-url or SPORTCHAT_BACKEND_URL
(read from the environment or a .env file in the working directory).`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(backendURLFlag)
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: fmt.Sprintf(`Set a configuration value in the config file.

Keys: %s`, strings.Join(config.SettableKeys(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.OutOrStdout(), args[0], args[1])
		},
	})

	return cmd
}

var configCmd = NewConfigCmd()

// setConfigValue updates one key in the config file. Only the file is read,
// so environment overrides are never persisted.
func setConfigValue(out io.Writer, key, value string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if key == "theme" {
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return apierrors.NewConfigError("theme", fmt.Sprintf("unknown theme %q (valid: %s)",
				value, strings.Join(render.TUIThemeNames(), ", ")))
		}
	}

	if err := config.SetValue(&cfg, key, value); err != nil {
		return err
	}

	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintln(out, lipgloss.NewStyle().Foreground(colorSuccess).Render(
		fmt.Sprintf("✓ %s updated", key),
	))
	return nil
}

func printConfig(out io.Writer, cfg config.Config) {
	timeout := "none"
	if cfg.TimeoutSeconds > 0 {
		timeout = fmt.Sprintf("%ds", cfg.TimeoutSeconds)
	}

	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		logPath = "-"
	}

	rows := []struct {
		key   string
		value string
	}{
		{"backend-url", cfg.BackendURL},
		{"timeout", timeout},
		{"theme", cfg.TUITheme},
		{"markdown-style", cfg.Markdown.Style},
		{"copy-to-clipboard", fmt.Sprintf("%t", cfg.CopyToClipboard)},
		{"verbose", fmt.Sprintf("%t", cfg.Verbose)},
		{"log-file", logPath},
	}

	for _, r := range rows {
		fmt.Fprintln(out, configKeyStyle.Render(r.key)+configValueStyle.Render(r.value))
	}
}
