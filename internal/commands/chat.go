package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/sportchat/internal/render"
	"github.com/diogo/sportchat/internal/tui"
)

var plainFlag bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with the Sport Expert.

Every message is sent on its own; answers appear as they arrive.
Press Esc or Ctrl+C to end the session (EOF in line mode).

When stdin or stdout is not a terminal, or --plain is set, chat reads one
question per line and prints replies as "bot> ..." or "system> ...".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plain := plainFlag || !isStdinTTY() || !isStdoutTTY()
		return runChat(cmd, plain)
	},
}

func runChat(cmd *cobra.Command, plain bool) error {
	if plain {
		sess, err := openSession(deps, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer sess.Close()

		return runPlain(cmd.Context(), sess.controller, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	sess, err := openSession(deps, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	if !render.SetTUITheme(sess.cfg.TUITheme) {
		sess.logger.Warn().Str("theme", sess.cfg.TUITheme).Msg("unknown theme, using default")
	}
	tui.UpdateTheme()

	return deps.TUI.RunChat(cmd.Context(), sess.controller, tui.Options{
		BackendURL: sess.cfg.BackendURL,
		Markdown:   render.OptionsFromConfig(sess.cfg, getTerminalWidth()),
	})
}

func init() {
	chatCmd.Flags().BoolVar(&plainFlag, "plain", false, "Line mode without the full screen interface")
}
