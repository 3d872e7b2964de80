package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/sportchat/internal/chat"
	apierrors "github.com/diogo/sportchat/internal/errors"
	"github.com/diogo/sportchat/internal/render"
)

var (
	colorText    = lipgloss.Color("#c0caf5")
	colorTextDim = lipgloss.Color("#565f89")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorPrimary = lipgloss.Color("#7aa2f7")
	colorError   = lipgloss.Color("#f7768e")
)

// Styles matching the chat TUI
var (
	botLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	botBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Foreground(colorText).
			Padding(0, 1).
			MarginTop(1).
			MarginBottom(1)

	systemLineStyle = lipgloss.NewStyle().
			Foreground(colorError)
)

// clipboardWrite is swapped in tests
var clipboardWrite = clipboard.WriteAll

// queryOptions controls how a one-shot answer is presented
type queryOptions struct {
	raw       bool
	clipboard bool
	output    string
	width     int
	markdown  render.Options
}

// runQueryCommand opens a session and asks a single question
func runQueryCommand(ctx context.Context, input string) error {
	sess, err := openSession(deps, os.Stderr)
	if err != nil {
		return err
	}
	defer sess.Close()

	opts := queryOptions{
		raw:       rawFlag || !isStdoutTTY(),
		clipboard: copyFlag || sess.cfg.CopyToClipboard,
		output:    outputFlag,
		width:     getTerminalWidth(),
	}
	opts.markdown = render.OptionsFromConfig(sess.cfg, opts.width)

	return runQuery(ctx, sess.controller, input, opts, os.Stdout, os.Stderr)
}

// runQuery submits input once and prints the reply. A system reply is
// written to stderr and reported as errReplyFailed.
func runQuery(ctx context.Context, ctrl *chat.Controller, input string, opts queryOptions, stdout, stderr io.Writer) error {
	ex, ok := ctrl.Submit(input)
	if !ok {
		return fmt.Errorf("query cannot be empty")
	}

	var spin *spinner
	if !opts.raw {
		spin = newSpinner(stderr, "Asking the sport expert")
		spin.start()
	}

	reply := ctrl.Deliver(ctx, ex)

	if reply.IsSystem() {
		if spin != nil {
			spin.stopWithError()
			fmt.Fprintln(stderr, systemLineStyle.Render("✗ "+reply.Text))
		} else {
			fmt.Fprintln(stderr, reply.Text)
		}
		return errReplyFailed
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	text := reply.Text

	if opts.clipboard {
		if err := clipboardWrite(text); err != nil {
			fmt.Fprintln(stderr, systemLineStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else if !opts.raw {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !opts.raw {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Answer saved to %s", opts.output),
			))
		}
		return nil
	}

	if opts.raw {
		fmt.Fprintln(stdout, text)
		return nil
	}

	bubbleWidth := opts.width - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(stdout, botLabelStyle.Render("⚽ Expert"))
	rendered := render.Answer(text, opts.markdown.WithWidth(contentWidth))
	fmt.Fprintln(stdout, botBubbleStyle.Width(bubbleWidth).Render(rendered))

	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// isStdinTTY returns true if stdin is connected to a terminal
func isStdinTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case apierrors.IsConfigError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check 'sportchat config show' and the SPORTCHAT_* environment variables"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and the backend URL"))
	case apierrors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The backend did not answer with JSON"))
	}

	return sb.String()
}
