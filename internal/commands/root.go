// Package commands provides CLI commands for sportchat.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	backendURLFlag string
	verboseFlag    bool

	// Query flags
	outputFlag string
	fileFlag   string
	rawFlag    bool
	copyFlag   bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// errReplyFailed marks a query whose reply was a system message. The message
// has already been printed, so Execute only sets the exit code.
var errReplyFailed = errors.New("reply failed")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sportchat [query]",
	Short: "Terminal chat client for the Sport Expert answer service",
	Long: `sportchat sends your questions to the Sport Expert answer service
and shows the answers in your terminal.

Examples:
  sportchat chat                             Start interactive chat
  sportchat "Who won the 2014 World Cup?"    Ask a single question
  sportchat -f question.md                   Read the question from a file
  echo "What is offside?" | sportchat        Read the question from stdin
  sportchat "Explain the tiebreak" -o a.md   Save the answer to a file
  sportchat config set backend-url http://localhost:8080`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "sportchat %s (built %s)\n", Version, BuildTime)
			return nil
		}

		input, ok, err := readInput(args, fileFlag, os.Stdin)
		if err != nil {
			return err
		}
		if !ok {
			return cmd.Help()
		}

		return runQueryCommand(cmd.Context(), input)
	},
}

// readInput picks the query source: file flag, piped stdin, then the
// positional argument. ok is false when there is no input at all.
func readInput(args []string, file string, stdin *os.File) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if stdin != nil && len(args) == 0 {
		if stat, err := stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return "", false, fmt.Errorf("failed to read stdin: %w", err)
			}
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReplyFailed) {
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&backendURLFlag, "backend-url", "b", "",
		"Answer service base URL (overrides SPORTCHAT_BACKEND_URL and the config file)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log debug output to stderr and the log file")

	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save answer to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read query from file")
	rootCmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the answer without markdown rendering or decoration")
	rootCmd.Flags().BoolVar(&copyFlag, "copy", false, "Copy the answer to the clipboard")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
}
