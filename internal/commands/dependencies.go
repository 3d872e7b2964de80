package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/diogo/sportchat/internal/api"
	"github.com/diogo/sportchat/internal/chat"
	"github.com/diogo/sportchat/internal/config"
	"github.com/diogo/sportchat/internal/logging"
	"github.com/diogo/sportchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, controller *chat.Controller, opts tui.Options) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the answer client for a resolved configuration.
	NewClient func(cfg config.Config, logger zerolog.Logger) (api.AnswerClient, error)

	// TUI is the terminal user interface.
	TUI TUIInterface
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, controller *chat.Controller, opts tui.Options) error {
	return tui.RunChat(ctx, controller, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: newAnswerClient,
		TUI:       &DefaultTUI{},
	}
}

func newAnswerClient(cfg config.Config, logger zerolog.Logger) (api.AnswerClient, error) {
	client, err := api.NewClient(cfg.BackendURL,
		api.WithTimeoutSeconds(cfg.TimeoutSeconds),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// deps is replaced in tests
var deps = NewDependencies()

// session bundles what a command needs to talk to the answer service
type session struct {
	cfg        config.Config
	logger     zerolog.Logger
	client     api.AnswerClient
	controller *chat.Controller
	logCloser  io.Closer
}

// openSession resolves configuration, sets up logging and builds the
// controller. console receives verbose logs; the TUI passes nil because it
// owns the terminal.
func openSession(d *Dependencies, console io.Writer) (*session, error) {
	cfg, err := config.Resolve(backendURLFlag)
	if err != nil {
		return nil, err
	}
	if verboseFlag {
		cfg.Verbose = true
	}

	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		return nil, err
	}
	logger, logCloser, err := logging.New(logging.Options{
		File:    logPath,
		Console: console,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		// Logging is best effort
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	client, err := d.NewClient(cfg, logger)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.Debug().
		Str("backend_url", cfg.BackendURL).
		Int("timeout_seconds", cfg.TimeoutSeconds).
		Msg("session opened")

	return &session{
		cfg:        cfg,
		logger:     logger,
		client:     client,
		controller: chat.NewController(client, chat.WithLogger(logger)),
		logCloser:  logCloser,
	}, nil
}

func (s *session) Close() {
	s.client.Close()
	s.logCloser.Close()
}
