// Package chat mediates between user input, the answer service and the transcript.
package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	apierrors "github.com/diogo/sportchat/internal/errors"
	"github.com/diogo/sportchat/internal/models"
)

// Asker sends a single question to the answer service
type Asker interface {
	Ask(ctx context.Context, query string) (*models.AskResponse, error)
}

// Controller turns submissions into user messages and outstanding exchanges.
//
// It never queues, retries or orders requests: every accepted submission
// produces an independent Exchange and replies land in the transcript in
// whatever order they resolve.
type Controller struct {
	asker      Asker
	transcript *Transcript
	logger     zerolog.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithTranscript makes the controller append to an existing transcript
func WithTranscript(t *Transcript) Option {
	return func(c *Controller) {
		c.transcript = t
	}
}

// WithLogger sets the controller logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a controller backed by asker
func NewController(asker Asker, opts ...Option) *Controller {
	c := &Controller{
		asker:  asker,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transcript == nil {
		c.transcript = NewTranscript()
	}
	return c
}

// Transcript returns the conversation log
func (c *Controller) Transcript() *Transcript {
	return c.transcript
}

// Exchange is one accepted submission whose reply is still outstanding
type Exchange struct {
	Query string
	asker Asker
}

// Resolve performs the request and maps the outcome to a reply message.
// It does not touch the transcript, so it is safe to run off the UI loop.
func (e *Exchange) Resolve(ctx context.Context) models.Message {
	resp, err := e.asker.Ask(ctx, e.Query)
	return ReplyFor(resp, err)
}

// Submit accepts user text. Empty or whitespace-only text is ignored and
// reported with ok=false: no message is appended and nothing is sent.
// Otherwise the trimmed text is appended as a user message before the
// returned Exchange is resolved by the caller.
func (c *Controller) Submit(text string) (ex *Exchange, ok bool) {
	query := strings.TrimSpace(text)
	if query == "" {
		return nil, false
	}

	c.transcript.Append(models.UserMessage(query))
	c.logger.Debug().Int("query_len", len(query)).Msg("submission accepted")

	return &Exchange{Query: query, asker: c.asker}, true
}

// Deliver resolves an exchange and appends its reply
func (c *Controller) Deliver(ctx context.Context, ex *Exchange) models.Message {
	reply := ex.Resolve(ctx)
	c.Append(reply)
	return reply
}

// Append adds a reply produced elsewhere (for example on a UI loop) to the transcript
func (c *Controller) Append(reply models.Message) {
	if reply.IsSystem() {
		c.logger.Debug().Str("text", reply.Text).Msg("system message appended")
	}
	c.transcript.Append(reply)
}

// ReplyFor maps the result of an ask call to the message shown to the user.
//
//   - transport failure: system "Failed to connect to backend: <description>"
//   - truthy answer: bot message with the answer
//   - anything else: system "Error: <error field or Unknown error>"
func ReplyFor(resp *models.AskResponse, err error) models.Message {
	if err != nil {
		return models.SystemMessage(models.ConnectFailedPrefix + apierrors.Description(err))
	}

	if resp != nil && resp.HasAnswer {
		return models.BotMessage(resp.Answer)
	}

	return models.SystemMessage(models.ErrorPrefix + resp.ErrorText())
}
