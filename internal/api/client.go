// Package api implements the HTTP client for the answer service.
package api

import (
	"context"
	"fmt"
	"sync"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"

	"github.com/diogo/sportchat/internal/config"
	"github.com/diogo/sportchat/internal/models"
)

// AnswerClient is the interface used by the chat controller
type AnswerClient interface {
	Ask(ctx context.Context, query string) (*models.AskResponse, error)
	BaseURL() string
	Close()
}

// Client talks to a single backend base URL
type Client struct {
	httpClient     tls_client.HttpClient
	baseURL        string
	timeoutSeconds int
	logger         zerolog.Logger
	mu             sync.RWMutex
	closed         bool
}

// Ensure Client implements AnswerClient
var _ AnswerClient = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithTimeoutSeconds bounds each request. Zero disables the timeout.
func WithTimeoutSeconds(seconds int) ClientOption {
	return func(c *Client) {
		c.timeoutSeconds = seconds
	}
}

// WithHTTPClient replaces the underlying transport (used by tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the given backend base URL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	normalized, err := config.NormalizeBackendURL(baseURL)
	if err != nil {
		return nil, err
	}

	client := &Client{
		baseURL: normalized,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(client.timeoutSeconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the normalized backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections. Later Ask calls fail.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
