package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/google/uuid"

	apierrors "github.com/diogo/sportchat/internal/errors"
	"github.com/diogo/sportchat/internal/models"
)

// maxBodySize caps how much of a reply body is read
const maxBodySize = 8 << 20

// Ask posts a query to {baseURL}/ask and decodes the reply.
//
// Any reply with a JSON body is returned as an AskResponse regardless of the
// HTTP status. A request that never completes yields a NetworkError and a
// body that is not JSON yields a ParseError.
func (c *Client) Ask(ctx context.Context, query string) (*models.AskResponse, error) {
	if query == "" {
		return nil, apierrors.ErrEmptyQuery
	}

	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	endpoint := models.AskURL(c.baseURL)
	requestID := uuid.NewString()
	logger := c.logger.With().Str("request_id", requestID).Str("endpoint", endpoint).Logger()

	payload, err := json.Marshal(models.AskRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	logger.Debug().Int("query_len", len(query)).Msg("sending ask request")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("ask request failed")
		return nil, apierrors.NewNetworkErrorWithEndpoint("ask", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		logger.Warn().Err(err).Int("status", resp.StatusCode).Msg("reading ask response failed")
		return nil, apierrors.NewNetworkErrorWithEndpoint("read response", endpoint, err)
	}

	out, err := parseAskResponse(body, resp.StatusCode)
	if err != nil {
		logger.Warn().Err(err).Int("status", resp.StatusCode).Msg("ask response not decodable")
		return nil, err
	}

	logger.Info().
		Int("status", resp.StatusCode).
		Bool("has_answer", out.HasAnswer).
		Bool("has_error", out.HasError).
		Dur("elapsed", time.Since(start)).
		Msg("ask request completed")

	return out, nil
}
