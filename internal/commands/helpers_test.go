package commands

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/diogo/sportchat/internal/api"
	"github.com/diogo/sportchat/internal/config"
	"github.com/diogo/sportchat/internal/models"
)

// fakeClient answers from canned replies keyed by query
type fakeClient struct {
	mu      sync.Mutex
	replies map[string]*models.AskResponse
	errs    map[string]error
	queries []string
	closed  bool
}

var _ api.AnswerClient = (*fakeClient)(nil)

func (f *fakeClient) Ask(_ context.Context, query string) (*models.AskResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	if resp, ok := f.replies[query]; ok {
		return resp, nil
	}
	return &models.AskResponse{}, nil
}

func (f *fakeClient) BaseURL() string { return "http://fake" }

func (f *fakeClient) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeClient) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func answer(text string) *models.AskResponse {
	return &models.AskResponse{Answer: text, HasAnswer: true}
}

func failure(text string) *models.AskResponse {
	return &models.AskResponse{Error: text, HasError: true}
}

// isolateHome points the config dir at a temp dir and clears env overrides
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{config.EnvBackendURL, config.EnvTimeout, config.EnvTheme, config.EnvVerbose} {
		t.Setenv(key, "")
	}
	return home
}

// withDeps swaps the package dependencies for the duration of a test
func withDeps(t *testing.T, client *fakeClient, seen *config.Config) {
	t.Helper()
	orig := deps
	deps = &Dependencies{
		NewClient: func(cfg config.Config, _ zerolog.Logger) (api.AnswerClient, error) {
			if seen != nil {
				*seen = cfg
			}
			return client, nil
		},
		TUI: &DefaultTUI{},
	}
	t.Cleanup(func() { deps = orig })
}
