package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/sportchat/internal/chat"
	"github.com/diogo/sportchat/internal/config"
	apierrors "github.com/diogo/sportchat/internal/errors"
	"github.com/diogo/sportchat/internal/models"
	"github.com/diogo/sportchat/internal/render"
)

func rawOptions() queryOptions {
	return queryOptions{raw: true, width: 80, markdown: render.DefaultOptions().WithStyle(render.StyleNoTTY)}
}

func TestRunQuery(t *testing.T) {
	client := &fakeClient{
		replies: map[string]*models.AskResponse{
			"answer me": answer("42"),
			"bad":       failure("bad query"),
		},
		errs: map[string]error{
			"down": apierrors.NewNetworkError("ask", errors.New("timeout")),
		},
	}

	tests := []struct {
		name       string
		input      string
		wantOut    string
		wantErrOut string
		wantErr    error
	}{
		{"answer", "  answer me \n", "42\n", "", nil},
		{"error field", "bad", "", "Error: bad query\n", errReplyFailed},
		{"empty body", "empty", "", "Error: Unknown error\n", errReplyFailed},
		{"transport failure", "down", "", "Failed to connect to backend: timeout\n", errReplyFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			ctrl := chat.NewController(client)

			err := runQuery(context.Background(), ctrl, tt.input, rawOptions(), &out, &errOut)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("runQuery() error = %v, want %v", err, tt.wantErr)
			}
			if out.String() != tt.wantOut {
				t.Errorf("stdout = %q, want %q", out.String(), tt.wantOut)
			}
			if errOut.String() != tt.wantErrOut {
				t.Errorf("stderr = %q, want %q", errOut.String(), tt.wantErrOut)
			}
			if n := ctrl.Transcript().Len(); n != 2 {
				t.Errorf("transcript has %d messages, want 2", n)
			}
		})
	}
}

func TestRunQuery_EmptyInput(t *testing.T) {
	client := &fakeClient{}
	ctrl := chat.NewController(client)

	err := runQuery(context.Background(), ctrl, " \t\n", rawOptions(), &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for empty query")
	}
	if len(client.Queries()) != 0 {
		t.Error("empty query must not be sent")
	}
	if ctrl.Transcript().Len() != 0 {
		t.Error("empty query must not be recorded")
	}
}

func TestRunQuery_OutputFileAndClipboard(t *testing.T) {
	var copied string
	orig := clipboardWrite
	clipboardWrite = func(s string) error {
		copied = s
		return nil
	}
	defer func() { clipboardWrite = orig }()

	client := &fakeClient{replies: map[string]*models.AskResponse{"q": answer("**Pelé**")}}
	ctrl := chat.NewController(client)

	opts := rawOptions()
	opts.clipboard = true
	opts.output = filepath.Join(t.TempDir(), "answer.md")

	var out bytes.Buffer
	if err := runQuery(context.Background(), ctrl, "q", opts, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("runQuery() error = %v", err)
	}

	data, err := os.ReadFile(opts.output)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if string(data) != "**Pelé**" {
		t.Errorf("file content = %q", data)
	}
	if copied != "**Pelé**" {
		t.Errorf("clipboard = %q", copied)
	}
	if out.Len() != 0 {
		t.Errorf("stdout should be empty when writing to a file, got %q", out.String())
	}
}

func TestRunQuery_Decorated(t *testing.T) {
	client := &fakeClient{replies: map[string]*models.AskResponse{"q": answer("A *marathon* is 42.195 km")}}
	ctrl := chat.NewController(client)

	opts := rawOptions()
	opts.raw = false

	var out, errOut bytes.Buffer
	if err := runQuery(context.Background(), ctrl, "q", opts, &out, &errOut); err != nil {
		t.Fatalf("runQuery() error = %v", err)
	}

	if !strings.Contains(out.String(), "Expert") {
		t.Errorf("expected label in output, got %q", out.String())
	}
	if !strings.Contains(out.String(), "42.195 km") {
		t.Errorf("expected answer in output, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "Done") {
		t.Errorf("expected spinner success on stderr, got %q", errOut.String())
	}
}

func TestOpenSession(t *testing.T) {
	isolateHome(t)

	var seen config.Config
	client := &fakeClient{}
	withDeps(t, client, &seen)

	origURL, origVerbose := backendURLFlag, verboseFlag
	backendURLFlag = "http://localhost:8080/"
	verboseFlag = true
	defer func() { backendURLFlag, verboseFlag = origURL, origVerbose }()

	var console bytes.Buffer
	sess, err := openSession(deps, &console)
	if err != nil {
		t.Fatalf("openSession() error = %v", err)
	}
	sess.Close()

	if seen.BackendURL != "http://localhost:8080" {
		t.Errorf("BackendURL = %q", seen.BackendURL)
	}
	if !seen.Verbose {
		t.Error("--verbose should enable verbose logging")
	}
	if !client.closed {
		t.Error("Close should close the client")
	}
	if !strings.Contains(console.String(), "session opened") {
		t.Errorf("verbose console log missing, got %q", console.String())
	}
}

func TestOpenSession_InvalidBackendURL(t *testing.T) {
	isolateHome(t)
	withDeps(t, &fakeClient{}, nil)

	orig := backendURLFlag
	backendURLFlag = "ftp://example.com"
	defer func() { backendURLFlag = orig }()

	_, err := openSession(deps, nil)
	if !apierrors.IsConfigError(err) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestFormatErrorMessage(t *testing.T) {
	if formatErrorMessage(nil, "x") != "" {
		t.Error("nil error should format to empty string")
	}

	err := apierrors.NewNetworkErrorWithEndpoint("ask", "http://fake/ask", errors.New("refused"))
	msg := formatErrorMessage(err, "Error")
	for _, want := range []string{"Error", "refused", "Endpoint: http://fake/ask", "Hint"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q: %q", want, msg)
		}
	}

	cfgErr := formatErrorMessage(apierrors.NewConfigError("backend_url", "missing host"), "Error")
	if !strings.Contains(cfgErr, "config show") {
		t.Errorf("config error hint missing: %q", cfgErr)
	}
}
