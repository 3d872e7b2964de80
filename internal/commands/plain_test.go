package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/goleak"

	"github.com/diogo/sportchat/internal/chat"
	apierrors "github.com/diogo/sportchat/internal/errors"
	"github.com/diogo/sportchat/internal/models"
)

func TestRunPlain(t *testing.T) {
	defer goleak.VerifyNone(t)

	client := &fakeClient{
		replies: map[string]*models.AskResponse{
			"who won?": answer("Brazil"),
			"bad":      failure("bad query"),
		},
		errs: map[string]error{
			"down": apierrors.NewNetworkError("ask", errors.New("timeout")),
		},
	}
	ctrl := chat.NewController(client)

	var out bytes.Buffer
	in := strings.NewReader("who won?\n   \n\nbad\ndown\nempty\n")

	if err := runPlain(context.Background(), ctrl, in, &out); err != nil {
		t.Fatalf("runPlain() error = %v", err)
	}

	if got := len(client.Queries()); got != 4 {
		t.Errorf("sent %d requests, want 4", got)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d:\n%s", len(lines), out.String())
	}

	for _, want := range []string{
		"user> who won?",
		"bot> Brazil",
		"user> bad",
		"system> Error: bad query",
		"system> Failed to connect to backend: timeout",
		"system> Error: Unknown error",
	} {
		if !strings.Contains(out.String(), want+"\n") {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	if lines[0] != "user> who won?" {
		t.Errorf("first line = %q", lines[0])
	}
}

func TestRunPlain_QuitWordsAreQuestions(t *testing.T) {
	client := &fakeClient{replies: map[string]*models.AskResponse{"quit": answer("no quitting in sport")}}
	ctrl := chat.NewController(client)

	var out bytes.Buffer
	in := strings.NewReader("quit\nexit\n")

	if err := runPlain(context.Background(), ctrl, in, &out); err != nil {
		t.Fatalf("runPlain() error = %v", err)
	}

	queries := client.Queries()
	if len(queries) != 2 {
		t.Fatalf("queries = %v, want [quit exit]", queries)
	}
	if n := ctrl.Transcript().Len(); n != 4 {
		t.Errorf("transcript has %d messages, want 4", n)
	}
	for _, want := range []string{"user> quit\n", "bot> no quitting in sport\n", "user> exit\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("device gone")
}

func TestRunPlain_ReadError(t *testing.T) {
	ctrl := chat.NewController(&fakeClient{})

	err := runPlain(context.Background(), ctrl, brokenReader{}, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "device gone") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestRunChat_PlainMode(t *testing.T) {
	isolateHome(t)
	client := &fakeClient{replies: map[string]*models.AskResponse{"hi": answer("hello")}}
	withDeps(t, client, nil)

	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("hi\n"))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetContext(context.Background())

	if err := runChat(cmd, true); err != nil {
		t.Fatalf("runChat() error = %v", err)
	}

	if !strings.Contains(out.String(), "bot> hello") {
		t.Errorf("output = %q", out.String())
	}
	if !client.closed {
		t.Error("client should be closed when the session ends")
	}
}
