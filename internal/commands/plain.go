package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/diogo/sportchat/internal/chat"
	"github.com/diogo/sportchat/internal/models"
)

// maxLineBytes bounds a single question read in line mode
const maxLineBytes = 1 << 20

// runPlain reads one question per line from in and prints every appended
// message to out as "<sender>> <text>". Questions are sent as soon as they
// are read; at EOF it waits for outstanding replies.
func runPlain(ctx context.Context, ctrl *chat.Controller, in io.Reader, out io.Writer) error {
	ctrl.Transcript().OnAppend(func(msg models.Message) {
		fmt.Fprintf(out, "%s> %s\n", msg.Sender, msg.Text)
	})
	defer ctrl.Transcript().OnAppend(nil)

	var g errgroup.Group

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		ex, ok := ctrl.Submit(scanner.Text())
		if !ok {
			continue
		}
		g.Go(func() error {
			ctrl.Deliver(ctx, ex)
			return nil
		})
	}

	// Replies never fail the group, so only the read error is reported.
	_ = g.Wait()
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}
