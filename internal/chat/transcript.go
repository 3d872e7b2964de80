package chat

import (
	"sync"

	"github.com/diogo/sportchat/internal/models"
)

// Transcript is the append-only conversation log.
type Transcript struct {
	mu       sync.Mutex
	messages []models.Message
	onAppend func(models.Message)
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{}
}

// OnAppend registers fn to be called for every appended message.
// fn runs under the transcript lock, so calls are serialized and in append order.
func (t *Transcript) OnAppend(fn func(models.Message)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onAppend = fn
}

// Append adds a message to the end of the log
func (t *Transcript) Append(msg models.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = append(t.messages, msg)
	if t.onAppend != nil {
		t.onAppend(msg)
	}
}

// Messages returns a copy of the log
func (t *Transcript) Messages() []models.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// Last returns the most recent message from sender, if any
func (t *Transcript) Last(sender models.Sender) (models.Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Sender == sender {
			return t.messages[i], true
		}
	}
	return models.Message{}, false
}
