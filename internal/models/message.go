package models

import "time"

// Sender identifies who produced a transcript message
type Sender string

const (
	SenderUser   Sender = "user"
	SenderBot    Sender = "bot"
	SenderSystem Sender = "system"
)

// String implements fmt.Stringer
func (s Sender) String() string {
	return string(s)
}

// Valid reports whether s is one of the known senders
func (s Sender) Valid() bool {
	switch s {
	case SenderUser, SenderBot, SenderSystem:
		return true
	default:
		return false
	}
}

// Message is a single entry of the conversation log.
// Messages are never mutated after creation.
type Message struct {
	Text   string
	Sender Sender
	At     time.Time
}

// NewMessage creates a message stamped with the current time
func NewMessage(text string, sender Sender) Message {
	return Message{
		Text:   text,
		Sender: sender,
		At:     time.Now(),
	}
}

// UserMessage creates a message typed by the user
func UserMessage(text string) Message {
	return NewMessage(text, SenderUser)
}

// BotMessage creates a message carrying an answer from the backend
func BotMessage(text string) Message {
	return NewMessage(text, SenderBot)
}

// SystemMessage creates an error or diagnostic message
func SystemMessage(text string) Message {
	return NewMessage(text, SenderSystem)
}

// IsSystem reports whether the message is an error or diagnostic
func (m Message) IsSystem() bool {
	return m.Sender == SenderSystem
}
