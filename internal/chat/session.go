// ABOUTME: Ephemeral per-channel chat session for channel verification.
// ABOUTME: Serializes its own turns with an in-flight flag; never persisted.

package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrEmptyInput is returned when a submitted turn is empty or whitespace.
var ErrEmptyInput = errors.New("empty input")

// ErrBusy is returned when a turn is submitted while another is still in
// flight. The session queues nothing and cancels nothing; the operator
// waits for the outstanding turn to resolve.
var ErrBusy = errors.New("a chat request is already in flight")

// errorNotice is appended as an assistant turn when a chat request
// fails; the transcript itself is the error channel for this component.
const errorNotice = "Error: Failed to fetch response."

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one turn in the transcript. Assistant messages carry both
// the pipeline-cleaned text and its rendered HTML; user messages are
// literal and HTML stays empty.
type Message struct {
	Sender Sender
	Text   string
	HTML   string
}

// ChatSender defines what the session needs from the backend.
type ChatSender interface {
	SendChat(ctx context.Context, id, query string) (string, error)
}

// Session is a verification chat bound to exactly one channel.
type Session struct {
	id        string
	channelID string
	sender    ChatSender
	logger    *slog.Logger

	mu       sync.Mutex
	messages []Message
	inFlight bool
}

// New creates a session for the given channel. When the channel has an
// initial message configured, the transcript is seeded with it as an
// assistant turn; otherwise the transcript starts empty.
func New(sender ChatSender, channelID, initialMessage string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New().String()
	s := &Session{
		id:        id,
		channelID: channelID,
		sender:    sender,
		logger:    logger.With("component", "chat", "session_id", id, "channel_id", channelID),
	}
	if initialMessage != "" {
		s.appendAssistant(initialMessage)
	}
	return s
}

// Submit sends one operator turn. Empty input and concurrent submission
// are rejected client-side. The user message is appended before the
// request goes out; a failed request appends the fixed error notice as
// an assistant turn instead of returning an error, so the transcript
// stays the single error surface. The in-flight flag clears regardless
// of outcome.
func (s *Session) Submit(ctx context.Context, input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ErrEmptyInput
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrBusy
	}
	s.inFlight = true
	s.messages = append(s.messages, Message{Sender: SenderUser, Text: trimmed})
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	resp, err := s.sender.SendChat(ctx, s.channelID, trimmed)
	if err != nil {
		s.logger.Warn("chat turn failed", "error", err)
		s.appendAssistant(errorNotice)
		return nil
	}

	s.appendAssistant(resp)
	return nil
}

// appendAssistant runs the formatting pipeline and appends the result.
func (s *Session) appendAssistant(raw string) {
	text := FormatResponse(raw)
	html, err := RenderHTML(text)
	if err != nil {
		s.logger.Warn("markdown rendering failed", "error", err)
		html = ""
	}

	s.mu.Lock()
	s.messages = append(s.messages, Message{Sender: SenderAssistant, Text: text, HTML: html})
	s.mu.Unlock()
}

// Messages returns a copy of the transcript in order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// ChannelID returns the channel this session verifies.
func (s *Session) ChannelID() string {
	return s.channelID
}

// ID returns the session's identifier, used only for logging.
func (s *Session) ID() string {
	return s.id
}

// InFlight reports whether a turn is outstanding.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}
