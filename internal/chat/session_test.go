// ABOUTME: Tests for the verification chat session.
// ABOUTME: Seeding, turn ordering, in-flight discipline, error notices.

package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSender implements ChatSender with canned responses.
type mockSender struct {
	mu       sync.Mutex
	response string
	err      error
	queries  []string
	block    chan struct{} // when non-nil, SendChat blocks until closed
	onSend   func()
}

func (m *mockSender) SendChat(ctx context.Context, id, query string) (string, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	onSend := m.onSend
	block := m.block
	m.mu.Unlock()
	if onSend != nil {
		onSend()
	}
	if block != nil {
		<-block
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func TestNew_SeedsInitialMessage(t *testing.T) {
	s := New(&mockSender{}, "chan-1", "Welcome! How can I help?", nil)

	messages := s.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, SenderAssistant, messages[0].Sender)
	assert.Equal(t, "Welcome! How can I help?", messages[0].Text)
	assert.Contains(t, messages[0].HTML, "Welcome! How can I help?")
}

func TestNew_NoSeedWhenEmpty(t *testing.T) {
	s := New(&mockSender{}, "chan-1", "", nil)
	assert.Empty(t, s.Messages())
}

func TestSubmit_RoundTrip(t *testing.T) {
	sender := &mockSender{response: `"Hello (aside) world\nLine2"`}
	s := New(sender, "chan-1", "", nil)

	require.NoError(t, s.Submit(context.Background(), "  is anyone there?  "))

	assert.Equal(t, []string{"is anyone there?"}, sender.queries)
	messages := s.Messages()
	require.Len(t, messages, 2)

	assert.Equal(t, SenderUser, messages[0].Sender)
	assert.Equal(t, "is anyone there?", messages[0].Text)
	assert.Empty(t, messages[0].HTML, "operator input is displayed literally")

	assert.Equal(t, SenderAssistant, messages[1].Sender)
	assert.Equal(t, "Hello world\nLine2", messages[1].Text)
	assert.Contains(t, messages[1].HTML, "Hello world")
	assert.Contains(t, messages[1].HTML, "Line2")
}

func TestSubmit_EmptyInput(t *testing.T) {
	sender := &mockSender{}
	s := New(sender, "chan-1", "", nil)

	assert.ErrorIs(t, s.Submit(context.Background(), ""), ErrEmptyInput)
	assert.ErrorIs(t, s.Submit(context.Background(), "   \t "), ErrEmptyInput)
	assert.Empty(t, sender.queries)
	assert.Empty(t, s.Messages())
}

func TestSubmit_RejectsConcurrentTurn(t *testing.T) {
	sender := &mockSender{response: "ok", block: make(chan struct{})}
	started := make(chan struct{})
	var startedOnce sync.Once
	sender.onSend = func() { startedOnce.Do(func() { close(started) }) }
	s := New(sender, "chan-1", "", nil)

	done := make(chan error, 1)
	go func() {
		done <- s.Submit(context.Background(), "first")
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first turn never reached the sender")
	}

	assert.True(t, s.InFlight())
	assert.ErrorIs(t, s.Submit(context.Background(), "second"), ErrBusy)

	close(sender.block)
	require.NoError(t, <-done)

	assert.False(t, s.InFlight())
	assert.Equal(t, []string{"first"}, sender.queries, "the rejected turn never went out")

	// The session accepts turns again once the outstanding one resolves.
	require.NoError(t, s.Submit(context.Background(), "third"))
	assert.Equal(t, []string{"first", "third"}, sender.queries)
}

func TestSubmit_FailureAppendsErrorNotice(t *testing.T) {
	sender := &mockSender{err: errors.New("connection refused")}
	s := New(sender, "chan-1", "", nil)

	// The transcript is the error surface; Submit itself reports success.
	require.NoError(t, s.Submit(context.Background(), "hello"))

	messages := s.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, SenderUser, messages[0].Sender)
	assert.Equal(t, "hello", messages[0].Text)
	assert.Equal(t, SenderAssistant, messages[1].Sender)
	assert.Equal(t, "Error: Failed to fetch response.", messages[1].Text)
	assert.False(t, s.InFlight())
}

func TestSubmit_UserTurnAppendedBeforeRequest(t *testing.T) {
	s := New(nil, "chan-1", "", nil)
	sender := &mockSender{response: "ok"}
	sender.onSend = func() {
		messages := s.Messages()
		require.Len(t, messages, 1)
		assert.Equal(t, SenderUser, messages[0].Sender)
	}
	s.sender = sender

	require.NoError(t, s.Submit(context.Background(), "hello"))
	assert.Len(t, s.Messages(), 2)
}

func TestMessages_ReturnsCopy(t *testing.T) {
	sender := &mockSender{response: "ok"}
	s := New(sender, "chan-1", "hi", nil)
	require.NoError(t, s.Submit(context.Background(), "hello"))

	messages := s.Messages()
	messages[0].Text = "mutated"
	assert.Equal(t, "hi", s.Messages()[0].Text)
}

func TestSession_Identity(t *testing.T) {
	a := New(&mockSender{}, "chan-1", "", nil)
	b := New(&mockSender{}, "chan-1", "", nil)
	assert.Equal(t, "chan-1", a.ChannelID())
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
