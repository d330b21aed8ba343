// ABOUTME: Tests for the console shell's input loop and display helpers.
// ABOUTME: Covers degenerate command input and rune-safe truncation.

package main

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartguy05/support-channel-admin/internal/api"
)

// newTestConsole wires a console to a stub backend and canned input.
func newTestConsole(t *testing.T, input string) *console {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(new(strings.Builder), nil))
	client := api.New(server.URL, server.URL, "test-token", logger)
	c := newConsole(client, logger)
	c.scanner = bufio.NewScanner(strings.NewReader(input))
	return c
}

func TestRun_BareSlashKeepsLoopRunning(t *testing.T) {
	// A lone "/" strips to nothing; it must be ignored, not dispatched.
	c := newTestConsole(t, "/\nquit\n")
	require.NoError(t, c.run(context.Background()))
}

func TestRun_BlankAndWhitespaceLines(t *testing.T) {
	c := newTestConsole(t, "\n   \n/ \nquit\n")
	require.NoError(t, c.run(context.Background()))
}

func TestRun_EndOfInput(t *testing.T) {
	// Exhausted input ends the loop cleanly, as on a closed terminal.
	c := newTestConsole(t, "channels\n")
	require.NoError(t, c.run(context.Background()))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string untouched", "abc", 10, "abc"},
		{"exact length untouched", "abcde", 5, "abcde"},
		{"long string shortened", "abcdefghij", 8, "abcde..."},
		{"multibyte runes kept whole", "héllo wörld", 8, "héllo..."},
		{"cjk", "支援チャンネル管理", 6, "支援チ..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), tt.maxLen)
		})
	}
}
