// ABOUTME: Formatting pipeline for assistant responses.
// ABOUTME: Unwraps quotes, expands escapes, strips asides, renders markdown.

package chat

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

// parenthetical matches optional leading whitespace followed by a
// parenthesized group with no nested parentheses.
var parenthetical = regexp.MustCompile(`\s*\([^)]*\)`)

// FormatResponse cleans a raw assistant response for rendering. In
// order: strip a single outer double-quote pair spanning the whole
// string, expand literal \n escape sequences into line breaks, and
// remove parenthetical asides anywhere in the text.
func FormatResponse(text string) string {
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		text = text[1 : len(text)-1]
	}
	text = strings.ReplaceAll(text, `\n`, "\n")
	return parenthetical.ReplaceAllString(text, "")
}

// RenderHTML interprets cleaned text as lightweight markup and returns
// the rendered HTML. Only assistant messages go through here; operator
// input is displayed literally.
func RenderHTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}
