// Package chat implements the verification chat session used to
// sanity-check a channel before publishing it.
//
// A session is bound to one channel id for its whole lifetime and is
// never persisted; closing the panel discards it. The session keeps an
// append-only transcript and allows a single outstanding request: input
// submitted while a turn is in flight is rejected client-side.
//
// Failures are reported inside the transcript as a fixed assistant
// message rather than as a global notice, preserving conversational
// continuity. Assistant responses pass through a formatting pipeline
// (quote unwrapping, escape expansion, parenthetical stripping, markdown
// rendering); operator input is always kept literal.
package chat
