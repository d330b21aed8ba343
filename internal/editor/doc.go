// Package editor implements the channel administration workflow.
//
// # Overview
//
// The editor is a state machine over the channel list: Browsing shows the
// server-backed listing, Adding holds a fresh draft, and Editing holds a
// working copy cloned from one cached entity. At most one draft or working
// copy exists at a time; starting a second edit is rejected rather than
// silently replacing the first.
//
// # Modes
//
//   - Browsing: no draft; rows can be deleted or activated for chat
//   - Adding: a draft config with no id; cancel discards, submit creates
//   - Editing: a working copy of one entity; cancel discards without any
//     network call, submit updates and replaces the cached entity by id
//
// While an edit is open, chat activation is suppressed for every row, not
// just the one being edited.
//
// # Bindings
//
// Drafts carry a nested list of knowledge-base bindings. A binding starts
// Unresolved; picking a collection resolves it by looking up that
// collection's access key and writing it into the binding. A failed lookup
// leaves the binding Unresolved so the operator can retry by reselecting.
// Bindings are submitted exactly as entered; the console does not verify
// hand-typed collection names against the server.
package editor
