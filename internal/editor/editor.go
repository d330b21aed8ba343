// ABOUTME: State machine for the channel administration workflow.
// ABOUTME: Governs Browsing/Adding/Editing modes and all channel mutations.

package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/smartguy05/support-channel-admin/internal/api"
	"github.com/smartguy05/support-channel-admin/internal/cache"
)

// Draft field defaults, matching what the backend expects for a fresh
// channel before the operator tunes anything.
const (
	DefaultMaxTokens        = 150
	DefaultTemperature      = 0.7
	DefaultMaxContextLength = 4000
)

// ErrEditInProgress is returned when an add or edit is requested while
// another draft is already open.
var ErrEditInProgress = errors.New("another edit is in progress")

// ErrNoDraft is returned when a draft operation runs outside Adding or
// Editing mode.
var ErrNoDraft = errors.New("no draft open")

// ErrNotFound is returned when an operation targets a channel id that is
// not in the cache.
var ErrNotFound = errors.New("channel not found")

// Mode identifies the editor's current state.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeAdding
	ModeEditing
)

// String returns the mode name for logging.
func (m Mode) String() string {
	switch m {
	case ModeBrowsing:
		return "browsing"
	case ModeAdding:
		return "adding"
	case ModeEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// ChannelAPI defines what the editor needs from the backend.
type ChannelAPI interface {
	ListChannels(ctx context.Context) ([]api.ChannelConfig, error)
	CreateChannel(ctx context.Context, cfg *api.ChannelConfig) (*api.ChannelConfig, error)
	UpdateChannel(ctx context.Context, id string, cfg *api.ChannelConfig) (*api.ChannelConfig, error)
	DeleteChannel(ctx context.Context, id string) error
	GetAccessKey(ctx context.Context, collection string) (string, error)
}

// Confirmer gates destructive actions behind an operator confirmation.
// The console shell implements it with a terminal prompt; tests inject a
// canned answer.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Draft is the editable form of a channel config. In Adding mode the ID
// is empty; in Editing mode it carries the id of the entity being edited.
type Draft struct {
	ID               string
	Name             string
	Model            string
	MaxTokens        int
	Temperature      float64
	MaxContextLength int
	SystemPrompt     string
	InitialMessage   string
	Bindings         []Binding
}

// NewDraft returns a fresh draft with default numeric fields and an empty
// binding list.
func NewDraft() *Draft {
	return &Draft{
		MaxTokens:        DefaultMaxTokens,
		Temperature:      DefaultTemperature,
		MaxContextLength: DefaultMaxContextLength,
	}
}

// config converts the draft to its wire form. Bindings go out exactly as
// entered, resolved or not.
func (d *Draft) config() *api.ChannelConfig {
	bindings := make([]api.KbBinding, len(d.Bindings))
	for i, b := range d.Bindings {
		bindings[i] = b.KbBinding
	}
	return &api.ChannelConfig{
		Name:             d.Name,
		Model:            d.Model,
		MaxTokens:        d.MaxTokens,
		Temperature:      d.Temperature,
		MaxContextLength: d.MaxContextLength,
		SystemPrompt:     d.SystemPrompt,
		InitialMessage:   d.InitialMessage,
		Bindings:         bindings,
	}
}

// Editor drives the channel administration workflow against the backend
// and the local cache.
type Editor struct {
	api     ChannelAPI
	cache   *cache.Channels
	confirm Confirmer
	logger  *slog.Logger

	mode      Mode
	editingID string
	working   *Draft
}

// New creates an editor in Browsing mode over an empty cache.
func New(channelAPI ChannelAPI, channels *cache.Channels, confirm Confirmer, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{
		api:     channelAPI,
		cache:   channels,
		confirm: confirm,
		logger:  logger.With("component", "editor"),
	}
}

// Load fetches the channel list and rebuilds the cache. The editor enters
// Browsing mode once the list has loaded.
func (e *Editor) Load(ctx context.Context) error {
	channels, err := e.api.ListChannels(ctx)
	if err != nil {
		return fmt.Errorf("loading channels: %w", err)
	}
	e.cache.Reset(channels)
	e.mode = ModeBrowsing
	e.editingID = ""
	e.working = nil
	e.logger.Debug("channel list loaded", "count", e.cache.Len())
	return nil
}

// Mode returns the editor's current mode.
func (e *Editor) Mode() Mode {
	return e.mode
}

// EditingID returns the id of the entity being edited, or empty outside
// Editing mode.
func (e *Editor) EditingID() string {
	return e.editingID
}

// Working returns the open draft, or nil in Browsing mode. Top-level
// fields are set directly on the draft; binding mutations go through the
// editor so resolution state stays consistent.
func (e *Editor) Working() *Draft {
	return e.working
}

// Channels returns the cached channel listing.
func (e *Editor) Channels() []api.ChannelConfig {
	return e.cache.List()
}

// StartAdd opens a fresh draft. Fails when any draft is already open.
func (e *Editor) StartAdd() error {
	if e.mode != ModeBrowsing {
		return ErrEditInProgress
	}
	e.mode = ModeAdding
	e.working = NewDraft()
	return nil
}

// StartEdit clones the cached entity for id into a working copy. Fails
// when any draft is already open (editor exclusivity) or the id is not
// cached.
func (e *Editor) StartEdit(id string) error {
	if e.mode != ModeBrowsing {
		return ErrEditInProgress
	}
	ch := e.cache.Get(id)
	if ch == nil {
		return fmt.Errorf("editing %s: %w", id, ErrNotFound)
	}
	e.mode = ModeEditing
	e.editingID = id
	e.working = draftFrom(ch)
	return nil
}

// Cancel discards the open draft without any network call and returns to
// Browsing.
func (e *Editor) Cancel() error {
	if e.mode == ModeBrowsing {
		return ErrNoDraft
	}
	e.logger.Debug("draft discarded", "mode", e.mode.String(), "id", e.editingID)
	e.reset()
	return nil
}

// Submit sends the open draft to the backend. In Adding mode the created
// entity is appended to the cache; in Editing mode the returned entity
// replaces the cached one by id. On success the draft is discarded and
// the editor returns to Browsing. On failure the draft and cache are left
// untouched so the operator can correct and resubmit.
func (e *Editor) Submit(ctx context.Context) (*api.ChannelConfig, error) {
	switch e.mode {
	case ModeAdding:
		created, err := e.api.CreateChannel(ctx, e.working.config())
		if err != nil {
			return nil, err
		}
		e.cache.Append(created)
		e.logger.Info("channel created", "id", created.ID, "name", created.Name)
		e.reset()
		return created, nil

	case ModeEditing:
		id := e.editingID
		updated, err := e.api.UpdateChannel(ctx, id, e.working.config())
		if err != nil {
			return nil, err
		}
		e.cache.Replace(id, updated)
		e.logger.Info("channel updated", "id", id, "name", updated.Name)
		e.reset()
		return updated, nil

	default:
		return nil, ErrNoDraft
	}
}

// Delete removes a channel after operator confirmation. Returns false
// with no error when the operator declines; the cache is only touched
// after the server confirms the delete.
func (e *Editor) Delete(ctx context.Context, id string) (bool, error) {
	ch := e.cache.Get(id)
	if ch == nil {
		return false, fmt.Errorf("deleting %s: %w", id, ErrNotFound)
	}
	if !e.confirm.Confirm(fmt.Sprintf("Delete channel %q?", ch.Name)) {
		return false, nil
	}
	if err := e.api.DeleteChannel(ctx, id); err != nil {
		return false, err
	}
	e.cache.Remove(id)
	e.logger.Info("channel deleted", "id", id, "name", ch.Name)
	return true, nil
}

// CanActivateChat reports whether selecting a row may open a chat
// session. While any row is being edited, activation is suppressed
// globally and an open session should be closed instead.
func (e *Editor) CanActivateChat() bool {
	return e.mode != ModeEditing
}

// reset discards draft state and returns to Browsing.
func (e *Editor) reset() {
	e.mode = ModeBrowsing
	e.editingID = ""
	e.working = nil
}

// draftFrom builds a working copy from a cached entity. Bindings with
// both fields present come back Resolved; anything else needs the picker
// again.
func draftFrom(ch *api.ChannelConfig) *Draft {
	d := &Draft{
		ID:               ch.ID,
		Name:             ch.Name,
		Model:            ch.Model,
		MaxTokens:        ch.MaxTokens,
		Temperature:      ch.Temperature,
		MaxContextLength: ch.MaxContextLength,
		SystemPrompt:     ch.SystemPrompt,
		InitialMessage:   ch.InitialMessage,
		Bindings:         make([]Binding, len(ch.Bindings)),
	}
	for i, b := range ch.Bindings {
		status := BindingUnresolved
		if b.Collection != "" && b.AccessKey != "" {
			status = BindingResolved
		}
		d.Bindings[i] = Binding{KbBinding: b, Status: status}
	}
	return d
}
