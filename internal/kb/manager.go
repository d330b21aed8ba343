// ABOUTME: Collection manager: CRUD, cascading selection loads, uploads, keys.
// ABOUTME: Tags every selection fetch so stale responses are discarded.

package kb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/smartguy05/support-channel-admin/internal/api"
)

// MaxUploadBatch is the hard client-side cap on files per upload batch.
const MaxUploadBatch = 20

// MaxDescriptionLength is the longest accepted collection description.
const MaxDescriptionLength = 200

var (
	// ErrNoSelection is returned by operations that need a selected collection.
	ErrNoSelection = errors.New("no collection selected")
	// ErrBatchTooLarge is returned before any network call when an upload
	// batch exceeds MaxUploadBatch files.
	ErrBatchTooLarge = fmt.Errorf("upload batch exceeds %d files", MaxUploadBatch)
	// ErrNameRequired is returned when creating a collection without a name.
	ErrNameRequired = errors.New("collection name is required")
	// ErrDescriptionTooLong is returned when a description exceeds
	// MaxDescriptionLength characters.
	ErrDescriptionTooLong = fmt.Errorf("description must be at most %d characters", MaxDescriptionLength)
	// ErrKeyExists is returned when issuing a key for a collection that
	// already has one.
	ErrKeyExists = errors.New("collection already has an access key")
)

// CollectionAPI defines what the manager needs from the knowledge-base
// service.
type CollectionAPI interface {
	ListCollections(ctx context.Context) ([]api.Collection, error)
	CreateCollection(ctx context.Context, name, description string) error
	DeleteCollection(ctx context.Context, name string) error
	ListDocuments(ctx context.Context, collection string) ([]string, error)
	UploadDocuments(ctx context.Context, collection string, files []api.UploadFile) error
	DeleteDocument(ctx context.Context, collection, filename string) error
	GetAccessKey(ctx context.Context, collection string) (string, error)
	IssueAccessKey(ctx context.Context, collection string) (string, error)
}

// Confirmer gates destructive actions behind an operator confirmation.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Manager holds the collection list, the current selection and its
// derived document/key views.
type Manager struct {
	api     CollectionAPI
	confirm Confirmer
	logger  *slog.Logger

	mu          sync.Mutex
	collections []api.Collection
	selected    string
	token       string // selection token current at fetch issue time
	documents   []string
	accessKey   string
	hasKey      bool
	uploading   int
}

// New creates a manager with an empty collection list. Call Refresh to
// load it.
func New(collectionAPI CollectionAPI, confirm Confirmer, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		api:     collectionAPI,
		confirm: confirm,
		logger:  logger.With("component", "kb"),
	}
}

// Refresh reloads the collection list wholesale from the server. It is
// called on startup and after every create or delete; the manager never
// holds a partial view.
func (m *Manager) Refresh(ctx context.Context) error {
	collections, err := m.api.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("loading collections: %w", err)
	}
	m.mu.Lock()
	m.collections = collections
	m.mu.Unlock()
	m.logger.Debug("collection list loaded", "count", len(collections))
	return nil
}

// Select switches the current collection and loads its document list and
// access key. An empty name clears the selection and both derived views.
// Both fetches are tagged with the selection token current at issue time;
// results are dropped if the selection has moved on by the time they
// arrive.
func (m *Manager) Select(ctx context.Context, name string) error {
	m.mu.Lock()
	m.selected = name
	m.token = uuid.New().String()
	token := m.token
	m.documents = nil
	m.accessKey = ""
	m.hasKey = false
	m.mu.Unlock()

	if name == "" {
		return nil
	}

	docs, docsErr := m.api.ListDocuments(ctx, name)
	key, keyErr := m.api.GetAccessKey(ctx, name)

	if docsErr == nil {
		m.applyDocuments(token, docs)
	}
	if keyErr == nil {
		m.applyKey(token, key)
	}

	if docsErr != nil {
		return fmt.Errorf("selecting %q: %w", name, docsErr)
	}
	if keyErr != nil {
		return fmt.Errorf("selecting %q: %w", name, keyErr)
	}
	return nil
}

// applyDocuments installs a fetched document list if its token still
// matches the current selection. Stale responses are discarded.
func (m *Manager) applyDocuments(token string, docs []string) {
	sortDocuments(docs)
	m.mu.Lock()
	defer m.mu.Unlock()
	if token != m.token {
		m.logger.Debug("stale document list discarded")
		return
	}
	m.documents = docs
}

// applyKey installs a fetched access key if its token still matches the
// current selection.
func (m *Manager) applyKey(token, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token != m.token {
		m.logger.Debug("stale access key discarded")
		return
	}
	m.accessKey = key
	m.hasKey = key != ""
}

// Upload sends a file batch to the selected collection. Batches over
// MaxUploadBatch files never reach the network layer. On success the
// document list is reloaded; on failure no partial list is assumed and
// the current view stands.
func (m *Manager) Upload(ctx context.Context, files []api.UploadFile) error {
	m.mu.Lock()
	selected := m.selected
	token := m.token
	m.mu.Unlock()

	if selected == "" {
		return ErrNoSelection
	}
	if len(files) > MaxUploadBatch {
		return ErrBatchTooLarge
	}

	m.setUploading(1)
	defer m.setUploading(-1)

	if err := m.api.UploadDocuments(ctx, selected, files); err != nil {
		return fmt.Errorf("uploading %d files: %w", len(files), err)
	}
	m.logger.Info("batch uploaded", "collection", selected, "files", len(files))

	docs, err := m.api.ListDocuments(ctx, selected)
	if err != nil {
		return fmt.Errorf("reloading documents: %w", err)
	}
	m.applyDocuments(token, docs)
	return nil
}

// DeleteDocument removes one document after operator confirmation.
// Returns false with no error when the operator declines. Success
// filters the document out of the local view; no reload is issued.
func (m *Manager) DeleteDocument(ctx context.Context, filename string) (bool, error) {
	m.mu.Lock()
	selected := m.selected
	m.mu.Unlock()

	if selected == "" {
		return false, ErrNoSelection
	}
	if !m.confirm.Confirm(fmt.Sprintf("Delete %q from %q?", filename, selected)) {
		return false, nil
	}
	if err := m.api.DeleteDocument(ctx, selected, filename); err != nil {
		return false, err
	}

	m.mu.Lock()
	kept := m.documents[:0]
	for _, doc := range m.documents {
		if doc != filename {
			kept = append(kept, doc)
		}
	}
	m.documents = kept
	m.mu.Unlock()

	m.logger.Info("document deleted", "collection", selected, "filename", filename)
	return true, nil
}

// IssueKey requests key creation for the selected collection. Issuance
// is only offered while no key is present.
func (m *Manager) IssueKey(ctx context.Context) (string, error) {
	m.mu.Lock()
	selected := m.selected
	token := m.token
	hasKey := m.hasKey
	m.mu.Unlock()

	if selected == "" {
		return "", ErrNoSelection
	}
	if hasKey {
		return "", ErrKeyExists
	}

	key, err := m.api.IssueAccessKey(ctx, selected)
	if err != nil {
		return "", err
	}
	m.applyKey(token, key)
	m.logger.Info("access key issued", "collection", selected)
	return key, nil
}

// Create validates and creates a new collection, then reloads the list.
// Validation failures abort before any network call.
func (m *Manager) Create(ctx context.Context, name, description string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if len(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if err := m.api.CreateCollection(ctx, name, description); err != nil {
		return err
	}
	m.logger.Info("collection created", "name", name)
	return m.Refresh(ctx)
}

// Delete removes the selected collection after operator confirmation.
// Returns false with no error when the operator declines. Success resets
// the selection and clears both derived views locally; the console does
// not wait for the server's cascading removal.
func (m *Manager) Delete(ctx context.Context) (bool, error) {
	m.mu.Lock()
	selected := m.selected
	m.mu.Unlock()

	if selected == "" {
		return false, ErrNoSelection
	}
	prompt := fmt.Sprintf("Delete collection %q? This action cannot be undone.", selected)
	if !m.confirm.Confirm(prompt) {
		return false, nil
	}
	if err := m.api.DeleteCollection(ctx, selected); err != nil {
		return false, err
	}

	m.mu.Lock()
	m.selected = ""
	m.token = uuid.New().String()
	m.documents = nil
	m.accessKey = ""
	m.hasKey = false
	m.mu.Unlock()

	m.logger.Info("collection deleted", "name", selected)
	return true, m.Refresh(ctx)
}

// Collections returns the current collection list.
func (m *Manager) Collections() []api.Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]api.Collection, len(m.collections))
	copy(out, m.collections)
	return out
}

// Selected returns the currently selected collection name, or empty.
func (m *Manager) Selected() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// Documents returns the selected collection's document list, sorted
// case-insensitively by filename.
func (m *Manager) Documents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.documents))
	copy(out, m.documents)
	return out
}

// AccessKey returns the selected collection's key and whether one is
// present.
func (m *Manager) AccessKey() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessKey, m.hasKey
}

// Uploading reports whether at least one upload batch is in flight. It
// is a busy indicator only; it does not block further batches.
func (m *Manager) Uploading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploading > 0
}

func (m *Manager) setUploading(delta int) {
	m.mu.Lock()
	m.uploading += delta
	m.mu.Unlock()
}

// sortDocuments orders filenames case-insensitively for stable
// rendering. Equal folds fall back to byte order so the sort is
// deterministic.
func sortDocuments(docs []string) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := strings.ToLower(docs[i]), strings.ToLower(docs[j])
		if a != b {
			return a < b
		}
		return docs[i] < docs[j]
	})
}
