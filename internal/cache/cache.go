// ABOUTME: In-memory mirror of server-held channel configs for the console.
// ABOUTME: Rebuilt from API responses; never the source of truth.

package cache

import (
	"sync"

	"github.com/smartguy05/support-channel-admin/internal/api"
)

// Channels holds the console's local view of the channel list. Mutations
// happen only after a confirmed success response from the server, so the
// cache can fall behind the server but never run ahead of it.
type Channels struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*api.ChannelConfig
}

// NewChannels returns an empty channel cache.
func NewChannels() *Channels {
	return &Channels{byID: make(map[string]*api.ChannelConfig)}
}

// Reset replaces the entire cache with a fresh server listing. Entries
// without an id are dropped; they have never been persisted and cannot be
// addressed.
func (c *Channels) Reset(channels []api.ChannelConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = c.order[:0]
	c.byID = make(map[string]*api.ChannelConfig, len(channels))
	for i := range channels {
		ch := channels[i]
		if ch.ID == "" {
			continue
		}
		c.order = append(c.order, ch.ID)
		c.byID[ch.ID] = &ch
	}
}

// Append adds a newly created entity to the end of the listing.
func (c *Channels) Append(ch *api.ChannelConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[ch.ID]; !ok {
		c.order = append(c.order, ch.ID)
	}
	c.byID[ch.ID] = ch.Clone()
}

// Replace swaps the cached entity for id with the server's updated one.
// This is whole-entity replacement, not a merge. Returns false when the
// id is not cached.
func (c *Channels) Replace(id string, ch *api.ChannelConfig) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[id]; !ok {
		return false
	}
	c.byID[id] = ch.Clone()
	return true
}

// Remove drops the entity for id from the cache. Returns false when the
// id is not cached.
func (c *Channels) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a copy of the cached entity for id, or nil when absent.
// Copies keep callers from mutating the cache through shared slices.
func (c *Channels) Get(id string) *api.ChannelConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ch, ok := c.byID[id]
	if !ok {
		return nil
	}
	return ch.Clone()
}

// List returns copies of all cached entities in listing order.
func (c *Channels) List() []api.ChannelConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]api.ChannelConfig, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.byID[id].Clone())
	}
	return out
}

// Len reports how many entities are cached.
func (c *Channels) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
