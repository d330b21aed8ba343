// ABOUTME: Tests for the channel entity cache.
// ABOUTME: Verifies rebuild, replace-by-id, removal and copy semantics.

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartguy05/support-channel-admin/internal/api"
)

func TestReset_DropsUnpersistedEntries(t *testing.T) {
	c := NewChannels()
	c.Reset([]api.ChannelConfig{
		{ID: "a", Name: "first"},
		{Name: "never persisted"},
		{ID: "b", Name: "second"},
	})

	require.Equal(t, 2, c.Len())
	list := c.List()
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Nil(t, c.Get(""))
}

func TestAppend_PreservesOrder(t *testing.T) {
	c := NewChannels()
	c.Reset([]api.ChannelConfig{{ID: "a"}})
	c.Append(&api.ChannelConfig{ID: "b", Name: "new"})

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[1].ID)
}

func TestReplace_WholeEntity(t *testing.T) {
	c := NewChannels()
	c.Reset([]api.ChannelConfig{
		{ID: "a", Name: "old", Bindings: []api.KbBinding{{Collection: "kb1", AccessKey: "k"}}},
	})

	// Replacement has no bindings; the old ones must not survive a merge.
	ok := c.Replace("a", &api.ChannelConfig{ID: "a", Name: "new"})
	require.True(t, ok)

	got := c.Get("a")
	require.NotNil(t, got)
	assert.Equal(t, "new", got.Name)
	assert.Empty(t, got.Bindings)
}

func TestReplace_UnknownID(t *testing.T) {
	c := NewChannels()
	assert.False(t, c.Replace("nope", &api.ChannelConfig{ID: "nope"}))
}

func TestRemove(t *testing.T) {
	c := NewChannels()
	c.Reset([]api.ChannelConfig{{ID: "a"}, {ID: "b"}})

	require.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "b", c.List()[0].ID)
}

func TestGet_ReturnsCopy(t *testing.T) {
	c := NewChannels()
	c.Reset([]api.ChannelConfig{
		{ID: "a", Bindings: []api.KbBinding{{Collection: "kb1"}}},
	})

	got := c.Get("a")
	got.Name = "mutated"
	got.Bindings[0].Collection = "other"

	fresh := c.Get("a")
	assert.Empty(t, fresh.Name)
	assert.Equal(t, "kb1", fresh.Bindings[0].Collection)
}
