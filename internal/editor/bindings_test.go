// ABOUTME: Tests for the nested binding sub-editor.
// ABOUTME: Covers append/remove/update and collection-picker resolution.

package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartguy05/support-channel-admin/internal/api"
)

func TestAddBinding_StartsUnresolved(t *testing.T) {
	e := newTestEditor(t, &mockAPI{}, nil)
	require.NoError(t, e.StartAdd())

	require.NoError(t, e.AddBinding())
	bindings := e.Working().Bindings
	require.Len(t, bindings, 1)
	assert.Equal(t, BindingUnresolved, bindings[0].Status)
	assert.Empty(t, bindings[0].Collection)
	assert.Empty(t, bindings[0].AccessKey)
}

func TestBindingOps_RequireDraft(t *testing.T) {
	e := newTestEditor(t, &mockAPI{}, nil)

	assert.ErrorIs(t, e.AddBinding(), ErrNoDraft)
	assert.ErrorIs(t, e.RemoveBinding(0), ErrNoDraft)
	assert.ErrorIs(t, e.SetBindingField(0, FieldCollection, "x"), ErrNoDraft)
	assert.ErrorIs(t, e.ResolveBinding(context.Background(), 0, "x"), ErrNoDraft)
}

func TestRemoveBinding_AtPosition(t *testing.T) {
	e := newTestEditor(t, &mockAPI{}, nil)
	require.NoError(t, e.StartAdd())
	require.NoError(t, e.AddBinding())
	require.NoError(t, e.AddBinding())
	require.NoError(t, e.SetBindingField(0, FieldCollection, "first"))
	require.NoError(t, e.SetBindingField(1, FieldCollection, "second"))

	require.NoError(t, e.RemoveBinding(0))
	bindings := e.Working().Bindings
	require.Len(t, bindings, 1)
	assert.Equal(t, "second", bindings[0].Collection)

	assert.ErrorIs(t, e.RemoveBinding(5), ErrBindingIndex)
	assert.ErrorIs(t, e.RemoveBinding(-1), ErrBindingIndex)
}

func TestSetBindingField_DropsToUnresolved(t *testing.T) {
	mock := &mockAPI{keys: map[string]string{"kb1": "key1"}}
	e := newTestEditor(t, mock, nil)
	require.NoError(t, e.StartAdd())
	require.NoError(t, e.AddBinding())
	require.NoError(t, e.ResolveBinding(context.Background(), 0, "kb1"))
	require.Equal(t, BindingResolved, e.Working().Bindings[0].Status)

	// A hand edit invalidates the picker's resolution.
	require.NoError(t, e.SetBindingField(0, FieldAccessKey, "typed-key"))
	assert.Equal(t, BindingUnresolved, e.Working().Bindings[0].Status)
	assert.Equal(t, "typed-key", e.Working().Bindings[0].AccessKey)

	err := e.SetBindingField(0, BindingField("bogus"), "x")
	require.Error(t, err)
}

func TestResolveBinding_JoinsAccessKey(t *testing.T) {
	mock := &mockAPI{keys: map[string]string{"kb1": "key1"}}
	e := newTestEditor(t, mock, nil)
	require.NoError(t, e.StartAdd())
	require.NoError(t, e.AddBinding())
	require.NoError(t, e.AddBinding())

	require.NoError(t, e.ResolveBinding(context.Background(), 0, "kb1"))

	// Exactly one lookup, for the picked collection only.
	assert.Equal(t, []string{"kb1"}, mock.keyLookups)

	bindings := e.Working().Bindings
	assert.Equal(t, "kb1", bindings[0].Collection)
	assert.Equal(t, "key1", bindings[0].AccessKey)
	assert.Equal(t, BindingResolved, bindings[0].Status)

	// The sibling binding is untouched.
	assert.Empty(t, bindings[1].Collection)
	assert.Empty(t, bindings[1].AccessKey)
	assert.Equal(t, BindingUnresolved, bindings[1].Status)
}

func TestResolveBinding_LookupFailureRetryable(t *testing.T) {
	mock := &mockAPI{keys: map[string]string{"kb1": "key1"}, keyErr: errors.New("boom")}
	e := newTestEditor(t, mock, nil)
	require.NoError(t, e.StartAdd())
	require.NoError(t, e.AddBinding())

	err := e.ResolveBinding(context.Background(), 0, "kb1")
	require.Error(t, err)

	b := e.Working().Bindings[0]
	assert.Equal(t, "kb1", b.Collection, "collection sticks so the operator sees what failed")
	assert.Empty(t, b.AccessKey)
	assert.Equal(t, BindingUnresolved, b.Status)

	// Reselecting retries the lookup.
	mock.keyErr = nil
	require.NoError(t, e.ResolveBinding(context.Background(), 0, "kb1"))
	b = e.Working().Bindings[0]
	assert.Equal(t, "key1", b.AccessKey)
	assert.Equal(t, BindingResolved, b.Status)
}

func TestSubmit_BindingsVerbatim(t *testing.T) {
	mock := &mockAPI{nextID: "id-1"}
	e := newTestEditor(t, mock, nil)
	require.NoError(t, e.StartAdd())
	e.Working().Name = "Support"

	// One unresolved hand-typed binding, submitted exactly as entered.
	require.NoError(t, e.AddBinding())
	require.NoError(t, e.SetBindingField(0, FieldCollection, "unchecked-name"))

	_, err := e.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, mock.created.Bindings, 1)
	assert.Equal(t, api.KbBinding{Collection: "unchecked-name"}, mock.created.Bindings[0])
}

func TestDraftFrom_BindingStatus(t *testing.T) {
	mock := &mockAPI{channels: []api.ChannelConfig{{
		ID: "a",
		Bindings: []api.KbBinding{
			{Collection: "kb1", AccessKey: "key1"},
			{Collection: "kb2"},
			{},
		},
	}}}
	e := newTestEditor(t, mock, nil)
	require.NoError(t, e.StartEdit("a"))

	bindings := e.Working().Bindings
	require.Len(t, bindings, 3)
	assert.Equal(t, BindingResolved, bindings[0].Status)
	assert.Equal(t, BindingUnresolved, bindings[1].Status)
	assert.Equal(t, BindingUnresolved, bindings[2].Status)
}
