// ABOUTME: Nested binding sub-editor for the open channel draft.
// ABOUTME: Handles append/remove/field updates and collection-picker resolution.

package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartguy05/support-channel-admin/internal/api"
)

// ErrBindingIndex is returned when a binding operation targets a
// position outside the draft's binding list.
var ErrBindingIndex = errors.New("binding index out of range")

// BindingStatus is the explicit resolution state of a binding. Emptiness
// of the fields is not used to infer it, so an operator clearing a field
// on purpose stays unambiguous.
type BindingStatus int

const (
	// BindingUnresolved means the binding still needs the collection
	// picker; its key has not been looked up.
	BindingUnresolved BindingStatus = iota
	// BindingResolved means a collection was picked and its access key
	// lookup succeeded.
	BindingResolved
)

// Binding is one knowledge-base binding in a draft, the wire pair plus
// its resolution state.
type Binding struct {
	api.KbBinding
	Status BindingStatus
}

// BindingField names an editable binding field.
type BindingField string

const (
	FieldCollection BindingField = "collection"
	FieldAccessKey  BindingField = "api_key"
)

// AddBinding appends a new unresolved binding to the open draft.
func (e *Editor) AddBinding() error {
	if e.working == nil {
		return ErrNoDraft
	}
	e.working.Bindings = append(e.working.Bindings, Binding{Status: BindingUnresolved})
	return nil
}

// RemoveBinding deletes the binding at position i from the open draft.
func (e *Editor) RemoveBinding(i int) error {
	if e.working == nil {
		return ErrNoDraft
	}
	if i < 0 || i >= len(e.working.Bindings) {
		return ErrBindingIndex
	}
	e.working.Bindings = append(e.working.Bindings[:i], e.working.Bindings[i+1:]...)
	return nil
}

// SetBindingField overwrites one field of the binding at position i. A
// hand-edited binding drops back to Unresolved; only the picker resolves.
func (e *Editor) SetBindingField(i int, field BindingField, value string) error {
	if e.working == nil {
		return ErrNoDraft
	}
	if i < 0 || i >= len(e.working.Bindings) {
		return ErrBindingIndex
	}
	b := &e.working.Bindings[i]
	switch field {
	case FieldCollection:
		b.Collection = value
	case FieldAccessKey:
		b.AccessKey = value
	default:
		return fmt.Errorf("unknown binding field %q", field)
	}
	b.Status = BindingUnresolved
	return nil
}

// ResolveBinding points the binding at position i at a collection and
// looks up that collection's access key, joining the collection aggregate
// into the binding being edited. On lookup failure the key stays empty,
// the binding stays Unresolved and the operator retries by reselecting;
// other bindings are never touched.
func (e *Editor) ResolveBinding(ctx context.Context, i int, collection string) error {
	if e.working == nil {
		return ErrNoDraft
	}
	if i < 0 || i >= len(e.working.Bindings) {
		return ErrBindingIndex
	}

	b := &e.working.Bindings[i]
	b.Collection = collection
	b.Status = BindingUnresolved

	key, err := e.api.GetAccessKey(ctx, collection)
	if err != nil {
		b.AccessKey = ""
		return fmt.Errorf("resolving binding %d: %w", i, err)
	}

	b.AccessKey = key
	b.Status = BindingResolved
	e.logger.Debug("binding resolved", "index", i, "collection", collection)
	return nil
}
