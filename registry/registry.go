// Package registry holds the mapping from semantic C++ type names to their
// boundary representation and casting functions. One registry is constructed
// per generation run and threaded through explicitly; it is never a
// process-wide singleton. Registration happens in discovery order before
// generation starts, and the registry is read-only afterwards.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mlverse/torchexport/model"
)

// Mapping is one type-registry entry.
type Mapping struct {
	SemanticName string // type as written in native signatures
	BoundaryType string // representation used at the C boundary
	ToRaw        string // boxes a native value into the boundary representation
	FromRaw      string // obtains a native reference from a boundary value
	BindingType  string // opaque passthrough for binding generators
}

// UnknownTypeError reports a semantic type with no registry entry. Fatal to a
// generation run: guessing a boundary representation would hide marshalling
// bugs.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %q: not a primitive and no registered mapping", e.Name)
}

// DuplicateTypeError reports a registration that conflicts with an existing
// entry of the same name. Registering an identical mapping twice is a no-op.
type DuplicateTypeError struct {
	Name     string
	Existing Mapping
	New      Mapping
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("type %q already registered with a different mapping (existing to_raw %q, new to_raw %q)",
		e.Name, e.Existing.ToRaw, e.New.ToRaw)
}

// Registry maps semantic type names to Mappings.
type Registry struct {
	mu              sync.RWMutex
	entries         map[string]Mapping
	boundaryPointer string
}

// New creates a registry seeded with the built-in tensor entries, using
// boundaryPointer as the default boundary representation for registered
// types. An empty boundaryPointer means "void*".
func New(boundaryPointer string) *Registry {
	if boundaryPointer == "" {
		boundaryPointer = "void*"
	}
	r := &Registry{
		entries:         make(map[string]Mapping),
		boundaryPointer: boundaryPointer,
	}
	for _, m := range []Mapping{
		{
			SemanticName: "torch::Tensor",
			BoundaryType: boundaryPointer,
			ToRaw:        "make_raw::Tensor",
			FromRaw:      "from_raw::Tensor",
			BindingType:  "XPtrTorchTensor",
		},
		{
			SemanticName: "torch::TensorList",
			BoundaryType: boundaryPointer,
			ToRaw:        "make_raw::TensorList",
			FromRaw:      "from_raw::TensorList",
			BindingType:  "XPtrTorchTensorList",
		},
	} {
		r.entries[m.SemanticName] = m
	}
	return r
}

// BoundaryPointer returns the default boundary pointer representation.
func (r *Registry) BoundaryPointer() string {
	return r.boundaryPointer
}

// Register inserts a new mapping. Identical re-registration is a no-op;
// a conflicting one fails with DuplicateTypeError. First registration wins.
func (r *Registry) Register(m Mapping) error {
	if m.BoundaryType == "" {
		m.BoundaryType = r.boundaryPointer
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[m.SemanticName]; ok {
		if existing == m {
			return nil
		}
		return &DuplicateTypeError{Name: m.SemanticName, Existing: existing, New: m}
	}
	r.entries[m.SemanticName] = m
	return nil
}

// RegisterDirective applies a typed registration directive, deriving the
// from-boundary casting function when the directive omitted it.
func (r *Registry) RegisterDirective(dir model.Directive) error {
	return r.Register(Mapping{
		SemanticName: dir.SemanticName,
		BoundaryType: dir.BoundaryType,
		ToRaw:        dir.ToRaw,
		FromRaw:      dir.EffectiveFromRaw(),
		BindingType:  dir.BindingType,
	})
}

// Lookup returns the mapping for a semantic type, if registered.
func (r *Registry) Lookup(name string) (Mapping, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.entries[name]
	return m, ok
}

// Resolve returns the mapping for a semantic type. Primitive types resolve
// to a self-mapping with no casting functions; any other unregistered type
// fails with UnknownTypeError, a hard stop for generation.
func (r *Registry) Resolve(name string) (Mapping, error) {
	if m, ok := r.Lookup(name); ok {
		return m, nil
	}
	if model.IsPrimitive(name) {
		return Mapping{SemanticName: name, BoundaryType: name}, nil
	}
	return Mapping{}, &UnknownTypeError{Name: name}
}

// Names returns all registered semantic type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
