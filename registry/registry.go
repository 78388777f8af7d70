// Package registry provides thread-safe storage for injectable declarations
// and constructor records.
package registry

import (
	"fmt"
	"reflect"
	"sync"
)

// Declaration binds an external path to an accessor set discovered at
// declaration time. Accessors are stored as reflect.Values; an absent
// accessor is the zero Value.
type Declaration struct {
	// Path is the opaque key handed to the parser.
	Path string

	// Getter reads a value. Either func(recv) V or func() V.
	Getter reflect.Value

	// Setter writes a value. Either func(recv, V) or func(V).
	Setter reflect.Value

	// Deleter clears a value. Kept for API parity; never invoked by the
	// wiring engine.
	Deleter reflect.Value

	// Name is the accessor's bare name, derived from the runtime name of
	// whichever accessor was declared first. Used for logging.
	Name string

	// ValueType is the injected value's type, derived from the getter's
	// return type or the setter's value parameter.
	ValueType reflect.Type

	// Owner holds the resolved owning-scope metadata.
	// Stores *gowire.ownerInfo; kept opaque to avoid an import cycle.
	Owner interface{}

	// Wired reports that a module-level declaration already received its
	// one-time function injection.
	Wired bool
}

// HasGetter reports whether a read accessor is attached.
func (d *Declaration) HasGetter() bool { return d.Getter.IsValid() }

// HasSetter reports whether a write accessor is attached.
func (d *Declaration) HasSetter() bool { return d.Setter.IsValid() }

// DuplicateConstructorError is returned when a constructor is registered
// twice for the same type.
type DuplicateConstructorError struct {
	Type reflect.Type
}

func (e *DuplicateConstructorError) Error() string {
	return fmt.Sprintf("constructor already registered for type %v", e.Type)
}

// ConstructorNotFoundError is returned when no constructor record exists
// for a type.
type ConstructorNotFoundError struct {
	Type reflect.Type
}

func (e *ConstructorNotFoundError) Error() string {
	return fmt.Sprintf("no constructor registered for type %v", e.Type)
}

// Registry stores declarations in insertion order and constructor records
// keyed by their produced type.
//
// Declarations are append-only until Drain consumes them; the one-shot
// drain is what makes the apply pass safe to call a second time (it sees
// an empty registry).
type Registry struct {
	mu    sync.RWMutex
	decls []*Declaration
	ctors map[reflect.Type]interface{} // stores *gowire.ctorInfo
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		ctors: make(map[reflect.Type]interface{}),
	}
}

// Append adds a declaration at the end of the insertion order.
//
// This method is goroutine-safe.
func (r *Registry) Append(d *Declaration) {
	if d == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decls = append(r.decls, d)
}

// Len returns the number of pending declarations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.decls)
}

// Snapshot returns a copy of the pending declarations without consuming
// them. Used for validation.
func (r *Registry) Snapshot() []*Declaration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Declaration, len(r.decls))
	copy(out, r.decls)
	return out
}

// Drain returns all pending declarations in insertion order and clears
// the registry. A second Drain returns nil.
//
// This method is goroutine-safe.
func (r *Registry) Drain() []*Declaration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.decls
	r.decls = nil
	return out
}

// RegisterConstructor stores a constructor record for the given type.
// Returns *DuplicateConstructorError if one already exists.
//
// This method is goroutine-safe.
func (r *Registry) RegisterConstructor(t reflect.Type, info interface{}) error {
	if t == nil {
		return fmt.Errorf("constructor type cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ctors[t]; exists {
		return &DuplicateConstructorError{Type: t}
	}
	r.ctors[t] = info
	return nil
}

// Constructor retrieves the constructor record for a type.
//
// This method is goroutine-safe.
func (r *Registry) Constructor(t reflect.Type) (interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, exists := r.ctors[t]
	if !exists {
		return nil, &ConstructorNotFoundError{Type: t}
	}
	return info, nil
}

// HasConstructor reports whether a constructor record exists for a type.
func (r *Registry) HasConstructor(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.ctors[t]
	return exists
}
