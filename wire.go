package gowire

import (
	"fmt"
	"reflect"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/cosmic17/gowire/registry"
)

// WireAll performs the one-shot injection pass. It walks the
// declaration registry in insertion order and, per declaration:
//
//   - skips declarations whose owning scope cannot be found (logged at
//     debug level only),
//   - injects module-level declarations immediately through their write
//     accessor, resolving the path through the parser; failures here
//     propagate to the caller,
//   - groups struct-owned declarations per receiver type.
//
// All function injections complete before any factory exists. The pass
// then installs one Factory per grouped type, wrapping the constructor
// registered through Provide or falling back to zero-value construction.
//
// The registry is consumed only when the pass completes: a second call
// after success sees an empty registry and does nothing, while an
// aborted pass (a structural error, or a module-level injection failure)
// leaves every declaration in place so the caller can fix the cause and
// retry. Module-level declarations already injected before the abort are
// marked wired and skipped on the retry.
func (inj *Injector) WireAll() error {
	decls := inj.registry.Snapshot()

	groups := make(map[reflect.Type][]*registry.Declaration)
	var order []reflect.Type

	for _, d := range decls {
		owner, ok := d.Owner.(*ownerInfo)
		if !ok {
			continue
		}
		switch owner.kind {
		case scopeOrphaned:
			inj.log.Debug("skipping orphaned declaration",
				zap.String("path", d.Path),
				zap.String("accessor", owner.qualified))

		case scopeStructural:
			return &StructuralError{Qualified: owner.qualified}

		case scopePackage:
			if !d.HasSetter() {
				inj.log.Debug("no write accessor for module declaration",
					zap.String("path", d.Path),
					zap.String("accessor", d.Name))
				continue
			}
			if d.Wired {
				continue
			}
			if err := inj.injectFunction(d); err != nil {
				return err
			}

		case scopeStruct:
			if _, seen := groups[owner.recv]; !seen {
				order = append(order, owner.recv)
			}
			groups[owner.recv] = append(groups[owner.recv], d)
		}
	}

	for _, t := range order {
		var info *ctorInfo
		if raw, err := inj.registry.Constructor(t); err == nil {
			info = raw.(*ctorInfo)
		}
		f := &Factory{owner: t, ctor: info, decls: groups[t], inj: inj}
		inj.mu.Lock()
		inj.factories[t] = f
		inj.mu.Unlock()
		inj.log.Debug("installed factory",
			zap.String("type", t.String()),
			zap.Int("declarations", len(groups[t])),
			zap.Bool("constructor", info != nil))
	}

	inj.registry.Drain()
	return nil
}

// injectFunction performs immediate, one-time injection into a
// module-level write accessor. Unlike the per-instance phases, failures
// here are load-bearing and returned to the WireAll caller.
func (inj *Injector) injectFunction(d *registry.Declaration) error {
	val, err := inj.parse(d.Path)
	if err != nil {
		return fmt.Errorf("function injection for path %q: %w", d.Path, err)
	}
	st := d.Setter.Type()
	cv, err := coerce(val, st.In(0))
	if err != nil {
		return fmt.Errorf("function injection for path %q: %w", d.Path, err)
	}
	d.Setter.Call([]reflect.Value{cv})
	d.Wired = true
	inj.log.Debug("function injection",
		zap.String("path", d.Path),
		zap.String("accessor", d.Name))
	return nil
}

// Validate inspects pending declarations without consuming them and
// reports everything the injection pass would silently skip, plus
// missing prerequisites. Wiring stays best-effort either way; Validate
// is the loud preflight for callers who want one.
func (inj *Injector) Validate() error {
	var err error

	p := inj.currentParser()
	if reflect.ValueOf(p).Pointer() == reflect.ValueOf(defaultParser).Pointer() {
		err = multierr.Append(err, fmt.Errorf("no parser registered; every path will resolve to nil"))
	}

	for _, d := range inj.registry.Snapshot() {
		owner, ok := d.Owner.(*ownerInfo)
		if !ok {
			continue
		}
		switch owner.kind {
		case scopeOrphaned:
			err = multierr.Append(err, fmt.Errorf("declaration %q: owning scope of %s not found", d.Path, owner.qualified))
		case scopeStructural:
			err = multierr.Append(err, &StructuralError{Qualified: owner.qualified})
		case scopePackage:
			if !d.HasSetter() {
				err = multierr.Append(err, fmt.Errorf("module declaration %q has no write accessor; wiring it is a no-op", d.Path))
			}
		}
	}

	return err
}
