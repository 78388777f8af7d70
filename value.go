package gowire

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/cosmic17/gowire/registry"
)

// accessorRole states how an accessor function is attached to a Value.
type accessorRole int

const (
	// roleAuto classifies by receiver-independent arity: 0 parameters is
	// a getter, 1 is a setter, anything else is a declaration error.
	roleAuto accessorRole = iota
	roleGetter
	roleSetter
	roleDeleter
)

// Value is a path-bound accessor declaration. It is created by Declare
// (or Path) and registered with its injector exactly once, at creation;
// the chaining attachments mutate the same declaration rather than
// producing new ones.
//
// Accessors come in two shapes. Method expressions declare values owned
// by a struct type:
//
//	gowire.Path("db.pool.size", (*Pool)(nil).Size) // wrong: bound value
//	gowire.Path("db.pool.size", (*Pool).Size)      // right
//
// Free functions declare module-level values that are injected exactly
// once during WireAll:
//
//	func setRegion(r string) { region = r }
//	gowire.Path("cloud.region", setRegion)
type Value struct {
	rec *registry.Declaration
	inj *Injector
}

// Declare creates a Value bound to path, classifies accessor by its
// receiver-independent arity and registers the declaration with the
// injector. Chained attachments on the returned Value do not register
// again.
func (inj *Injector) Declare(path string, accessor any) (*Value, error) {
	v := &Value{
		rec: &registry.Declaration{Path: path},
		inj: inj,
	}
	if err := v.attach(accessor, roleAuto); err != nil {
		return nil, err
	}
	inj.registry.Append(v.rec)
	inj.log.Debug("registered declaration",
		zap.String("path", path),
		zap.String("accessor", v.rec.Name))
	return v, nil
}

// Path is Declare for init-time use: a failed declaration is fatal, the
// same way the mechanism treats ambiguous accessors everywhere.
func (inj *Injector) Path(path string, accessor any) *Value {
	v, err := inj.Declare(path, accessor)
	if err != nil {
		panic(err)
	}
	return v
}

// PathKey returns the declaration's path string.
func (v *Value) PathKey() string {
	return v.rec.Path
}

// Name returns the declaration's accessor name, preferring the read
// accessor's name when both are attached.
func (v *Value) Name() string {
	return v.rec.Name
}

// Wired reports whether a module-level declaration already received its
// one-time function injection.
func (v *Value) Wired() bool {
	return v.rec.Wired
}

// Setter attaches a write accessor to the same declaration and returns
// it, so the conventional getter-first, setter-chained pattern yields a
// single declaration carrying both. Panics with a *DeclarationError on
// an unusable accessor.
func (v *Value) Setter(fn any) *Value {
	if err := v.attach(fn, roleSetter); err != nil {
		panic(err)
	}
	return v
}

// Getter attaches a read accessor to the same declaration and returns it.
func (v *Value) Getter(fn any) *Value {
	if err := v.attach(fn, roleGetter); err != nil {
		panic(err)
	}
	return v
}

// Deleter attaches a delete accessor to the same declaration and returns
// it. The wiring engine never calls deleters; the slot exists so a full
// accessor triple can ride on one declaration.
func (v *Value) Deleter(fn any) *Value {
	if err := v.attach(fn, roleDeleter); err != nil {
		panic(err)
	}
	return v
}

// Get reads the declared value through the read accessor. For
// struct-owned declarations instance must be the receiver (or a pointer
// to it); for module-level declarations instance is ignored.
func (v *Value) Get(instance any) (any, error) {
	g := v.rec.Getter
	if !g.IsValid() {
		return nil, fmt.Errorf("declaration %q has no read accessor", v.rec.Path)
	}
	var in []reflect.Value
	if owner, ok := v.rec.Owner.(*ownerInfo); ok && owner.kind == scopeStruct {
		recv, err := receiverValue(reflect.ValueOf(instance), g.Type().In(0))
		if err != nil {
			return nil, err
		}
		in = []reflect.Value{recv}
	}
	out := g.Call(in)
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

// attach validates fn for the given role and stores it on the
// declaration. The first attachment fixes the owning scope; later ones
// must agree with it and with the declaration's value type.
func (v *Value) attach(fn any, role accessorRole) error {
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return &DeclarationError{Path: v.rec.Path, Reason: "accessor must be a function"}
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return &DeclarationError{Path: v.rec.Path, Reason: "accessor cannot be variadic"}
	}

	owner, err := v.inj.cache.resolve(fv)
	if err != nil {
		return &DeclarationError{Path: v.rec.Path, Reason: err.Error()}
	}

	// Structurally unresolvable accessors still carry a receiver slot;
	// classification accounts for it so the structural error surfaces at
	// wire time, not here.
	recvCount := 0
	if (owner.kind == scopeStruct || owner.kind == scopeStructural) && ft.NumIn() >= 1 {
		recvCount = 1
	}
	arity := ft.NumIn() - recvCount

	if role == roleAuto {
		switch arity {
		case 0:
			role = roleGetter
		case 1:
			role = roleSetter
		default:
			return &DeclarationError{
				Path:   v.rec.Path,
				Reason: fmt.Sprintf("accessor %s takes %d value parameters; want 0 (getter) or 1 (setter)", owner.name, arity),
			}
		}
	} else {
		want := 0
		if role == roleSetter {
			want = 1
		}
		if arity != want {
			return &DeclarationError{
				Path:   v.rec.Path,
				Reason: fmt.Sprintf("accessor %s takes %d value parameters; want %d", owner.name, arity, want),
			}
		}
	}

	// A value-receiver write accessor mutates a copy of the instance, so
	// the injected value would be lost.
	if role == roleSetter && owner.kind == scopeStruct && !owner.recvPtr {
		return &DeclarationError{
			Path:   v.rec.Path,
			Reason: fmt.Sprintf("write accessor %s has a value receiver; use a pointer-receiver method expression such as (*%s).%s", owner.name, owner.recv.Name(), owner.name),
		}
	}

	if prev, ok := v.rec.Owner.(*ownerInfo); ok && prev != nil {
		if prev.kind != owner.kind || prev.recv != owner.recv {
			return &DeclarationError{
				Path:   v.rec.Path,
				Reason: fmt.Sprintf("accessor %s belongs to a different scope than %s", owner.name, v.rec.Name),
			}
		}
	} else {
		v.rec.Owner = owner
	}

	var valueType reflect.Type
	switch role {
	case roleGetter:
		if ft.NumOut() == 1 {
			valueType = ft.Out(0)
		}
	case roleSetter:
		valueType = ft.In(recvCount)
	}
	if valueType != nil {
		if v.rec.ValueType != nil && v.rec.ValueType != valueType {
			return &DeclarationError{
				Path:   v.rec.Path,
				Reason: fmt.Sprintf("accessor value type %v conflicts with declared type %v", valueType, v.rec.ValueType),
			}
		}
		v.rec.ValueType = valueType
	}

	switch role {
	case roleGetter:
		v.rec.Getter = fv
		v.rec.Name = owner.name
	case roleSetter:
		v.rec.Setter = fv
		if !v.rec.HasGetter() {
			v.rec.Name = owner.name
		}
	case roleDeleter:
		v.rec.Deleter = fv
	}
	return nil
}

// receiverValue adapts an instance to a method expression's receiver
// parameter, dereferencing or rejecting as needed.
func receiverValue(inst reflect.Value, want reflect.Type) (reflect.Value, error) {
	if !inst.IsValid() {
		return reflect.Value{}, fmt.Errorf("nil receiver")
	}
	if inst.Type() == want {
		return inst, nil
	}
	if inst.Kind() == reflect.Ptr && inst.Type().Elem() == want {
		return inst.Elem(), nil
	}
	return reflect.Value{}, fmt.Errorf("receiver %v is not usable as %v", inst.Type(), want)
}
