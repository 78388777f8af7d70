package gowire

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/cosmic17/gowire/registry"
)

// ConstructorFunc is a constructor registered through Provide.
// Supported signatures:
//   - func(...) *T
//   - func(...) (*T, error)
//
// where T is a struct type. Parameters may be any types; at build time
// they are filled from caller arguments first and declarations second.
type ConstructorFunc interface{}

// ctorInfo holds metadata about a constructor function.
type ctorInfo struct {
	fn           reflect.Value
	fnType       reflect.Type
	paramTypes   []reflect.Type
	returnsError bool
	returnType   reflect.Type
	numParams    int
}

// parseConstructor analyzes a constructor function and extracts metadata.
func parseConstructor(constructor ConstructorFunc) (*ctorInfo, error) {
	if constructor == nil {
		return nil, &ConstructorError{Reason: "constructor cannot be nil"}
	}

	fnValue := reflect.ValueOf(constructor)
	fnType := fnValue.Type()

	if fnType.Kind() != reflect.Func {
		return nil, &ConstructorError{Reason: fmt.Sprintf("constructor must be a function, got %v", fnType.Kind())}
	}
	if fnType.IsVariadic() {
		return nil, &ConstructorError{Reason: "constructor cannot be variadic"}
	}

	numOut := fnType.NumOut()
	if numOut == 0 || numOut > 2 {
		return nil, &ConstructorError{Reason: fmt.Sprintf("constructor must return (*T) or (*T, error), got %d return values", numOut)}
	}

	returnType := fnType.Out(0)
	if returnType.Kind() != reflect.Ptr || returnType.Elem().Kind() != reflect.Struct {
		return nil, &ConstructorError{Reason: fmt.Sprintf("constructor must return a pointer to struct, got %v", returnType)}
	}

	returnsError := false
	if numOut == 2 {
		// The second return must be the error interface itself, not a
		// concrete type implementing it: invocation nil-checks the result.
		errorInterface := reflect.TypeOf((*error)(nil)).Elem()
		if fnType.Out(1) != errorInterface {
			return nil, &ConstructorError{Reason: fmt.Sprintf("constructor's second return value must be error, got %v", fnType.Out(1))}
		}
		returnsError = true
	}

	numParams := fnType.NumIn()
	paramTypes := make([]reflect.Type, numParams)
	for i := 0; i < numParams; i++ {
		paramTypes[i] = fnType.In(i)
	}

	return &ctorInfo{
		fn:           fnValue,
		fnType:       fnType,
		paramTypes:   paramTypes,
		returnsError: returnsError,
		returnType:   returnType,
		numParams:    numParams,
	}, nil
}

// Factory builds instances of one struct type with two-phase injection
// around the registered constructor. WireAll installs one per type that
// owns at least one declaration; FactoryOf also serves plain factories
// for provided constructors without declarations.
type Factory struct {
	owner reflect.Type
	ctor  *ctorInfo // nil means zero-value construction via reflect.New
	decls []*registry.Declaration
	inj   *Injector
}

// Owner returns the struct type this factory builds.
func (f *Factory) Owner() reflect.Type {
	return f.owner
}

// New constructs an instance. args fill the constructor's leading
// parameters; each remaining parameter is constructor-injected from the
// first unclaimed declaration whose value type fits, resolving its path
// through the parser. After the constructor returns, every write
// accessor not already covered receives setter injection; failures there
// are logged and discarded.
//
// A constructor error propagates unmodified and suppresses setter
// injection.
func (f *Factory) New(args ...any) (any, error) {
	numParams := 0
	if f.ctor != nil {
		numParams = f.ctor.numParams
	}
	if len(args) > numParams {
		return nil, &TooManyArgumentsError{Owner: f.owner, Got: len(args), Want: numParams}
	}

	in := make([]reflect.Value, numParams)
	claimed := make(map[*registry.Declaration]bool)

	// Phase 1: explicit arguments take their parameters and claim the
	// matching declarations, so neither constructor nor setter injection
	// ever consults the parser for them.
	for i, arg := range args {
		pt := f.ctor.paramTypes[i]
		cv, err := coerce(arg, pt)
		if err != nil {
			return nil, &ArgumentTypeError{Owner: f.owner, Index: i, Want: pt, Cause: err}
		}
		in[i] = cv
		if d := f.claimable(claimed, pt); d != nil {
			claimed[d] = true
			f.inj.log.Debug("accessor supplied explicitly",
				zap.String("accessor", d.Name),
				zap.String("path", d.Path))
		}
	}

	// Phase 1, continued: constructor injection for unfilled parameters.
	// A resolution failure leaves the parameter missing, which is exactly
	// what the binding check below reports.
	for i := len(args); i < numParams; i++ {
		pt := f.ctor.paramTypes[i]
		d := f.claimable(claimed, pt)
		if d == nil {
			return nil, &MissingArgumentError{Owner: f.owner, Index: i, Type: pt}
		}
		val, err := f.inj.parse(d.Path)
		if err == nil {
			in[i], err = coerce(val, pt)
		}
		if err != nil {
			f.inj.log.Debug("constructor injection failed",
				zap.String("path", d.Path),
				zap.String("accessor", d.Name),
				zap.Error(err))
			return nil, &MissingArgumentError{Owner: f.owner, Index: i, Type: pt, Cause: err}
		}
		claimed[d] = true
		f.inj.log.Debug("constructor injection",
			zap.String("path", d.Path),
			zap.String("accessor", d.Name))
	}

	var inst reflect.Value
	if f.ctor != nil {
		out := f.ctor.fn.Call(in)
		if f.ctor.returnsError && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		inst = out[0]
	} else {
		inst = reflect.New(f.owner)
	}

	// Phase 2: setter injection for everything still uncovered.
	for _, d := range f.decls {
		if !d.HasSetter() {
			f.inj.log.Debug("no write accessor for declaration",
				zap.String("path", d.Path),
				zap.String("accessor", d.Name))
			continue
		}
		if claimed[d] {
			f.inj.log.Debug("skipping provided accessor",
				zap.String("accessor", d.Name))
			continue
		}
		val, err := f.inj.parse(d.Path)
		if err == nil {
			err = callSetter(d.Setter, inst, val)
		}
		if err != nil {
			f.inj.log.Debug("setter injection failed",
				zap.String("path", d.Path),
				zap.String("accessor", d.Name),
				zap.Error(err))
			continue
		}
		f.inj.log.Debug("setter injection",
			zap.String("path", d.Path),
			zap.String("accessor", d.Name))
	}

	return inst.Interface(), nil
}

// claimable returns the first unclaimed declaration whose value type is
// usable as t, in declaration order. First match wins when several
// declarations share a type.
func (f *Factory) claimable(claimed map[*registry.Declaration]bool, t reflect.Type) *registry.Declaration {
	for _, d := range f.decls {
		if claimed[d] || d.ValueType == nil {
			continue
		}
		if d.ValueType.AssignableTo(t) || convertibleCompat(d.ValueType, t) {
			return d
		}
	}
	return nil
}

// callSetter invokes a method-expression write accessor on inst with
// val, converting panics into errors so setter injection stays
// best-effort.
func callSetter(setter reflect.Value, inst reflect.Value, val any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("setter panicked: %v", r)
		}
	}()

	st := setter.Type()
	recv, err := receiverValue(inst, st.In(0))
	if err != nil {
		return err
	}
	cv, err := coerce(val, st.In(1))
	if err != nil {
		return err
	}
	setter.Call([]reflect.Value{recv, cv})
	return nil
}

// coerce adapts a parsed value to a target type. nil becomes the zero
// value for nilable kinds and a failure otherwise.
func coerce(val any, target reflect.Type) (reflect.Value, error) {
	if val == nil {
		switch target.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
			return reflect.Zero(target), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %v", target)
	}
	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}
	if convertibleCompat(rv.Type(), target) {
		return rv.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %v as %v", rv.Type(), target)
}

// convertibleCompat reports whether a conversion preserves the value's
// meaning. Representation-changing conversions between strings and
// numbers are lookups gone wrong, not injections.
func convertibleCompat(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if (from.Kind() == reflect.String) != (to.Kind() == reflect.String) {
		return false
	}
	return true
}
