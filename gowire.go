package gowire

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/cosmic17/gowire/registry"
)

// Injector collects path-bound declarations and constructors, then wires
// them in a single pass. Most programs use the package-level Default
// injector; New exists for tests and for hosting several independent
// wiring domains in one process.
type Injector struct {
	mu        sync.RWMutex
	registry  *registry.Registry
	parser    Parser
	log       *zap.Logger
	factories map[reflect.Type]*Factory
	cache     *reflectionCache
}

// New creates an empty Injector. Options can be provided to configure
// logging and the parser up front.
//
// Example:
//
//	inj := gowire.New(gowire.WithLogger(log))
func New(options ...Option) *Injector {
	inj := &Injector{
		registry:  registry.New(),
		parser:    defaultParser,
		log:       zap.NewNop(),
		factories: make(map[reflect.Type]*Factory),
		cache:     newReflectionCache(),
	}
	for _, opt := range options {
		if err := opt(inj); err != nil {
			panic(fmt.Sprintf("failed to apply option: %v", err))
		}
	}
	return inj
}

// SetParser installs p as the injector's path resolver and returns p
// unchanged. It must be called before WireAll for injection to resolve
// real values; installing a parser afterwards affects factories (which
// read the parser per construction) but not already-run function
// injections. A nil p restores the no-op default.
func (inj *Injector) SetParser(p Parser) Parser {
	inj.mu.Lock()
	if p == nil {
		inj.parser = defaultParser
	} else {
		inj.parser = p
	}
	inj.mu.Unlock()
	return p
}

// currentParser returns the installed parser.
func (inj *Injector) currentParser() Parser {
	inj.mu.RLock()
	defer inj.mu.RUnlock()
	return inj.parser
}

// parse resolves a path through the installed parser, converting parser
// panics into errors so each injection attempt fails as a unit.
func (inj *Injector) parse(path string) (val any, err error) {
	p := inj.currentParser()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panicked: %v", r)
		}
	}()
	return p(path)
}

// Provide registers a constructor for the struct type it returns.
// Accepted signatures are func(...) *T and func(...) (*T, error). WireAll
// wraps the constructor in a two-phase factory when T owns declarations;
// FactoryOf serves it directly otherwise.
func (inj *Injector) Provide(ctor ConstructorFunc) error {
	info, err := parseConstructor(ctor)
	if err != nil {
		return err
	}
	owner := info.returnType.Elem()
	if err := inj.registry.RegisterConstructor(owner, info); err != nil {
		return err
	}
	inj.log.Debug("registered constructor", zap.String("type", owner.String()))
	return nil
}

// FactoryOf returns the factory for a struct type. The type can be given
// as a typed nil pointer token or a reflect.Type:
//
//	f, err := inj.FactoryOf((*Pool)(nil))
//
// Factories exist for every type that owned declarations when WireAll
// ran; types with a provided constructor but no declarations get a plain
// pass-through factory on first request.
func (inj *Injector) FactoryOf(token any) (*Factory, error) {
	var t reflect.Type
	switch tok := token.(type) {
	case reflect.Type:
		t = tok
	default:
		rt := reflect.TypeOf(token)
		if rt == nil {
			return nil, &FactoryNotFoundError{}
		}
		if rt.Kind() == reflect.Ptr {
			rt = rt.Elem()
		}
		t = rt
	}
	if t.Kind() != reflect.Struct {
		return nil, &FactoryNotFoundError{Type: t}
	}

	inj.mu.RLock()
	f, ok := inj.factories[t]
	inj.mu.RUnlock()
	if ok {
		return f, nil
	}

	raw, err := inj.registry.Constructor(t)
	if err != nil {
		return nil, &FactoryNotFoundError{Type: t}
	}
	f = &Factory{owner: t, ctor: raw.(*ctorInfo), inj: inj}
	inj.mu.Lock()
	inj.factories[t] = f
	inj.mu.Unlock()
	return f, nil
}

// Build resolves the factory for T and constructs an instance with the
// given leading constructor arguments.
//
//	pool, err := gowire.Build[Pool](inj)
func Build[T any](inj *Injector, args ...any) (*T, error) {
	f, err := inj.FactoryOf((*T)(nil))
	if err != nil {
		return nil, err
	}
	instance, err := f.New(args...)
	if err != nil {
		return nil, err
	}
	out, ok := instance.(*T)
	if !ok {
		return nil, fmt.Errorf("factory for %v produced %T", f.Owner(), instance)
	}
	return out, nil
}

// Default is the process-wide injector behind the package-level
// functions.
var Default = New()

// Declare calls Declare on the Default injector.
func Declare(path string, accessor any) (*Value, error) { return Default.Declare(path, accessor) }

// Path calls Path on the Default injector.
func Path(path string, accessor any) *Value { return Default.Path(path, accessor) }

// SetParser calls SetParser on the Default injector.
func SetParser(p Parser) Parser { return Default.SetParser(p) }

// Provide calls Provide on the Default injector.
func Provide(ctor ConstructorFunc) error { return Default.Provide(ctor) }

// WireAll calls WireAll on the Default injector.
func WireAll() error { return Default.WireAll() }

// FactoryOf calls FactoryOf on the Default injector.
func FactoryOf(token any) (*Factory, error) { return Default.FactoryOf(token) }

// Validate calls Validate on the Default injector.
func Validate() error { return Default.Validate() }
