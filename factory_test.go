package gowire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFactory_ConstructorInjection verifies an unfilled constructor
// parameter receives the parsed value for its declaration's path.
func TestFactory_ConstructorInjection(t *testing.T) {
	t.Parallel()

	p := newRecordingParser(map[string]any{"srv.addr": ":9090"})
	inj := New(WithParser(p.parse))
	inj.Path("srv.addr", (*server).getAddr)
	require.NoError(t, inj.Provide(newServer))
	require.NoError(t, inj.WireAll())

	srv, err := Build[server](inj)
	require.NoError(t, err)
	assert.Equal(t, ":9090", srv.addr)
	assert.Equal(t, 1, p.callCount("srv.addr"))
}

// TestFactory_ExplicitArgumentPrecedence verifies the parser is never
// consulted for a caller-supplied parameter, and the matching setter is
// skipped.
func TestFactory_ExplicitArgumentPrecedence(t *testing.T) {
	t.Parallel()

	p := newRecordingParser(map[string]any{
		"srv.addr":    ":9090",
		"srv.timeout": 99,
	})
	inj := New(WithParser(p.parse))
	inj.Path("srv.addr", (*server).getAddr)
	inj.Path("srv.timeout", (*server).getTimeout).Setter((*server).setTimeout)
	require.NoError(t, inj.Provide(newServer))
	require.NoError(t, inj.WireAll())

	srv, err := Build[server](inj, ":7070")
	require.NoError(t, err)
	assert.Equal(t, ":7070", srv.addr)
	assert.Zero(t, p.callCount("srv.addr"), "explicit argument must not consult the parser")
	assert.Equal(t, 99, srv.timeout, "setter injection still covers the rest")
}

// TestFactory_SetterInjection verifies declarations without constructor
// parameters are injected through their write accessors after
// construction.
func TestFactory_SetterInjection(t *testing.T) {
	t.Parallel()

	p := newRecordingParser(map[string]any{
		"srv.addr":    ":9090",
		"srv.timeout": 60,
		"srv.banner":  "wired",
	})
	inj := New(WithParser(p.parse))
	inj.Path("srv.addr", (*server).getAddr)
	inj.Path("srv.timeout", (*server).getTimeout).Setter((*server).setTimeout)
	inj.Path("srv.banner", (*server).setBanner)
	require.NoError(t, inj.Provide(newServer))
	require.NoError(t, inj.WireAll())

	srv, err := Build[server](inj)
	require.NoError(t, err)
	assert.Equal(t, ":9090", srv.addr)
	assert.Equal(t, 60, srv.timeout)
	assert.Equal(t, "wired", srv.banner)
}

// TestFactory_NeverBoth verifies a constructor-injected declaration is
// not injected again through its setter: one parser call per declaration
// per instance.
func TestFactory_NeverBoth(t *testing.T) {
	t.Parallel()

	p := newRecordingParser(map[string]any{
		"srv.addr":    ":9090",
		"srv.timeout": 60,
	})
	inj := New(WithParser(p.parse))
	inj.Path("srv.addr", (*server).getAddr)
	inj.Path("srv.timeout", (*server).getTimeout).Setter((*server).setTimeout)
	require.NoError(t, inj.Provide(newServer))
	require.NoError(t, inj.WireAll())

	_, err := Build[server](inj)
	require.NoError(t, err)
	assert.Equal(t, 1, p.callCount("srv.addr"))
	assert.Equal(t, 1, p.callCount("srv.timeout"))
}

// TestFactory_ParserFailureSoftens verifies a failing parser leaves a
// zero-parameter construction intact: setter injection no-ops and the
// constructor's defaults survive.
func TestFactory_ParserFailureSoftens(t *testing.T) {
	t.Parallel()

	p := newRecordingParser(nil)
	p.err = errors.New("always failing")

	inj := New(WithParser(p.parse))
	inj.Path("srv.timeout", (*serverNoArgs).getTimeout).Setter((*serverNoArgs).setTimeout)
	require.NoError(t, inj.Provide(newServerNoArgs))
	require.NoError(t, inj.WireAll())

	srv, err := Build[serverNoArgs](inj)
	require.NoError(t, err)
	assert.Equal(t, 5, srv.timeout, "default must survive failed setter injection")
}

// TestFactory_MissingArgument verifies a required parameter that cannot
// be resolved surfaces as a missing-argument error.
func TestFactory_MissingArgument(t *testing.T) {
	t.Parallel()

	p := newRecordingParser(nil)
	p.err = errors.New("always failing")

	inj := New(WithParser(p.parse))
	inj.Path("srv.addr", (*server).getAddr)
	require.NoError(t, inj.Provide(newServer))
	require.NoError(t, inj.WireAll())

	_, err := Build[server](inj)
	require.Error(t, err)
	var merr *MissingArgumentError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, 0, merr.Index)
}

// TestFactory_NoDeclarationForParameter verifies a parameter with no
// matching declaration is a missing-argument error rather than a zero
// value.
func TestFactory_NoDeclarationForParameter(t *testing.T) {
	t.Parallel()

	inj := New()
	inj.Path("srv.banner", (*server).setBanner)
	require.NoError(t, inj.Provide(newServer))
	require.NoError(t, inj.WireAll())

	_, err := Build[server](inj)
	require.Error(t, err)
	var merr *MissingArgumentError
	require.ErrorAs(t, err, &merr)
}

// TestFactory_SharedPath verifies two types declaring the same path are
// wired independently, with one parser call per instantiation.
func TestFactory_SharedPath(t *testing.T) {
	t.Parallel()

	p := newRecordingParser(map[string]any{"shared.path": "both"})
	inj := New(WithParser(p.parse))
	inj.Path("shared.path", (*alpha).setV)
	inj.Path("shared.path", (*beta).setV)
	require.NoError(t, inj.WireAll())

	a, err := Build[alpha](inj)
	require.NoError(t, err)
	b, err := Build[beta](inj)
	require.NoError(t, err)
	assert.Equal(t, "both", a.v)
	assert.Equal(t, "both", b.v)
	assert.Equal(t, 2, p.callCount("shared.path"))

	_, err = Build[alpha](inj)
	require.NoError(t, err)
	assert.Equal(t, 3, p.callCount("shared.path"), "no memoization across instances")
}

// TestFactory_ZeroValueFallback verifies a type without a provided
// constructor is built with reflect.New and setter-injected.
func TestFactory_ZeroValueFallback(t *testing.T) {
	t.Parallel()

	p := newRecordingParser(map[string]any{"box.label": "tagged"})
	inj := New(WithParser(p.parse))
	inj.Path("box.label", (*box).setLabel)
	require.NoError(t, inj.WireAll())

	b, err := Build[box](inj)
	require.NoError(t, err)
	assert.Equal(t, "tagged", b.label)
}

// TestFactory_ConstructorErrorPropagates verifies a constructor failure
// is returned unmodified and suppresses setter injection.
func TestFactory_ConstructorErrorPropagates(t *testing.T) {
	fragileSetterCalls = 0

	p := newRecordingParser(map[string]any{"fragile.x": 3})
	inj := New(WithParser(p.parse))
	inj.Path("fragile.x", (*fragile).getX).Setter((*fragile).setX)
	require.NoError(t, inj.Provide(newFragile))
	require.NoError(t, inj.WireAll())

	_, err := Build[fragile](inj)
	require.ErrorIs(t, err, errFragile)
	assert.Zero(t, fragileSetterCalls, "setter injection must not run after constructor failure")
}

// TestFactory_TooManyArguments verifies surplus positional arguments are
// rejected.
func TestFactory_TooManyArguments(t *testing.T) {
	t.Parallel()

	inj := New()
	inj.Path("srv.addr", (*server).getAddr)
	require.NoError(t, inj.Provide(newServer))
	require.NoError(t, inj.WireAll())

	_, err := Build[server](inj, ":1", ":2")
	require.Error(t, err)
	var terr *TooManyArgumentsError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 2, terr.Got)
	assert.Equal(t, 1, terr.Want)
}

// TestFactory_ArgumentTypeError verifies an unusable explicit argument
// is rejected with position context.
func TestFactory_ArgumentTypeError(t *testing.T) {
	t.Parallel()

	inj := New()
	inj.Path("srv.addr", (*server).getAddr)
	require.NoError(t, inj.Provide(newServer))
	require.NoError(t, inj.WireAll())

	_, err := Build[server](inj, 123)
	require.Error(t, err)
	var aerr *ArgumentTypeError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, 0, aerr.Index)
}

// TestFactory_NumericCoercion verifies parsed numbers are narrowed to
// the accessor's numeric type, the way JSON lookups come back as
// float64.
func TestFactory_NumericCoercion(t *testing.T) {
	t.Parallel()

	p := newRecordingParser(map[string]any{"srv.timeout": float64(42)})
	inj := New(WithParser(p.parse))
	inj.Path("srv.timeout", (*server).getTimeout).Setter((*server).setTimeout)
	require.NoError(t, inj.WireAll())

	srv, err := Build[server](inj)
	require.NoError(t, err)
	assert.Equal(t, 42, srv.timeout)
}

// TestFactory_NilParserValue verifies the no-op default parser injects
// zero values for nilable targets and skips the rest.
func TestFactory_NilParserValue(t *testing.T) {
	t.Parallel()

	inj := New() // default parser: every path resolves to nil
	inj.Path("srv.timeout", (*server).getTimeout).Setter((*server).setTimeout)
	require.NoError(t, inj.WireAll())

	srv, err := Build[server](inj)
	require.NoError(t, err)
	assert.Zero(t, srv.timeout, "nil cannot fill an int; zero value comes from the struct itself")
}

// serverNoArgs has a zero-parameter constructor with a default.
type serverNoArgs struct {
	timeout int
}

func newServerNoArgs() *serverNoArgs { return &serverNoArgs{timeout: 5} }

func (s *serverNoArgs) getTimeout() int  { return s.timeout }
func (s *serverNoArgs) setTimeout(v int) { s.timeout = v }
