package gowire

import (
	"errors"
	"fmt"
	"sync"
)

// Struct-owned accessor fixtures. These must be real methods so their
// runtime qualified names carry a receiver segment.

type server struct {
	addr    string
	timeout int
	banner  string
}

func newServer(addr string) *server {
	return &server{addr: addr, timeout: 30}
}

func (s *server) getAddr() string    { return s.addr }
func (s *server) getTimeout() int    { return s.timeout }
func (s *server) setTimeout(v int)   { s.timeout = v }
func (s *server) setBanner(v string) { s.banner = v }

type widget struct {
	size  int
	label string
}

func newWidget(size int) *widget { return &widget{size: size} }

func (w *widget) getSize() int       { return w.size }
func (w *widget) getLabel() string   { return w.label }
func (w *widget) setLabel(v string)  { w.label = v }
func (w *widget) badAccessor(a, b int) {} // two value parameters

// tag exercises value receivers.
type tag struct {
	s string
}

func (t tag) getS() string { return t.s }

// sticker's write accessor has a value receiver, so it would only ever
// mutate a copy.
type sticker struct {
	label string
}

func (s sticker) setLabel(v string) { s.label = v }

// alpha and beta both declare the same path in the shared-path test.
type alpha struct {
	v string
}

func (a *alpha) setV(v string) { a.v = v }

type beta struct {
	v string
}

func (b *beta) setV(v string) { b.v = v }

// box has no constructor; factories fall back to zero-value
// construction.
type box struct {
	label string
}

func (b *box) setLabel(v string) { b.label = v }

// fragile's constructor always fails; its setter records calls so tests
// can assert setter injection was suppressed.
type fragile struct {
	x int
}

var errFragile = errors.New("fragile constructor failed")

var fragileSetterCalls int

func newFragile() (*fragile, error) { return nil, errFragile }

func (f *fragile) getX() int  { return f.x }
func (f *fragile) setX(v int) { fragileSetterCalls++; f.x = v }

// flakyError implements error as a concrete type; constructors must
// return the error interface itself.
type flakyError struct{}

func (flakyError) Error() string { return "flaky" }

// plain has a constructor but no declarations.
type plain struct {
	n int
}

func newPlain() *plain { return &plain{n: 7} }

// counter is a named int; its method expression resolves to a scope that
// is neither a struct nor a package.
type counter int

func (c *counter) bump(v int) { *c += counter(v) }

// Module-level accessor fixtures.

var moduleGreeting string

func setModuleGreeting(v string) { moduleGreeting = v }

var moduleFarewell string

func setModuleFarewell(v string) { moduleFarewell = v }

var moduleBare = 11

func getModuleBare() int { return moduleBare }

// recordingParser is the test parser: it records every call and serves
// values from a map, failing on unknown paths.
type recordingParser struct {
	mu     sync.Mutex
	calls  []string
	values map[string]any
	err    error
}

func newRecordingParser(values map[string]any) *recordingParser {
	return &recordingParser{values: values}
}

func (p *recordingParser) parse(path string) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, path)
	if p.err != nil {
		return nil, p.err
	}
	v, ok := p.values[path]
	if !ok {
		return nil, fmt.Errorf("no value for path %q", path)
	}
	return v, nil
}

func (p *recordingParser) callCount(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		if c == path {
			n++
		}
	}
	return n
}

func (p *recordingParser) total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}
