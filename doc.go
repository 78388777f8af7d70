// Package gowire injects externally-resolved values into structs and
// package-level variables, driven by path-bound accessor declarations
// and a single wiring pass.
//
// A declaration binds an opaque path string to an accessor pair. Method
// expressions declare values owned by a struct type; free functions
// declare module-level values:
//
//	type Server struct {
//		addr    string
//		timeout int
//	}
//
//	func (s *Server) getAddr() string  { return s.addr }
//	func (s *Server) setAddr(v string) { s.addr = v }
//
//	var _ = gowire.Path("http.server.addr", (*Server).getAddr).
//		Setter((*Server).setAddr)
//
// A parser resolves paths to values; the parsers subpackage ships
// map-, JSON-, YAML- and file-backed implementations:
//
//	gowire.SetParser(parsers.Map(map[string]any{
//		"http": map[string]any{"server": map[string]any{"addr": ":8080"}},
//	}))
//
// WireAll runs once at startup. Module-level declarations are injected
// immediately through their write accessor; struct-owned declarations
// are grouped per type and served through a two-phase factory:
//
//	if err := gowire.WireAll(); err != nil {
//		log.Fatal(err)
//	}
//	srv, err := gowire.Build[Server](gowire.Default)
//
// # Construction
//
// Factory.New (and the Build shortcut) fills the constructor registered
// via Provide in two phases. Constructor injection: caller-supplied
// arguments take the leading parameters, and each remaining parameter is
// resolved from the first matching declaration's path. Setter injection:
// after the constructor returns, every write accessor not already
// covered receives the parsed value for its path. A value supplied
// explicitly is never fetched from the parser, and never injected twice.
//
// # Failure policy
//
// Module-level injection and structurally unresolvable accessors fail
// loudly out of WireAll. Constructor injection failures surface as the
// factory's missing-argument error. Setter injection failures are logged
// at debug level and discarded. Validate reports eagerly what wiring
// would skip silently.
package gowire
