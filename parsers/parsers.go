// Package parsers provides ready-made gowire.Parser implementations
// backed by common configuration sources: nested maps, JSON and YAML
// documents, and config files with optional change watching.
package parsers

import (
	"fmt"
	"strings"

	"github.com/cosmic17/gowire"
)

// NotFoundError is returned when a path has no value in the source.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no value at path %q", e.Path)
}

// Map returns a parser resolving dotted paths against nested
// map[string]any values.
//
//	p := parsers.Map(map[string]any{
//		"db": map[string]any{"pool": map[string]any{"size": 8}},
//	})
//	v, _ := p("db.pool.size") // 8
func Map(m map[string]any) gowire.Parser {
	return func(path string) (any, error) {
		return lookup(m, path)
	}
}

func lookup(m map[string]any, path string) (any, error) {
	if path == "" {
		return nil, &NotFoundError{Path: path}
	}
	cur := any(m)
	for _, seg := range strings.Split(path, ".") {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil, &NotFoundError{Path: path}
		}
		cur, ok = mm[seg]
		if !ok {
			return nil, &NotFoundError{Path: path}
		}
	}
	return cur, nil
}
