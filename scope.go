package gowire

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

// scopeKind classifies the owning scope of an accessor.
type scopeKind int

const (
	// scopePackage marks a free function declared at package level.
	// These receive immediate function injection during WireAll.
	scopePackage scopeKind = iota

	// scopeStruct marks a method expression. These are grouped per
	// receiver type and served through a two-phase factory.
	scopeStruct

	// scopeOrphaned marks an accessor declared inside a function body.
	// The wiring pass cannot address such a scope and skips it.
	scopeOrphaned

	// scopeStructural marks an accessor whose qualified name resolves to
	// something that is neither a struct nor a package. WireAll fails on
	// these.
	scopeStructural
)

// ownerInfo is the resolved owning scope of a single accessor function.
type ownerInfo struct {
	kind      scopeKind
	pkg       string
	recv      reflect.Type // struct type for scopeStruct
	recvPtr   bool
	name      string // bare accessor name
	qualified string // full runtime name
}

// anonSegment matches the numbered names the runtime assigns to function
// literals.
var anonSegment = regexp.MustCompile(`^func[0-9]+$`)

// resolveOwner derives an accessor's owning scope from its runtime
// qualified name, cross-checked against its signature.
//
// A name of the form pkg.Accessor has no enclosing segments and resolves
// to the package. A single enclosing segment of the form (*T) or T is a
// receiver if the function's first parameter is that struct type, so the
// accessor resolves to T. Numbered segments mean the accessor was
// declared inside another function and cannot be addressed; anything
// else is structurally unresolvable.
func resolveOwner(fn reflect.Value) (*ownerInfo, error) {
	rf := runtime.FuncForPC(fn.Pointer())
	if rf == nil {
		return nil, errors.New("accessor has no runtime function information")
	}
	full := rf.Name()
	if full == "" {
		return nil, errors.New("accessor has no runtime name")
	}
	if strings.HasSuffix(full, "-fm") {
		return nil, fmt.Errorf("accessor %s is a bound method value; use a method expression such as (*T).Accessor", strings.TrimSuffix(full, "-fm"))
	}

	tail := stripTypeParams(full)
	slash := strings.LastIndex(tail, "/")
	short := tail[slash+1:]
	parts := strings.Split(short, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("cannot parse accessor name %q", full)
	}

	info := &ownerInfo{
		pkg:       tail[:slash+1] + parts[0],
		name:      parts[len(parts)-1],
		qualified: full,
	}

	// Function literals get numbered names regardless of nesting depth.
	if anonSegment.MatchString(info.name) {
		info.kind = scopeOrphaned
		return info, nil
	}

	middle := parts[1 : len(parts)-1]
	if len(middle) == 0 {
		info.kind = scopePackage
		return info, nil
	}
	for _, seg := range middle {
		if seg == "" || anonSegment.MatchString(seg) {
			info.kind = scopeOrphaned
			return info, nil
		}
	}
	if len(middle) == 1 {
		if recv, ptr, ok := receiverFor(fn.Type(), middle[0]); ok {
			info.kind = scopeStruct
			info.recv = recv
			info.recvPtr = ptr
			return info, nil
		}
	}

	info.kind = scopeStructural
	return info, nil
}

// receiverFor checks whether a qualified-name segment names the
// function's first parameter type, i.e. whether the function is a method
// expression with that receiver.
func receiverFor(ft reflect.Type, seg string) (reflect.Type, bool, bool) {
	wantPtr := false
	if strings.HasPrefix(seg, "(*") && strings.HasSuffix(seg, ")") {
		wantPtr = true
		seg = seg[2 : len(seg)-1]
	}
	if ft.NumIn() == 0 {
		return nil, false, false
	}
	t0 := ft.In(0)
	base, ptr := t0, false
	if t0.Kind() == reflect.Ptr {
		base, ptr = t0.Elem(), true
	}
	if base.Kind() != reflect.Struct || base.Name() != seg || ptr != wantPtr {
		return nil, false, false
	}
	return base, ptr, true
}

// stripTypeParams removes the [...] instantiation suffix from names of
// generic functions so segment splitting sees plain identifiers.
func stripTypeParams(s string) string {
	i := strings.Index(s, "[")
	if i < 0 {
		return s
	}
	j := strings.LastIndex(s, "]")
	if j <= i {
		return s
	}
	return s[:i] + s[j+1:]
}
