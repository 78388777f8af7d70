package gowire

import (
	"fmt"
	"reflect"
)

// DeclarationError is returned when an accessor cannot be turned into a
// declaration: wrong kind, ambiguous arity, conflicting value types, or a
// bound method value where a method expression is required.
type DeclarationError struct {
	Path   string
	Reason string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("invalid declaration for path %q: %s", e.Path, e.Reason)
}

// StructuralError is returned by WireAll when an accessor's owning scope
// is neither a struct type nor a package.
type StructuralError struct {
	Qualified string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("accessor %s is owned by something that is neither a struct nor a package", e.Qualified)
}

// ConstructorError is returned by Provide when the argument is not a
// usable constructor function.
type ConstructorError struct {
	Reason string
}

func (e *ConstructorError) Error() string {
	return fmt.Sprintf("invalid constructor: %s", e.Reason)
}

// FactoryNotFoundError is returned when no factory exists for a type.
type FactoryNotFoundError struct {
	Type reflect.Type
}

func (e *FactoryNotFoundError) Error() string {
	return fmt.Sprintf("no factory for type %v. Did you forget to call WireAll()?", e.Type)
}

// MissingArgumentError is returned by Factory.New when a constructor
// parameter was neither supplied by the caller nor resolvable through a
// declaration.
type MissingArgumentError struct {
	Owner reflect.Type
	Index int
	Type  reflect.Type
	Cause error
}

func (e *MissingArgumentError) Error() string {
	msg := fmt.Sprintf("constructor for %v: missing argument %d (%v)", e.Owner, e.Index, e.Type)
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying resolution failure, if any.
func (e *MissingArgumentError) Unwrap() error {
	return e.Cause
}

// TooManyArgumentsError is returned by Factory.New when more positional
// arguments are supplied than the constructor declares.
type TooManyArgumentsError struct {
	Owner reflect.Type
	Got   int
	Want  int
}

func (e *TooManyArgumentsError) Error() string {
	return fmt.Sprintf("constructor for %v takes %d arguments, got %d", e.Owner, e.Want, e.Got)
}

// ArgumentTypeError is returned by Factory.New when a caller-supplied
// argument cannot be used for its constructor parameter.
type ArgumentTypeError struct {
	Owner reflect.Type
	Index int
	Want  reflect.Type
	Cause error
}

func (e *ArgumentTypeError) Error() string {
	return fmt.Sprintf("constructor for %v: argument %d is not usable as %v: %v", e.Owner, e.Index, e.Want, e.Cause)
}

// Unwrap returns the underlying coercion failure.
func (e *ArgumentTypeError) Unwrap() error {
	return e.Cause
}
