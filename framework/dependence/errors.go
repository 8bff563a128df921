package dependence

import (
	"errors"
	"fmt"
	"reflect"
)

// ── Sentinels ─────────────────────────────────────────────────────────────────

var (
	ErrMissingProvider      = errors.New("requires a builder or an explicit provider")
	ErrInvalidName          = errors.New("name must be an exported method identifier")
	ErrNotDeclared          = errors.New("dependency not declared")
	ErrIncompatibleProvider = errors.New("provider is not a compatible factory, responder or self-delegate")
	ErrNoMethod             = errors.New("target has no such method")
	ErrNilTarget            = errors.New("factory returned a nil target")
)

// ── DeclarationError ──────────────────────────────────────────────────────────

// DeclarationError is returned by Declare when the declaration itself is
// malformed.
type DeclarationError struct {
	Name string
	Err  error
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("dependency %s: %v", e.Name, e.Err)
}

func (e *DeclarationError) Unwrap() error { return e.Err }

// ── ResolutionError ───────────────────────────────────────────────────────────

// ResolutionError reports that a dependency could not be routed to anything
// callable. Shape describes the provider value that was found.
type ResolutionError struct {
	Name  string
	Shape string
	Err   error
}

func (e *ResolutionError) Error() string {
	if e.Shape == "" {
		return fmt.Sprintf("unresolvable dependency %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("unresolvable dependency %s (%s): %v", e.Name, e.Shape, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ── InvocationArityError ──────────────────────────────────────────────────────

// InvocationArityError is returned when the resolved target was called with
// the wrong number of arguments. The message only mentions the dependency
// name and the argument count; the target's signature stays in Err.
type InvocationArityError struct {
	Name  string
	Given int
	Err   error
}

func (e *InvocationArityError) Error() string {
	return fmt.Sprintf("parameter mismatch for dependency %s given args length %d", e.Name, e.Given)
}

func (e *InvocationArityError) Unwrap() error { return e.Err }

// ── InvocationTypeError ───────────────────────────────────────────────────────

// ResultIndex is the Index of an InvocationTypeError raised for a result
// rather than an argument.
const ResultIndex = -1

// InvocationTypeError is returned when an argument (or, for Call, the result)
// does not fit the type the target expects.
type InvocationTypeError struct {
	Name  string
	Index int
	Want  reflect.Type
	Got   reflect.Type
}

func (e *InvocationTypeError) Error() string {
	got := "nil"
	if e.Got != nil {
		got = e.Got.String()
	}
	if e.Index == ResultIndex {
		return fmt.Sprintf("dependency %s returned %s, want %s", e.Name, got, e.Want)
	}
	return fmt.Sprintf("dependency %s argument %d: cannot use %s as %s", e.Name, e.Index, got, e.Want)
}
