package cvar

import (
	"errors"
	"fmt"
	"strings"
)

// Stage and parser failures. Messages are part of the textual protocol and
// are matched verbatim by callers, so they keep their capitalization.
//
//nolint:stylecheck // user-facing messages
var (
	ErrEmptyValue      = errors.New("Value should not be empty")
	ErrEmptyString     = errors.New("String should not be empty")
	ErrParseInteger    = errors.New("Failed to parse integer")
	ErrParseFloat      = errors.New("Failed to parse float")
	ErrParseDuration   = errors.New("Failed to parse duration")
	ErrUnsupportedBool = errors.New("Unsupported bool value (1/true/0/false)")
	ErrIntegerType     = errors.New("Unsupported integer type")
	ErrFloatType       = errors.New("Unsupported float type")
	ErrBoolType        = errors.New("Unsupported bool type")
	ErrStringType      = errors.New("Unsupported string type")
	ErrDurationType    = errors.New("Unsupported duration type")
	ErrBoundType       = errors.New("Unsupported bound type")
	ErrNoParser        = errors.New("No parser configured")
	ErrNoValidator     = errors.New("No validator configured")
	ErrNoConfigPath    = errors.New("No config path set")
	ErrFileNotExist    = errors.New("File doesn't exist")
	ErrNotFound        = errors.New("variable not found")
	ErrReadOnly        = errors.New("variable is read-only")
	ErrDuplicateName   = errors.New("variable already registered")
)

// notFoundError names the variable that a lookup missed.
type notFoundError struct {
	name string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("Variable '%s' not found", e.name)
}

func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// readOnlyError names the variable a write was refused on.
type readOnlyError struct {
	name string
}

func (e *readOnlyError) Error() string {
	return fmt.Sprintf("Variable '%s' is read-only", e.name)
}

func (e *readOnlyError) Is(target error) bool {
	return target == ErrReadOnly
}

// LoadError aggregates per-variable failures from a single load.
// Variables that loaded successfully keep their new values.
type LoadError struct {
	Failures []VariableError
}

// Error formats the failures as a multi-line message.
func (e *LoadError) Error() string {
	if len(e.Failures) == 0 {
		return "Some variables failed to load: no errors"
	}

	var b strings.Builder
	b.WriteString("Some variables failed to load:\n")
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "  - %s: %s\n", f.Name, f.Err)
	}

	return strings.TrimRight(b.String(), "\n")
}

// Unwrap exposes every per-variable failure to errors.Is and errors.As.
func (e *LoadError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Names returns the names of the failed variables in load order.
func (e *LoadError) Names() []string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Name
	}
	return names
}

// VariableError is one variable's failure inside a LoadError.
type VariableError struct {
	Name string
	Err  error
}

func (e VariableError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

func (e VariableError) Unwrap() error {
	return e.Err
}
