package cvar

// StringStage normalizes or rejects a raw string before parsing.
type StringStage func(value string) (string, error)

// Parser turns a normalized string into a typed value.
type Parser[T any] func(value string) (T, error)

// TypedStage transforms or rejects a parsed value.
type TypedStage[T any] func(value T) (T, error)

// Validator turns raw text into a typed value for a Variable.
// Pipeline, Builder, and ParseFunc implement it.
type Validator[T any] interface {
	// Parse runs the full chain on raw text.
	Parse(raw string) (T, error)

	// Check runs only the typed stages. Used when a document already
	// carries a typed value and no string parsing is needed.
	Check(value T) (T, error)
}

// ParseFunc adapts a plain function to the Validator interface.
// Its Check accepts every value unchanged, so document loads validate a
// ParseFunc variable by parsing the canonical rendering of the loaded value.
type ParseFunc[T any] func(raw string) (T, error)

func (f ParseFunc[T]) Parse(raw string) (T, error) {
	return f(raw)
}

func (f ParseFunc[T]) Check(value T) (T, error) {
	return value, nil
}

// Optional distinguishes "not set" from "zero value".
type Optional[T any] struct {
	Value T
	Set   bool
}

// Get returns the wrapped value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// OrDefault returns the wrapped value or the provided default.
func (o Optional[T]) OrDefault(defaultVal T) T {
	if o.Set {
		return o.Value
	}
	return defaultVal
}
