package cvar

import "reflect"

// Var is the type-erased view of a Variable that a Registry stores.
// Only *Variable[T] implements it; use Get to recover the typed value.
type Var interface {
	Name() string
	Description() (string, bool)
	ReadOnly() bool

	// TypeName names the static type, e.g. "int" or "time.Duration".
	TypeName() string

	ValueString() string
	DefaultString() string

	// DocumentValue and DocumentDefault return the forms written to documents.
	DocumentValue() any
	DocumentDefault() any

	// TrySet parses raw through the validator and stores the result.
	TrySet(raw string) error

	// Reset restores the default, even on read-only variables.
	Reset()

	// Source identifies where the current value came from.
	Source() string

	setDocument(doc any) error
	setSource(source string)
}

// VarOption configures a Variable.
type VarOption func(*varConfig)

type varConfig struct {
	description    string
	hasDescription bool
	readOnly       bool
}

// WithDescription attaches documentation exported with the variable.
func WithDescription(description string) VarOption {
	return func(cfg *varConfig) {
		cfg.description = description
		cfg.hasDescription = true
	}
}

// ReadOnly rejects TrySet and Set. Reset and document loads still apply.
func ReadOnly() VarOption {
	return func(cfg *varConfig) {
		cfg.readOnly = true
	}
}

// Variable is a named configuration entry of type T with a default value.
// A Variable is not safe for concurrent use; register it with a Registry and
// access it through the registry.
type Variable[T any] struct {
	name         string
	value        T
	defaultValue T
	validator    Validator[T]
	config       varConfig
	source       string
}

// NewVariable creates a variable holding defaultValue.
// validator may be nil, in which case TrySet always fails.
//
// The default is stored without validation. A default the validator rejects
// is saved like any other value but reported by the next load of that
// document, so defaults should satisfy their validator.
func NewVariable[T any](name string, defaultValue T, validator Validator[T], opts ...VarOption) *Variable[T] {
	v := &Variable[T]{
		name:         name,
		value:        defaultValue,
		defaultValue: defaultValue,
		validator:    validator,
		source:       SourceDefault,
	}
	for _, opt := range opts {
		opt(&v.config)
	}
	return v
}

func (v *Variable[T]) Name() string { return v.name }

func (v *Variable[T]) Description() (string, bool) {
	return v.config.description, v.config.hasDescription
}

func (v *Variable[T]) ReadOnly() bool { return v.config.readOnly }

func (v *Variable[T]) TypeName() string { return typeOf[T]().String() }

// Value returns the current value.
func (v *Variable[T]) Value() T { return v.value }

// Default returns the default value.
func (v *Variable[T]) Default() T { return v.defaultValue }

func (v *Variable[T]) ValueString() string { return formatValue(v.value) }

func (v *Variable[T]) DefaultString() string { return formatValue(v.defaultValue) }

func (v *Variable[T]) DocumentValue() any { return documentValue(v.value) }

func (v *Variable[T]) DocumentDefault() any { return documentValue(v.defaultValue) }

// TrySet runs raw through the validator. On failure the value is unchanged
// and the validator's error is returned as-is.
func (v *Variable[T]) TrySet(raw string) error {
	if v.config.readOnly {
		return &readOnlyError{name: v.name}
	}
	if v.validator == nil {
		return ErrNoValidator
	}

	parsed, err := v.validator.Parse(raw)
	if err != nil {
		return err
	}
	v.value = parsed
	v.source = SourceSet
	return nil
}

// Set stores a typed value after running the validator's typed stages.
func (v *Variable[T]) Set(value T) error {
	if v.config.readOnly {
		return &readOnlyError{name: v.name}
	}
	return v.assign(value)
}

func (v *Variable[T]) Reset() {
	v.value = v.defaultValue
	v.source = SourceDefault
}

func (v *Variable[T]) Source() string { return v.source }

func (v *Variable[T]) setSource(source string) { v.source = source }

// setDocument stores a decoded document value. Loading is an administrative
// write, so the read-only flag does not apply.
//
// The value passes the same checks as TrySet: string variables run the full
// pipeline on the document string, a bare ParseFunc parses the canonical
// rendering of the value, and every other validator runs its typed stages.
func (v *Variable[T]) setDocument(doc any) error {
	value, err := coerceDocument[T](doc)
	if err != nil {
		return err
	}
	if v.validator == nil {
		return v.assign(value)
	}

	switch fn := v.validator.(type) {
	case ParseFunc[T]:
		value, err = fn(formatValue(value))
	default:
		if s, ok := doc.(string); ok && typeOf[T]().Kind() == reflect.String {
			value, err = v.validator.Parse(s)
		} else {
			value, err = v.validator.Check(value)
		}
	}
	if err != nil {
		return err
	}

	v.value = value
	v.source = SourceSet
	return nil
}

func (v *Variable[T]) assign(value T) error {
	if v.validator != nil {
		checked, err := v.validator.Check(value)
		if err != nil {
			return err
		}
		value = checked
	}
	v.value = value
	v.source = SourceSet
	return nil
}
