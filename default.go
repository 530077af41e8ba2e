package cvar

import "sync"

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use.
// Prefer passing an explicit *Registry where test isolation matters.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// Register adds v to the process-wide registry.
func Register(v Var) bool {
	return Default().Register(v)
}

// Lookup reads a typed value from the process-wide registry.
func Lookup[T any](name string) (T, bool) {
	return Get[T](Default(), name)
}

// Set parses raw into a variable of the process-wide registry.
func Set(name, raw string) error {
	return Default().Set(name, raw)
}
