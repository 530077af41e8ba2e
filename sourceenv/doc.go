// Package sourceenv overrides registry variables from environment variables.
//
// Key normalization: FOO__BAR → foo.bar, FOO_BAR → foo_bar. Normalized keys
// are matched case-insensitively against registered names, and each match is
// applied with Registry.SetFrom so it passes through the variable's validator
// and records "env:<VAR>" as its source.
//
// Example:
//
//	err := sourceenv.Apply(reg, sourceenv.Options{Prefix: "APP_"})
package sourceenv
