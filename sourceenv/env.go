package sourceenv

import (
	"os"
	"strings"

	"github.com/Azhovan/cvar"
	"github.com/Azhovan/cvar/internal/dotpath"
)

// Options configures environment variable lookup.
type Options struct {
	// Prefix filters vars starting with prefix (stripped before normalization).
	// Empty = consider all vars.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (APP_ matches app_, App_, etc.).
	// When true, prefix must match exactly.
	// Keys are always normalized to lowercase after prefix stripping.
	CaseSensitive bool
}

// Load scans environment variables, filters by prefix, and normalizes keys.
func Load(opts Options) map[string]string {
	result := make(map[string]string)
	for key, e := range scan(opts) {
		result[key] = e.value
	}
	return result
}

// entry is one matched environment variable.
type entry struct {
	name  string // original variable name, e.g. APP_DATABASE__HOST
	value string
}

func scan(opts Options) map[string]entry {
	result := make(map[string]entry)

	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		key := name
		if opts.Prefix != "" {
			var hasPrefix bool
			if opts.CaseSensitive {
				hasPrefix = strings.HasPrefix(key, opts.Prefix)
			} else {
				hasPrefix = strings.HasPrefix(strings.ToUpper(key), strings.ToUpper(opts.Prefix))
			}

			if !hasPrefix {
				continue
			}
			key = key[len(opts.Prefix):]
		}

		if key == "" {
			continue
		}

		result[dotpath.FromEnvKey(key)] = entry{name: name, value: value}
	}

	return result
}

// Apply sets every registered variable that has a matching environment
// variable. Unmatched environment variables are ignored. Failures are
// collected into a *cvar.LoadError, in registration order, after every
// match has been attempted.
func Apply(r *cvar.Registry, opts Options) error {
	env := scan(opts)

	var failures []cvar.VariableError
	for _, name := range r.ListAll() {
		e, ok := env[strings.ToLower(name)]
		if !ok {
			continue
		}
		if err := r.SetFrom(name, e.value, cvar.SourceEnv+":"+e.name); err != nil {
			failures = append(failures, cvar.VariableError{Name: name, Err: err})
		}
	}

	if len(failures) > 0 {
		return &cvar.LoadError{Failures: failures}
	}
	return nil
}
