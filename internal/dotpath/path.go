// Package dotpath maps dotted variable names onto nested document objects.
//
// A name is split on every "." and each segment but the last names a nested
// object. Saving and loading both go through this package so they agree on
// the splitting rule.
package dotpath

import "strings"

// Separator splits a dotted name into nesting segments.
const Separator = "."

// Split returns the nesting segments of name.
// Examples:
//   - "server.port" → ["server", "port"]
//   - "port" → ["port"]
//   - "a..b" → ["a", "", "b"]
func Split(name string) []string {
	return strings.Split(name, Separator)
}

// Set stores value under name inside root, creating intermediate objects.
// An intermediate segment that exists but is not an object is replaced by one.
func Set(root map[string]any, name string, value any) {
	parts := Split(name)
	current := root
	for _, part := range parts[:len(parts)-1] {
		next, ok := asObject(current[part])
		if !ok {
			next = make(map[string]any)
		}
		current[part] = next
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// Get resolves name inside root. It reports false when any segment is
// missing or when an intermediate segment is not an object.
func Get(root map[string]any, name string) (any, bool) {
	parts := Split(name)
	current := root
	for _, part := range parts[:len(parts)-1] {
		next, ok := asObject(current[part])
		if !ok {
			return nil, false
		}
		current = next
	}
	value, ok := current[parts[len(parts)-1]]
	return value, ok
}

// FromEnvKey turns an environment variable key into a lowercase dotted name.
// Double underscores (__) separate levels; single underscores are preserved.
// Examples:
//   - "SERVER__PORT" → "server.port"
//   - "DB_MAX_CONNECTIONS" → "db_max_connections"
func FromEnvKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "__", Separator))
}

// asObject accepts both decoded object shapes: map[string]any from JSON and
// TOML, and map[string]any or map[any]any from YAML.
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		converted := make(map[string]any, len(m))
		for key, val := range m {
			keyStr, ok := key.(string)
			if !ok {
				continue
			}
			converted[keyStr] = val
		}
		return converted, true
	default:
		return nil, false
	}
}
