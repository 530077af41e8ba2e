package cvar

import "strings"

// Value sources recorded for each variable.
const (
	SourceDefault = "default"
	SourceSet     = "set"
	SourceFile    = "file"
	SourceEnv     = "env"
)

// FieldProvenance describes where a variable's current value came from.
type FieldProvenance struct {
	Name   string // Dotted variable name (e.g., "database.host")
	Source string // Source identifier (e.g., "file:config.json", "env:APP_PORT")
}

// Kind returns the source identifier without its detail, e.g. "file" for
// "file:config.json".
func (p FieldProvenance) Kind() string {
	kind, _, _ := strings.Cut(p.Source, ":")
	return kind
}

// Provenance returns the source of every variable's value in registration
// order.
func (r *Registry) Provenance() []FieldProvenance {
	r.mu.Lock()
	defer r.mu.Unlock()

	fields := make([]FieldProvenance, len(r.order))
	for i, name := range r.order {
		fields[i] = FieldProvenance{Name: name, Source: r.vars[name].Source()}
	}
	return fields
}

func sourceWithDetail(kind, detail string) string {
	if detail == "" {
		return kind
	}
	return kind + ":" + detail
}
