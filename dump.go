package cvar

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
)

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for Dump.
type dumpConfig struct {
	withDefaults bool   // Append each variable's default value
	withTypes    bool   // Append each variable's type name
	withSources  bool   // Append where each value came from
	asJSON       bool   // Output as JSON instead of text format
	indent       string // Indentation for JSON output (default: "  ")
}

// WithDefaults includes each variable's default value in the output.
func WithDefaults() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withDefaults = true
	}
}

// WithTypes includes each variable's type name in the text output.
// JSON output always carries types.
func WithTypes() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withTypes = true
	}
}

// WithSources includes where each value came from (default, set, file, env).
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON outputs a JSON array of variable descriptions instead of text.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// dumpEntry is the JSON shape of one variable.
type dumpEntry struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Value       any     `json:"value"`
	Default     any     `json:"default,omitempty"`
	ReadOnly    bool    `json:"readonly,omitempty"`
	Source      string  `json:"source,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Dump writes every variable in registration order.
// Text output has one "name: value" line per variable.
func (r *Registry) Dump(w io.Writer, opts ...DumpOption) error {
	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	r.mu.Lock()
	vars := make([]Var, len(r.order))
	for i, name := range r.order {
		vars[i] = r.vars[name]
	}
	if config.asJSON {
		entries := collectEntries(vars, config)
		r.mu.Unlock()
		return dumpAsJSON(w, entries, config)
	}
	lines := collectLines(vars, config)
	r.mu.Unlock()

	for _, line := range lines {
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}
	return nil
}

// collectLines renders text lines while the registry lock is held.
func collectLines(vars []Var, config dumpConfig) []string {
	lines := make([]string, 0, len(vars))
	for _, v := range vars {
		line := fmt.Sprintf("%s: %s", v.Name(), displayValue(v.DocumentValue(), v.ValueString()))
		if config.withTypes {
			line += fmt.Sprintf(" (type: %s)", v.TypeName())
		}
		if config.withDefaults {
			line += fmt.Sprintf(" (default: %s)", displayValue(v.DocumentDefault(), v.DefaultString()))
		}
		if config.withSources {
			line += fmt.Sprintf(" (source: %s)", v.Source())
		}
		if v.ReadOnly() {
			line += " [readonly]"
		}
		lines = append(lines, line+"\n")
	}
	return lines
}

// collectEntries snapshots variables for JSON output while the registry lock is held.
func collectEntries(vars []Var, config dumpConfig) []dumpEntry {
	entries := make([]dumpEntry, 0, len(vars))
	for _, v := range vars {
		entry := dumpEntry{
			Name:     v.Name(),
			Type:     v.TypeName(),
			Value:    v.DocumentValue(),
			ReadOnly: v.ReadOnly(),
		}
		if config.withDefaults {
			entry.Default = v.DocumentDefault()
		}
		if config.withSources {
			entry.Source = v.Source()
		}
		if desc, ok := v.Description(); ok {
			entry.Description = &desc
		}
		entries = append(entries, entry)
	}
	return entries
}

// dumpAsJSON outputs the entries as an indented JSON array.
func dumpAsJSON(w io.Writer, entries []dumpEntry, config dumpConfig) error {
	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(entries, "", config.indent)
	} else {
		data, err = json.Marshal(entries)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	// Add newline for better formatting
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

// displayValue quotes values stored as document strings, durations included,
// so empty strings stay visible.
func displayValue(doc any, rendered string) string {
	if reflect.ValueOf(doc).Kind() == reflect.String {
		return fmt.Sprintf("%q", rendered)
	}
	return rendered
}
