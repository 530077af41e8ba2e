package cvar

import (
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Registry is a thread-safe collection of variables keyed by name.
// Every operation holds one mutex for its whole duration, including file I/O.
type Registry struct {
	mu         sync.Mutex
	vars       map[string]Var
	order      []string // registration order
	configPath string
	fs         afero.Fs
	log        *logrus.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithFS sets the file system used by Save, Load, and ExportTemplate.
// Default: the operating system's file system.
func WithFS(fs afero.Fs) Option {
	return func(r *Registry) {
		if fs != nil {
			r.fs = fs
		}
	}
}

// WithLogger sets the logger. Default: logrus.New().
func WithLogger(log *logrus.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithConfigPath sets the default location for Save and Load.
func WithConfigPath(path string) Option {
	return func(r *Registry) {
		r.configPath = path
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		vars: make(map[string]Var),
		fs:   afero.NewOsFs(),
		log:  logrus.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// VariableInfo describes a registered variable.
type VariableInfo struct {
	Name        string
	Type        string
	Value       string
	Default     string
	ReadOnly    bool
	Source      string
	Description Optional[string]
}

// Register adds v under its name. It returns false, leaving the registry
// unchanged, if the name is already taken.
func (r *Registry) Register(v Var) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := v.Name()
	if _, exists := r.vars[name]; exists {
		r.log.WithField("name", name).Warn("cvar: variable already registered")
		return false
	}

	r.vars[name] = v
	r.order = append(r.order, name)
	r.log.WithFields(logrus.Fields{"name": name, "type": v.TypeName()}).Debug("cvar: variable registered")
	return true
}

// MustRegister registers v and panics if the name is taken.
// Useful for registering built-in variables at init time.
func (r *Registry) MustRegister(v Var) {
	if !r.Register(v) {
		panic(&VariableError{Name: v.Name(), Err: ErrDuplicateName})
	}
}

// Get returns the value of the named variable if it exists and holds a T.
// A type mismatch is reported exactly like a missing name.
func Get[T any](r *Registry, name string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	v, ok := r.vars[name]
	if !ok {
		return zero, false
	}
	typed, ok := v.(*Variable[T])
	if !ok {
		return zero, false
	}
	return typed.Value(), true
}

// Set parses raw into the named variable.
func (r *Registry) Set(name, raw string) error {
	return r.SetFrom(name, raw, SourceSet)
}

// SetFrom parses raw into the named variable and records source as the
// origin of the new value, e.g. "env:APP_PORT".
func (r *Registry) SetFrom(name, raw, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vars[name]
	if !ok {
		return &notFoundError{name: name}
	}
	if err := v.TrySet(raw); err != nil {
		return err
	}
	v.setSource(source)
	return nil
}

// Exists reports whether a variable is registered under name.
func (r *Registry) Exists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.vars[name]
	return ok
}

// GetAsString returns the canonical rendering of the named variable's value.
func (r *Registry) GetAsString(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vars[name]
	if !ok {
		return "", false
	}
	return v.ValueString(), true
}

// Reset restores the named variable's default. It reports false if the
// name is unknown.
func (r *Registry) Reset(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vars[name]
	if !ok {
		return false
	}
	v.Reset()
	return true
}

// ResetAll restores every variable's default.
func (r *Registry) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.order {
		r.vars[name].Reset()
	}
}

// ListAll returns every registered name in registration order.
func (r *Registry) ListAll() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// GetInfo describes the named variable.
func (r *Registry) GetInfo(name string) (VariableInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vars[name]
	if !ok {
		return VariableInfo{}, false
	}
	return infoOf(v), true
}

// SetConfigPath sets the default location for Save and Load.
func (r *Registry) SetConfigPath(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configPath = path
}

// ConfigPath returns the default location for Save and Load.
func (r *Registry) ConfigPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.configPath
}

func infoOf(v Var) VariableInfo {
	info := VariableInfo{
		Name:     v.Name(),
		Type:     v.TypeName(),
		Value:    v.ValueString(),
		Default:  v.DefaultString(),
		ReadOnly: v.ReadOnly(),
		Source:   v.Source(),
	}
	if desc, ok := v.Description(); ok {
		info.Description = Optional[string]{Value: desc, Set: true}
	}
	return info
}
