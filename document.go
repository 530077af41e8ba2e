package cvar

import (
	"github.com/Azhovan/cvar/docfile"
	"github.com/Azhovan/cvar/internal/dotpath"
	"github.com/sirupsen/logrus"
)

// Template leaf fields written by ExportTemplate.
const (
	TemplateReadOnly    = "readonly"
	TemplateValue       = "value"
	TemplateDefault     = "default"
	TemplateType        = "type"
	TemplateDescription = "description"
)

// Save writes all values to the configured path.
func (r *Registry) Save() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.configPath == "" {
		return ErrNoConfigPath
	}
	return r.saveLocked(r.configPath)
}

// Load reads values from the configured path.
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.configPath == "" {
		return ErrNoConfigPath
	}
	return r.loadLocked(r.configPath)
}

// SaveToFile writes every variable's value into a nested document at path.
// The format follows the file extension (JSON unless .yaml, .yml or .toml).
func (r *Registry) SaveToFile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(path)
}

// LoadFromFile applies the document at path to the registered variables.
//
// A variable whose dotted name is absent from the document is left as it is.
// A present value is converted to the variable's type and run through its
// typed validation; failures are collected into a *LoadError while every
// other variable still receives its value.
func (r *Registry) LoadFromFile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(path)
}

// ExportTemplate writes a self-documenting document at path. Each leaf is an
// object carrying readonly, value, default, type and, when set, description.
func (r *Registry) ExportTemplate(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	root := make(map[string]any)
	for _, name := range r.order {
		v := r.vars[name]
		leaf := map[string]any{
			TemplateReadOnly: v.ReadOnly(),
			TemplateValue:    v.DocumentValue(),
			TemplateDefault:  v.DocumentDefault(),
			TemplateType:     v.TypeName(),
		}
		if desc, ok := v.Description(); ok {
			leaf[TemplateDescription] = desc
		}
		dotpath.Set(root, name, leaf)
	}

	if err := docfile.Write(r.fs, path, root, docfile.Options{}); err != nil {
		r.log.WithError(err).WithField("path", path).Error("cvar: export template failed")
		return err
	}

	r.log.WithFields(logrus.Fields{"path": path, "variables": len(r.order)}).Debug("cvar: template exported")
	return nil
}

func (r *Registry) saveLocked(path string) error {
	root := make(map[string]any)
	for _, name := range r.order {
		dotpath.Set(root, name, r.vars[name].DocumentValue())
	}

	if err := docfile.Write(r.fs, path, root, docfile.Options{}); err != nil {
		r.log.WithError(err).WithField("path", path).Error("cvar: save failed")
		return err
	}

	r.log.WithFields(logrus.Fields{"path": path, "variables": len(r.order)}).Debug("cvar: config saved")
	return nil
}

func (r *Registry) loadLocked(path string) error {
	if !docfile.Exists(r.fs, path) {
		return ErrFileNotExist
	}

	root, err := docfile.Read(r.fs, path, docfile.Options{})
	if err != nil {
		r.log.WithError(err).WithField("path", path).Error("cvar: load failed")
		return err
	}

	var failures []VariableError
	applied := 0
	for _, name := range r.order {
		doc, ok := dotpath.Get(root, name)
		if !ok {
			continue
		}

		if err := r.vars[name].setDocument(doc); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{"path": path, "name": name}).Warn("cvar: variable failed to load")
			failures = append(failures, VariableError{Name: name, Err: err})
			continue
		}
		r.vars[name].setSource(sourceWithDetail(SourceFile, path))
		applied++
	}

	r.log.WithFields(logrus.Fields{"path": path, "applied": applied, "failed": len(failures)}).Debug("cvar: config loaded")

	if len(failures) > 0 {
		return &LoadError{Failures: failures}
	}
	return nil
}
