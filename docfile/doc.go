// Package docfile reads and writes nested configuration documents in JSON, YAML, or TOML.
//
// Format is inferred from the extension (.json, .yaml, .yml, .toml). Paths with
// any other extension are treated as JSON. Writes are atomic: the document is
// written to a temporary file next to the target and renamed into place.
//
// TOML integers are signed 64-bit: encoding an unsigned value above
// math.MaxInt64 as TOML fails. JSON and YAML have no such limit.
//
// Example:
//
//	doc, err := docfile.Read(afero.NewOsFs(), "config.yaml", docfile.Options{})
//	err = docfile.Write(afero.NewOsFs(), "config.toml", doc, docfile.Options{})
package docfile
