package docfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Supported document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Options configures document encoding.
type Options struct {
	// Format: "json", "yaml", or "toml". Inferred from the extension if empty.
	Format string

	// Indent used for JSON output. Default: four spaces.
	Indent string
}

// Read parses the document at path into nested maps.
// JSON numbers are decoded as json.Number so integers keep their precision.
// An empty or whitespace-only file yields an empty document.
func Read(fs afero.Fs, path string, opts Options) (map[string]any, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	raw := make(map[string]any)
	if len(bytes.TrimSpace(data)) == 0 {
		return raw, nil
	}

	switch format := resolveFormat(path, opts); format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML file %s: %w", path, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse JSON file %s: %w", path, err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: json, yaml, toml)", format)
	}

	if raw == nil {
		raw = make(map[string]any)
	}
	return raw, nil
}

// Write encodes doc and atomically replaces the file at path.
// Parent directories are created as needed.
func Write(fs afero.Fs, path string, doc map[string]any, opts Options) error {
	data, err := Encode(doc, resolveFormat(path, opts), opts.Indent)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory %s: %w", dir, err)
		}
	}

	tmp, err := afero.TempFile(fs, dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	// Remove the temp file on any failure; after a successful rename it no longer exists.
	renamed := false
	defer func() {
		if !renamed {
			_ = fs.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	if err := fs.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	renamed = true

	return nil
}

// Encode serializes doc in the given format.
func Encode(doc map[string]any, format, indent string) ([]byte, error) {
	switch format {
	case FormatJSON:
		if indent == "" {
			indent = "    "
		}
		data, err := json.MarshalIndent(doc, "", indent)
		if err != nil {
			return nil, fmt.Errorf("encode JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode YAML: %w", err)
		}
		return data, nil
	case FormatTOML:
		if err := checkTOMLIntegers(doc, ""); err != nil {
			return nil, fmt.Errorf("encode TOML: %w", err)
		}
		data, err := toml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode TOML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: json, yaml, toml)", format)
	}
}

// checkTOMLIntegers rejects unsigned values above math.MaxInt64, which TOML
// integers cannot hold.
func checkTOMLIntegers(doc map[string]any, prefix string) error {
	for key, value := range doc {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			if err := checkTOMLIntegers(nested, path); err != nil {
				return err
			}
			continue
		}

		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Uint, reflect.Uint64, reflect.Uintptr:
			if rv.Uint() > math.MaxInt64 {
				return fmt.Errorf("%s: value %d exceeds the TOML integer range", path, rv.Uint())
			}
		}
	}
	return nil
}

// Exists reports whether a regular file or directory exists at path.
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// InferFormat maps a file extension to a format name. Unknown extensions map to JSON.
func InferFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

func resolveFormat(path string, opts Options) string {
	if opts.Format == "" {
		return InferFormat(path)
	}
	format := strings.ToLower(opts.Format)
	if format == "yml" {
		return FormatYAML
	}
	return format
}
