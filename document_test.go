package cvar

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/Azhovan/cvar/docfile"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerSample(r *Registry) {
	r.Register(NewVariable("veryImportantString", "fas", StringNonEmpty()))
	r.Register(NewVariable("integer", 512, IntRanged(0, 500)))
	r.Register(NewVariable("getReal", 22.8, FloatRanged(0, 200)))
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestSaveToFile_JSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newTestRegistry(WithFS(fs))
	registerSample(r)

	require.NoError(t, r.SaveToFile("config.json"))

	want := `{
    "getReal": 22.8,
    "integer": 512,
    "veryImportantString": "fas"
}
`
	assert.Equal(t, want, readFile(t, fs, "config.json"))
}

func TestSaveToFile_Nested(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newTestRegistry(WithFS(fs))
	r.Register(NewVariable("server.port", 8080, IntRanged(1, 65535)))
	r.Register(NewVariable("server.host", "localhost", StringNonEmpty()))
	r.Register(NewVariable("debug", false, Boolean()))

	require.NoError(t, r.SaveToFile("config.json"))

	doc, err := docfile.Read(fs, "config.json", docfile.Options{})
	require.NoError(t, err)

	server, ok := doc["server"].(map[string]any)
	require.True(t, ok, "dotted names nest")
	assert.Equal(t, "localhost", server["host"])
	assert.Equal(t, json.Number("8080"), server["port"])
	assert.Equal(t, false, doc["debug"])
}

func TestSaveToFile_LeafOverwritesPlainValue(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newTestRegistry(WithFS(fs))
	r.Register(NewVariable("a", 1, IntRanged(0, 10)))
	r.Register(NewVariable("a.b", 2, IntRanged(0, 10)))

	require.NoError(t, r.SaveToFile("config.json"))

	want := `{
    "a": {
        "b": 2
    }
}
`
	assert.Equal(t, want, readFile(t, fs, "config.json"))
}

func TestLoadFromFile_PartialFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.json",
		[]byte(`{"veryImportantString": "abc", "integer": 900, "getReal": 50.5}`), 0o644))

	r := newTestRegistry(WithFS(fs))
	registerSample(r)

	err := r.LoadFromFile("config.json")
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, []string{"integer"}, loadErr.Names())
	assert.Equal(t, "Some variables failed to load:\n  - integer: Value should be >=0 and <=500", err.Error())

	s, _ := Get[string](r, "veryImportantString")
	i, _ := Get[int](r, "integer")
	f, _ := Get[float64](r, "getReal")
	assert.Equal(t, "abc", s)
	assert.Equal(t, 512, i, "failed variable keeps its value")
	assert.Equal(t, 50.5, f)
}

func TestLoadFromFile_AbsentKeysAreSkipped(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.json", []byte(`{"integer": 100, "extra": true}`), 0o644))

	r := newTestRegistry(WithFS(fs))
	registerSample(r)

	require.NoError(t, r.LoadFromFile("config.json"))

	i, _ := Get[int](r, "integer")
	s, _ := Get[string](r, "veryImportantString")
	assert.Equal(t, 100, i)
	assert.Equal(t, "fas", s)

	info, _ := r.GetInfo("integer")
	assert.Equal(t, "file:config.json", info.Source)
	info, _ = r.GetInfo("veryImportantString")
	assert.Equal(t, SourceDefault, info.Source)
}

func TestLoadFromFile_TypeMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.json",
		[]byte(`{"integer": "100", "getReal": 12.5, "veryImportantString": 3}`), 0o644))

	r := newTestRegistry(WithFS(fs))
	registerSample(r)

	err := r.LoadFromFile("config.json")

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, []string{"veryImportantString", "integer"}, loadErr.Names(), "failures follow registration order")

	f, _ := Get[float64](r, "getReal")
	assert.Equal(t, 12.5, f)
}

func TestLoadFromFile_FuncValidatorKeepsBounds(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.json", []byte(`{"port": 900, "workers": 4}`), 0o644))

	r := newTestRegistry(WithFS(fs))
	r.Register(NewVariable("port", 8, IntRanged(0, 500).Func()))
	r.Register(NewVariable("workers", 1, IntRanged(1, 8).Pipeline().Func()))

	require.EqualError(t, r.Set("port", "900"), "Value should be >=0 and <=500")

	err := r.LoadFromFile("config.json")
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, []string{"port"}, loadErr.Names())
	assert.Equal(t, "Some variables failed to load:\n  - port: Value should be >=0 and <=500", err.Error())

	port, _ := Get[int](r, "port")
	workers, _ := Get[int](r, "workers")
	assert.Equal(t, 8, port)
	assert.Equal(t, 4, workers)
}

func TestLoadFromFile_StringStagesApply(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.json",
		[]byte(`{"name": "", "code": "zz!", "label": "  padded  "}`), 0o644))

	r := newTestRegistry(WithFS(fs))
	r.Register(NewVariable("name", "app", StringNonEmpty()))
	r.Register(NewVariable("code", "abc", NewBuilder[string]().Trim().Pattern(regexp.MustCompile(`^[a-z]+$`)).Text()))
	r.Register(NewVariable("label", "x", StringNonEmpty()))

	require.ErrorIs(t, r.Set("name", ""), ErrEmptyValue)
	require.Error(t, r.Set("code", "zz!"))

	err := r.LoadFromFile("config.json")
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, []string{"name", "code"}, loadErr.Names())
	assert.ErrorIs(t, err, ErrEmptyValue)
	assert.Contains(t, err.Error(), "code: Value should match pattern ^[a-z]+$")

	name, _ := Get[string](r, "name")
	code, _ := Get[string](r, "code")
	label, _ := Get[string](r, "label")
	assert.Equal(t, "app", name)
	assert.Equal(t, "abc", code)
	assert.Equal(t, "padded", label, "loaded strings are normalized like Set")
}

func TestSaveLoad_InvalidDefaultIsReported(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newTestRegistry(WithFS(fs))
	registerSample(r)

	require.NoError(t, r.SaveToFile("config.json"))

	err := r.LoadFromFile("config.json")
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, []string{"integer"}, loadErr.Names(), "only the out-of-range default is reported")

	i, _ := Get[int](r, "integer")
	assert.Equal(t, 512, i)

	require.NoError(t, r.Set("integer", "500"))
	require.NoError(t, r.SaveToFile("config.json"))
	require.NoError(t, r.LoadFromFile("config.json"), "valid values round-trip cleanly")
}

func TestSaveToFile_TOMLUnsignedRange(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newTestRegistry(WithFS(fs))
	r.Register(NewVariable("limit", uint64(math.MaxUint64), NewBuilder[uint64]().Integer()))

	assert.ErrorContains(t, r.SaveToFile("limits.toml"), "exceeds the TOML integer range")

	require.NoError(t, r.SaveToFile("limits.json"))
	require.NoError(t, r.LoadFromFile("limits.json"))
	v, _ := Get[uint64](r, "limit")
	assert.Equal(t, uint64(math.MaxUint64), v)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	r := newTestRegistry()
	registerSample(r)

	err := r.LoadFromFile("nope.json")
	assert.ErrorIs(t, err, ErrFileNotExist)
	assert.EqualError(t, err, "File doesn't exist")
}

func TestLoadFromFile_InvalidDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.json", []byte(`{not json`), 0o644))

	r := newTestRegistry(WithFS(fs))
	registerSample(r)

	err := r.LoadFromFile("config.json")
	require.Error(t, err)
	var loadErr *LoadError
	assert.False(t, errors.As(err, &loadErr))
}

func TestLoadFromFile_ReadOnlyIsApplied(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.json", []byte(`{"build": "prod"}`), 0o644))

	r := newTestRegistry(WithFS(fs))
	r.Register(NewVariable("build", "dev", StringNonEmpty(), ReadOnly()))

	require.NoError(t, r.LoadFromFile("config.json"))
	v, _ := Get[string](r, "build")
	assert.Equal(t, "prod", v)
}

func TestLoadFromFile_NonObjectIntermediate(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.json", []byte(`{"server": 5}`), 0o644))

	r := newTestRegistry(WithFS(fs))
	r.Register(NewVariable("server.port", 8080, IntRanged(1, 65535)))

	require.NoError(t, r.LoadFromFile("config.json"))
	v, _ := Get[int](r, "server.port")
	assert.Equal(t, 8080, v)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	for _, path := range []string{"cfg/app.json", "cfg/app.yaml", "cfg/app.toml"} {
		t.Run(path, func(t *testing.T) {
			fs := afero.NewMemMapFs()

			src := newTestRegistry(WithFS(fs))
			src.Register(NewVariable("server.port", 8080, IntRanged(1, 65535)))
			src.Register(NewVariable("server.host", "localhost", StringNonEmpty()))
			src.Register(NewVariable("ratio", 0.25, FloatRanged(0, 1)))
			src.Register(NewVariable("debug", false, Boolean()))
			src.Register(NewVariable("timeout", 5*time.Second, DurationNonEmpty()))

			require.NoError(t, src.Set("server.port", "9090"))
			require.NoError(t, src.Set("server.host", "example.com"))
			require.NoError(t, src.Set("ratio", "0.75"))
			require.NoError(t, src.Set("debug", "true"))
			require.NoError(t, src.Set("timeout", "1m30s"))
			require.NoError(t, src.SaveToFile(path))

			dst := newTestRegistry(WithFS(fs))
			dst.Register(NewVariable("server.port", 8080, IntRanged(1, 65535)))
			dst.Register(NewVariable("server.host", "localhost", StringNonEmpty()))
			dst.Register(NewVariable("ratio", 0.25, FloatRanged(0, 1)))
			dst.Register(NewVariable("debug", false, Boolean()))
			dst.Register(NewVariable("timeout", 5*time.Second, DurationNonEmpty()))
			require.NoError(t, dst.LoadFromFile(path))

			for _, name := range src.ListAll() {
				want, _ := src.GetAsString(name)
				got, _ := dst.GetAsString(name)
				assert.Equal(t, want, got, name)
			}
		})
	}
}

func TestSaveLoad_ConfigPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newTestRegistry(WithFS(fs))
	registerSample(r)

	assert.ErrorIs(t, r.Save(), ErrNoConfigPath)
	assert.ErrorIs(t, r.Load(), ErrNoConfigPath)
	assert.EqualError(t, r.Save(), "No config path set")

	r.SetConfigPath("settings.json")
	require.NoError(t, r.Set("integer", "7"))
	require.NoError(t, r.Save())

	r.ResetAll()
	require.NoError(t, r.Load())
	v, _ := Get[int](r, "integer")
	assert.Equal(t, 7, v)
}

func TestSaveToFile_WriteFailure(t *testing.T) {
	r := newTestRegistry(WithFS(afero.NewReadOnlyFs(afero.NewMemMapFs())))
	registerSample(r)

	assert.Error(t, r.SaveToFile("config.json"))
	assert.Error(t, r.ExportTemplate("config_all.json"))
}

func TestExportTemplate(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newTestRegistry(WithFS(fs))
	r.Register(NewVariable("server.port", 8080, IntRanged(1, 65535), WithDescription("listen port")))
	r.Register(NewVariable("build", "dev", StringNonEmpty(), ReadOnly()))
	require.NoError(t, r.Set("server.port", "9090"))

	require.NoError(t, r.ExportTemplate("config_all.json"))

	want := `{
    "build": {
        "default": "dev",
        "readonly": true,
        "type": "string",
        "value": "dev"
    },
    "server": {
        "port": {
            "default": 8080,
            "description": "listen port",
            "readonly": false,
            "type": "int",
            "value": 9090
        }
    }
}
`
	assert.Equal(t, want, readFile(t, fs, "config_all.json"))
}

func TestExportTemplate_YAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newTestRegistry(WithFS(fs))
	r.Register(NewVariable("timeout", 5*time.Second, DurationNonEmpty()))

	require.NoError(t, r.ExportTemplate("template.yaml"))

	doc, err := docfile.Read(fs, "template.yaml", docfile.Options{})
	require.NoError(t, err)

	leaf, ok := doc["timeout"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "5s", leaf[TemplateValue])
	assert.Equal(t, "5s", leaf[TemplateDefault])
	assert.Equal(t, "time.Duration", leaf[TemplateType])
	assert.Equal(t, false, leaf[TemplateReadOnly])
	_, hasDesc := leaf[TemplateDescription]
	assert.False(t, hasDesc)
}
