package cvar

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "fas", formatValue("fas"))
	assert.Equal(t, "", formatValue(""))
	assert.Equal(t, "true", formatValue(true))
	assert.Equal(t, "512", formatValue(512))
	assert.Equal(t, "-3", formatValue(int8(-3)))
	assert.Equal(t, "18446744073709551615", formatValue(uint64(math.MaxUint64)))
	assert.Equal(t, "22.8", formatValue(22.8))
	assert.Equal(t, "200", formatValue(200.0))
	assert.Equal(t, "0.1", formatValue(float32(0.1)))
	assert.Equal(t, "1m30s", formatValue(90*time.Second))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, "int", typeOf[int]().String())
	assert.Equal(t, "float64", typeOf[float64]().String())
	assert.Equal(t, "time.Duration", typeOf[time.Duration]().String())
	assert.Equal(t, "error", typeOf[error]().String())
}

func TestDocumentValue(t *testing.T) {
	assert.Equal(t, "5s", documentValue(5*time.Second))
	assert.Equal(t, 5, documentValue(5))
	assert.Equal(t, "x", documentValue("x"))
}

func TestCoerceDocument_Integers(t *testing.T) {
	tests := []struct {
		name    string
		doc     any
		want    int
		wantErr bool
	}{
		{name: "json number", doc: json.Number("42"), want: 42},
		{name: "json integral float", doc: json.Number("42.0"), want: 42},
		{name: "json fractional", doc: json.Number("42.5"), wantErr: true},
		{name: "yaml int", doc: 7, want: 7},
		{name: "toml int64", doc: int64(-9), want: -9},
		{name: "float64 integral", doc: float64(3), want: 3},
		{name: "string", doc: "42", wantErr: true},
		{name: "bool", doc: true, wantErr: true},
		{name: "nil", doc: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceDocument[int](tt.doc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceDocument_Overflow(t *testing.T) {
	_, err := coerceDocument[int8](json.Number("300"))
	assert.EqualError(t, err, "value 300 overflows int8")

	_, err = coerceDocument[uint](int64(-1))
	assert.EqualError(t, err, "value -1 is negative")

	_, err = coerceDocument[float32](json.Number("1e300"))
	assert.Error(t, err)

	u, err := coerceDocument[uint32](json.Number("4294967295"))
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), u)
}

func TestCoerceDocument_Floats(t *testing.T) {
	f, err := coerceDocument[float64](json.Number("22.8"))
	require.NoError(t, err)
	assert.InDelta(t, 22.8, f, 1e-9)

	f, err = coerceDocument[float64](int64(5))
	require.NoError(t, err)
	assert.Equal(t, 5.0, f)

	_, err = coerceDocument[float64]("22.8")
	assert.EqualError(t, err, "expected number, got string")
}

func TestCoerceDocument_ExactKinds(t *testing.T) {
	s, err := coerceDocument[string]("fas")
	require.NoError(t, err)
	assert.Equal(t, "fas", s)

	_, err = coerceDocument[string](json.Number("1"))
	assert.EqualError(t, err, "expected string, got json.Number")

	b, err := coerceDocument[bool](true)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = coerceDocument[bool]("true")
	assert.EqualError(t, err, "expected boolean, got string")
}

func TestCoerceDocument_Duration(t *testing.T) {
	d, err := coerceDocument[time.Duration]("1m30s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	_, err = coerceDocument[time.Duration](json.Number("90"))
	assert.EqualError(t, err, "expected duration, got json.Number")

	_, err = coerceDocument[time.Duration]("later")
	assert.ErrorIs(t, err, ErrParseDuration)
}

func TestCoerceDocument_UnsupportedType(t *testing.T) {
	_, err := coerceDocument[[]string]([]any{"a"})
	assert.EqualError(t, err, "unsupported variable type []string")
}

func TestCompareValues(t *testing.T) {
	c, err := compareValues(1, 2)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = compareValues(uint(5), uint(5))
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	c, err = compareValues(2.5, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	_, err = compareValues(struct{}{}, struct{}{})
	assert.ErrorIs(t, err, ErrBoundType)
}
