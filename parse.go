package cvar

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// typeOf returns the static type of T, including interface types.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// parseInteger parses base-10 text using the bit size of T.
func parseInteger[T any](value string) (T, error) {
	var out T
	if value == "" {
		return out, ErrEmptyString
	}

	rv := reflect.ValueOf(&out).Elem()
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, rv.Type().Bits())
		if err != nil {
			return out, ErrParseInteger
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, rv.Type().Bits())
		if err != nil {
			return out, ErrParseInteger
		}
		rv.SetUint(n)
	default:
		return out, ErrIntegerType
	}

	return out, nil
}

// parseFloat parses decimal text using the bit size of T.
// NaN and infinities are rejected: no document format can store them.
func parseFloat[T any](value string) (T, error) {
	var out T
	if value == "" {
		return out, ErrEmptyString
	}

	rv := reflect.ValueOf(&out).Elem()
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, rv.Type().Bits())
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return out, ErrParseFloat
		}
		rv.SetFloat(f)
	default:
		return out, ErrFloatType
	}

	return out, nil
}

// parseBool accepts exactly "1", "true", "0" and "false".
func parseBool[T any](value string) (T, error) {
	var out T
	if value == "" {
		return out, ErrEmptyString
	}

	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Bool {
		return out, ErrBoolType
	}

	switch value {
	case "1", "true":
		rv.SetBool(true)
	case "0", "false":
		rv.SetBool(false)
	default:
		return out, ErrUnsupportedBool
	}

	return out, nil
}

// parseString passes text through unchanged for string-kinded T.
func parseString[T any](value string) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.String {
		return out, ErrStringType
	}
	rv.SetString(value)
	return out, nil
}

// parseDuration parses Go duration syntax ("1m30s").
func parseDuration[T any](value string) (T, error) {
	var out T
	if value == "" {
		return out, ErrEmptyString
	}

	rv := reflect.ValueOf(&out).Elem()
	if rv.Type() != durationType {
		return out, ErrDurationType
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return out, ErrParseDuration
	}
	rv.SetInt(int64(d))

	return out, nil
}

// formatValue renders v canonically: strings as-is, booleans as true/false,
// numbers in plain decimal, durations in Go duration syntax.
func formatValue[T any](v T) string {
	rv := reflect.ValueOf(&v).Elem()
	if rv.Type() == durationType {
		return time.Duration(rv.Int()).String()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits())
	default:
		return fmt.Sprintf("%v", v)
	}
}

// documentValue returns v in the form written to documents.
// Durations become strings; everything else is stored natively.
func documentValue[T any](v T) any {
	rv := reflect.ValueOf(&v).Elem()
	if rv.Type() == durationType {
		return time.Duration(rv.Int()).String()
	}
	return v
}

// compareValues orders two values of an ordered kind.
func compareValues[T any](a, b T) (int, error) {
	av := reflect.ValueOf(&a).Elem()
	bv := reflect.ValueOf(&b).Elem()

	switch av.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(av.Int(), bv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmp.Compare(av.Uint(), bv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(av.Float(), bv.Float()), nil
	case reflect.String:
		return cmp.Compare(av.String(), bv.String()), nil
	default:
		return 0, ErrBoundType
	}
}

// coerceDocument converts a decoded document value to T.
// Integers accept any integral number, floats accept any number, and
// durations accept duration strings. Everything else must match exactly.
func coerceDocument[T any](doc any) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()

	if rv.Type() == durationType {
		s, ok := doc.(string)
		if !ok {
			return out, fmt.Errorf("expected duration, got %T", doc)
		}
		return parseDuration[T](s)
	}

	switch rv.Kind() {
	case reflect.String:
		s, ok := doc.(string)
		if !ok {
			return out, fmt.Errorf("expected string, got %T", doc)
		}
		rv.SetString(s)
	case reflect.Bool:
		b, ok := doc.(bool)
		if !ok {
			return out, fmt.Errorf("expected boolean, got %T", doc)
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(doc)
		if err != nil {
			return out, err
		}
		if rv.OverflowInt(n) {
			return out, fmt.Errorf("value %d overflows %s", n, rv.Type())
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toUint64(doc)
		if err != nil {
			return out, err
		}
		if rv.OverflowUint(n) {
			return out, fmt.Errorf("value %d overflows %s", n, rv.Type())
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := toFloat64(doc)
		if err != nil {
			return out, err
		}
		if rv.OverflowFloat(f) {
			return out, fmt.Errorf("value %g overflows %s", f, rv.Type())
		}
		rv.SetFloat(f)
	default:
		return out, fmt.Errorf("unsupported variable type %s", rv.Type())
	}

	return out, nil
}

func toInt64(v any) (int64, error) {
	if num, ok := v.(json.Number); ok {
		if n, err := num.Int64(); err == nil {
			return n, nil
		}
		f, err := num.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", num.String())
		}
		v = f
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", rv.Uint())
		}
		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("expected integer, got %v", f)
		}
		return int64(f), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func toUint64(v any) (uint64, error) {
	if num, ok := v.(json.Number); ok {
		if n, err := strconv.ParseUint(num.String(), 10, 64); err == nil {
			return n, nil
		}
		f, err := num.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", num.String())
		}
		v = f
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() < 0 {
			return 0, fmt.Errorf("value %d is negative", rv.Int())
		}
		return uint64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return 0, fmt.Errorf("expected non-negative integer, got %v", f)
		}
		return uint64(f), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func toFloat64(v any) (float64, error) {
	if num, ok := v.(json.Number); ok {
		f, err := num.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", num.String())
		}
		return f, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}
