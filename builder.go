package cvar

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Builder assembles a Pipeline fluently. Each method appends a stage (or
// replaces the parser) and returns the builder, so a chain reads in the
// order the stages run:
//
//	port := cvar.NewBuilder[int]().Trim().NotEmpty().Integer().Range(1, 65535)
//
// A Builder is itself a Validator and can be passed to NewVariable directly.
type Builder[T any] struct {
	pipeline *Pipeline[T]
}

// NewBuilder creates a builder over an empty pipeline.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{pipeline: NewPipeline[T]()}
}

// Pipeline returns the assembled pipeline.
func (b *Builder[T]) Pipeline() *Pipeline[T] {
	return b.pipeline
}

// Func returns the assembled pipeline as a plain parse function.
func (b *Builder[T]) Func() ParseFunc[T] {
	return b.pipeline.Parse
}

// Parse implements Validator.
func (b *Builder[T]) Parse(raw string) (T, error) {
	return b.pipeline.Parse(raw)
}

// Check implements Validator.
func (b *Builder[T]) Check(value T) (T, error) {
	return b.pipeline.Check(value)
}

// String stages

// Trim strips leading and trailing whitespace.
func (b *Builder[T]) Trim() *Builder[T] {
	b.pipeline.AddStringStage(func(value string) (string, error) {
		return strings.TrimSpace(value), nil
	})
	return b
}

// NotEmpty rejects an empty string.
func (b *Builder[T]) NotEmpty() *Builder[T] {
	b.pipeline.AddStringStage(func(value string) (string, error) {
		if value == "" {
			return "", ErrEmptyValue
		}
		return value, nil
	})
	return b
}

// Pattern rejects strings that do not match re.
func (b *Builder[T]) Pattern(re *regexp.Regexp) *Builder[T] {
	b.pipeline.AddStringStage(func(value string) (string, error) {
		if !re.MatchString(value) {
			return "", fmt.Errorf("Value should match pattern %s", re)
		}
		return value, nil
	})
	return b
}

// Custom appends an arbitrary string stage.
func (b *Builder[T]) Custom(stage StringStage) *Builder[T] {
	b.pipeline.AddStringStage(stage)
	return b
}

// Parsers

// Integer parses base-10 integers sized to T.
func (b *Builder[T]) Integer() *Builder[T] {
	b.pipeline.SetParser(parseInteger[T])
	return b
}

// Float parses decimal floating-point numbers sized to T.
func (b *Builder[T]) Float() *Builder[T] {
	b.pipeline.SetParser(parseFloat[T])
	return b
}

// Boolean parses "1"/"true" and "0"/"false".
func (b *Builder[T]) Boolean() *Builder[T] {
	b.pipeline.SetParser(parseBool[T])
	return b
}

// Text accepts the string as-is.
func (b *Builder[T]) Text() *Builder[T] {
	b.pipeline.SetParser(parseString[T])
	return b
}

// Duration parses Go duration syntax such as "250ms" or "1h30m".
func (b *Builder[T]) Duration() *Builder[T] {
	b.pipeline.SetParser(parseDuration[T])
	return b
}

// Parser installs a custom parser.
func (b *Builder[T]) Parser(parser Parser[T]) *Builder[T] {
	b.pipeline.SetParser(parser)
	return b
}

// Typed stages

// Min rejects values below minValue.
func (b *Builder[T]) Min(minValue T) *Builder[T] {
	b.pipeline.AddTypedStage(func(value T) (T, error) {
		c, err := compareValues(value, minValue)
		if err != nil {
			return value, err
		}
		if c < 0 {
			return value, fmt.Errorf("Value should be >=%s", formatValue(minValue))
		}
		return value, nil
	})
	return b
}

// Max rejects values above maxValue.
func (b *Builder[T]) Max(maxValue T) *Builder[T] {
	b.pipeline.AddTypedStage(func(value T) (T, error) {
		c, err := compareValues(value, maxValue)
		if err != nil {
			return value, err
		}
		if c > 0 {
			return value, fmt.Errorf("Value should be <=%s", formatValue(maxValue))
		}
		return value, nil
	})
	return b
}

// Range rejects values outside [minValue, maxValue].
func (b *Builder[T]) Range(minValue, maxValue T) *Builder[T] {
	b.pipeline.AddTypedStage(func(value T) (T, error) {
		low, err := compareValues(value, minValue)
		if err != nil {
			return value, err
		}
		high, err := compareValues(value, maxValue)
		if err != nil {
			return value, err
		}
		if low < 0 || high > 0 {
			return value, fmt.Errorf("Value should be >=%s and <=%s",
				formatValue(minValue), formatValue(maxValue))
		}
		return value, nil
	})
	return b
}

// OneOf rejects values whose canonical rendering is not among allowed.
func (b *Builder[T]) OneOf(allowed ...T) *Builder[T] {
	options := make([]string, len(allowed))
	for i, v := range allowed {
		options[i] = formatValue(v)
	}

	b.pipeline.AddTypedStage(func(value T) (T, error) {
		rendered := formatValue(value)
		for _, option := range options {
			if rendered == option {
				return value, nil
			}
		}
		return value, fmt.Errorf("Value should be one of: %s", strings.Join(options, ", "))
	})
	return b
}

// CustomTyped appends an arbitrary typed stage.
func (b *Builder[T]) CustomTyped(stage TypedStage[T]) *Builder[T] {
	b.pipeline.AddTypedStage(stage)
	return b
}

// Shortcuts. Each is normalize, require non-empty, parse, then bound-check.

// IntRanged accepts integers in [minValue, maxValue].
func IntRanged(minValue, maxValue int) *Builder[int] {
	return NewBuilder[int]().Trim().NotEmpty().Integer().Range(minValue, maxValue)
}

// FloatRanged accepts numbers in [minValue, maxValue].
func FloatRanged(minValue, maxValue float64) *Builder[float64] {
	return NewBuilder[float64]().Trim().NotEmpty().Float().Range(minValue, maxValue)
}

// StringNonEmpty accepts any string that is non-empty after trimming.
func StringNonEmpty() *Builder[string] {
	return NewBuilder[string]().Trim().NotEmpty().Text()
}

// Boolean accepts 1/true/0/false after trimming.
func Boolean() *Builder[bool] {
	return NewBuilder[bool]().Trim().NotEmpty().Boolean()
}

// DurationNonEmpty accepts Go duration syntax after trimming.
func DurationNonEmpty() *Builder[time.Duration] {
	return NewBuilder[time.Duration]().Trim().NotEmpty().Duration()
}
