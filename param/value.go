// Package param implements the RIB parameter model: typed value containers,
// declaration resolution, and parameter-list binding against entity counts.
package param

import "fmt"

// Kind identifies the basic type carried by a Value.
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a tagged union over {integer, float, string}, scalar or
// one-dimensional sequence. Line records the originating source line for
// diagnostics.
type Value struct {
	Kind     Kind
	Ints     []int64
	Floats   []float64
	Strings  []string
	IsArray  bool // true if the token was written as a bracketed array
	Line     int
	Converts int // number of int<->float coercions applied, for diagnostics
}

// NewInt builds a scalar or array integer value.
func NewInt(line int, isArray bool, v ...int64) Value {
	return Value{Kind: KindInt, Ints: v, IsArray: isArray, Line: line}
}

// NewFloat builds a scalar or array float value.
func NewFloat(line int, isArray bool, v ...float64) Value {
	return Value{Kind: KindFloat, Floats: v, IsArray: isArray, Line: line}
}

// NewString builds a scalar or array string value. Entries must never be
// empty-after-construction placeholders for null; callers are responsible
// for never appending a null entry.
func NewString(line int, isArray bool, v ...string) Value {
	return Value{Kind: KindString, Strings: v, IsArray: isArray, Line: line}
}

// Len returns the value's cardinality regardless of kind.
func (v Value) Len() int {
	switch v.Kind {
	case KindInt:
		return len(v.Ints)
	case KindFloat:
		return len(v.Floats)
	case KindString:
		return len(v.Strings)
	default:
		return 0
	}
}

// GetFloat widens element i to float64. Int->float is silent; any other
// kind is an error.
func (v Value) GetFloat(i int) (float64, error) {
	switch v.Kind {
	case KindFloat:
		return v.Floats[i], nil
	case KindInt:
		return float64(v.Ints[i]), nil
	default:
		return 0, fmt.Errorf("param: cannot widen %s element to float", v.Kind)
	}
}

// GetInt narrows element i to int64. Float->int truncates and the caller
// is expected to surface a warning-level diagnostic (this function only
// performs the conversion; it never reports).
func (v Value) GetInt(i int) (int64, bool, error) {
	switch v.Kind {
	case KindInt:
		return v.Ints[i], false, nil
	case KindFloat:
		return int64(v.Floats[i]), true, nil
	default:
		return 0, false, fmt.Errorf("param: cannot narrow %s element to int", v.Kind)
	}
}

// GetString returns element i as a string; only valid for KindString.
func (v Value) GetString(i int) (string, error) {
	if v.Kind != KindString {
		return "", fmt.Errorf("param: value is %s, not string", v.Kind)
	}
	return v.Strings[i], nil
}

// ConvertIntToFloat returns a float copy of an int value, preserving
// cardinality and recording the conversion event; the receiver is left
// unchanged. Any other kind is returned as is.
func (v Value) ConvertIntToFloat() Value {
	if v.Kind != KindInt {
		return v
	}
	out := make([]float64, len(v.Ints))
	for i, n := range v.Ints {
		out[i] = float64(n)
	}
	return Value{Kind: KindFloat, Floats: out, IsArray: v.IsArray, Line: v.Line, Converts: v.Converts + 1}
}

// ConvertFloatToInt returns an int copy of a float value (truncating),
// preserving cardinality and recording the conversion event; the receiver
// is left unchanged. Any other kind is returned as is. This is a
// narrowing conversion; callers must emit a warning-level diagnostic.
func (v Value) ConvertFloatToInt() Value {
	if v.Kind != KindFloat {
		return v
	}
	out := make([]int64, len(v.Floats))
	for i, f := range v.Floats {
		out[i] = int64(f)
	}
	return Value{Kind: KindInt, Ints: out, IsArray: v.IsArray, Line: v.Line, Converts: v.Converts + 1}
}
