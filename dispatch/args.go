package dispatch

import (
	"fmt"

	"github.com/rmanicore/ri/param"
)

// splitParamList separates a request's raw argument list into its leading
// positional arguments and its trailing (name, value) parameter-list
// pairs. The parameter list begins at the first string-typed scalar
// argument past the request's fixed signature (skip arguments — some
// requests take strings positionally, e.g. a shader name) and continues to
// the end of the argument list; every remaining argument at that point
// must alternate name/value.
func splitParamList(args []param.Value, skip int) (positional []param.Value, names []string, values []param.Value) {
	cut := len(args)
	for i := skip; i < len(args); i++ {
		if args[i].Kind == param.KindString && !args[i].IsArray {
			cut = i
			break
		}
	}
	positional = args[:cut]
	rest := args[cut:]
	for i := 0; i+1 < len(rest); i += 2 {
		name, err := rest[i].GetString(0)
		if err != nil {
			continue
		}
		names = append(names, name)
		values = append(values, rest[i+1])
	}
	return positional, names, values
}

// normalizeNumericArgs widens a request's trailing numeric arguments into a
// single []float64, accepting either N loose scalar arguments or one
// bracketed array of N -- the "scalar-or-array" shape shared by Color,
// Opacity, ColorSamples, Format, Translate, Scale, Rotate and similar
// requests: one helper instead of a hand-written per-request unroll).
func normalizeNumericArgs(args []param.Value) ([]float64, error) {
	if len(args) == 1 && args[0].IsArray {
		return widenFloats(args[0])
	}
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := a.GetFloat(0)
		if err != nil {
			return nil, fmt.Errorf("dispatch: argument %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

func widenFloats(v param.Value) ([]float64, error) {
	out := make([]float64, v.Len())
	for i := range out {
		f, err := v.GetFloat(i)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func argFloat(args []param.Value, i int) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("dispatch: expected argument %d, request has %d", i, len(args))
	}
	return args[i].GetFloat(0)
}

func argInt(args []param.Value, i int) (int64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("dispatch: expected argument %d, request has %d", i, len(args))
	}
	n, _, err := args[i].GetInt(0)
	return n, err
}

func argString(args []param.Value, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("dispatch: expected argument %d, request has %d", i, len(args))
	}
	return args[i].GetString(0)
}

func argIntSlice(args []param.Value, i int) ([]int, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("dispatch: expected argument %d, request has %d", i, len(args))
	}
	v := args[i]
	out := make([]int, v.Len())
	// An empty "[]" token defaults to an int array in the parser; accept
	// it for any element type.
	if v.Len() == 0 {
		return out, nil
	}
	for j := range out {
		n, _, err := v.GetInt(j)
		if err != nil {
			return nil, err
		}
		out[j] = int(n)
	}
	return out, nil
}

func argFloatSlice(args []param.Value, i int) ([]float64, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("dispatch: expected argument %d, request has %d", i, len(args))
	}
	return widenFloats(args[i])
}

func argStringSlice(args []param.Value, i int) ([]string, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("dispatch: expected argument %d, request has %d", i, len(args))
	}
	v := args[i]
	out := make([]string, v.Len())
	if v.Len() == 0 {
		return out, nil
	}
	for j := range out {
		s, err := v.GetString(j)
		if err != nil {
			return nil, err
		}
		out[j] = s
	}
	return out, nil
}
