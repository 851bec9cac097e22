package dispatch

import (
	"strconv"
	"strings"

	"github.com/rmanicore/ri/state"
)

// parseCondition compiles an If/ElseIf expression string into a
// state.AttrExpr. Supported
// grammar: a single comparison of the form "$name op value", optionally
// combined with && / || against other such comparisons, where $name
// references a render option or attribute recorded via
// state.Machine.SetOption/SetAttribute, op is one of == != < <= > >=, and
// value is a quoted string or a numeric literal. No function calls, no
// nesting beyond the top-level conjunction/disjunction.
func parseCondition(expr string) state.AttrExpr {
	expr = strings.TrimSpace(expr)
	return func(options, attribs map[string]any) bool {
		return evalExpr(expr, options, attribs)
	}
}

func evalExpr(expr string, options, attribs map[string]any) bool {
	if or := splitTop(expr, "||"); len(or) > 1 {
		for _, part := range or {
			if evalExpr(part, options, attribs) {
				return true
			}
		}
		return false
	}
	if and := splitTop(expr, "&&"); len(and) > 1 {
		for _, part := range and {
			if !evalExpr(part, options, attribs) {
				return false
			}
		}
		return true
	}
	return evalComparison(strings.TrimSpace(expr), options, attribs)
}

// splitTop splits expr on sep only when sep appears outside quotes.
func splitTop(expr, sep string) []string {
	var out []string
	inQuote := false
	start := 0
	for i := 0; i < len(expr); i++ {
		switch {
		case expr[i] == '\'' || expr[i] == '"':
			inQuote = !inQuote
		case !inQuote && strings.HasPrefix(expr[i:], sep):
			out = append(out, expr[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	out = append(out, expr[start:])
	return out
}

var comparisonOps = []string{"==", "!=", "<=", ">=", "<", ">"}

func evalComparison(expr string, options, attribs map[string]any) bool {
	for _, op := range comparisonOps {
		if idx := strings.Index(expr, op); idx >= 0 {
			lhs := resolveOperand(strings.TrimSpace(expr[:idx]), options, attribs)
			rhs := resolveOperand(strings.TrimSpace(expr[idx+len(op):]), options, attribs)
			return compare(lhs, rhs, op)
		}
	}
	// A bare variable reference is truthy if bound and non-zero/non-empty.
	v := resolveOperand(expr, options, attribs)
	switch t := v.(type) {
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return v != nil
	}
}

func resolveOperand(tok string, options, attribs map[string]any) any {
	switch {
	case strings.HasPrefix(tok, "$"):
		name := strings.TrimPrefix(tok, "$")
		if v, ok := options[name]; ok {
			return v
		}
		if v, ok := attribs[name]; ok {
			return v
		}
		return nil
	case len(tok) >= 2 && (tok[0] == '\'' || tok[0] == '"') && tok[len(tok)-1] == tok[0]:
		return tok[1 : len(tok)-1]
	default:
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return f
		}
		return tok
	}
}

func compare(lhs, rhs any, op string) bool {
	lf, lok := lhs.(float64)
	rf, rok := rhs.(float64)
	if lok && rok {
		switch op {
		case "==":
			return lf == rf
		case "!=":
			return lf != rf
		case "<":
			return lf < rf
		case "<=":
			return lf <= rf
		case ">":
			return lf > rf
		case ">=":
			return lf >= rf
		}
	}
	ls, rs := toStr(lhs), toStr(rhs)
	switch op {
	case "==":
		return ls == rs
	case "!=":
		return ls != rs
	case "<":
		return ls < rs
	case "<=":
		return ls <= rs
	case ">":
		return ls > rs
	case ">=":
		return ls >= rs
	}
	return false
}

func toStr(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return ""
	}
}
