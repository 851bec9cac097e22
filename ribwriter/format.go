package ribwriter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rmanicore/ri/param"
)

// formatFloat renders f the shortest way that parses back exactly.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// quote renders s as a double-quoted RIB string with the standard escape
// set; bytes outside printable ASCII use octal escapes.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			if c < 0x20 || c > 0x7E {
				fmt.Fprintf(&b, `\%03o`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// formatID renders a handle id: numeric ids stay bare tokens, string ids
// are quoted.
func formatID(id string) string {
	if _, err := strconv.ParseInt(id, 10, 64); err == nil {
		return id
	}
	return quote(id)
}

// formatValue renders one parameter value as a RIB token or bracket array.
func formatValue(v param.Value) string {
	var parts []string
	switch v.Kind {
	case param.KindInt:
		for _, n := range v.Ints {
			parts = append(parts, strconv.FormatInt(n, 10))
		}
	case param.KindFloat:
		for _, f := range v.Floats {
			parts = append(parts, formatFloat(f))
		}
	case param.KindString:
		for _, s := range v.Strings {
			parts = append(parts, quote(s))
		}
	}
	if len(parts) == 1 && !v.IsArray {
		return parts[0]
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// formatParams renders a bound parameter list as trailing "name" value
// pairs, in bind order.
func formatParams(params *param.List) string {
	if params == nil || params.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range params.Entries() {
		b.WriteByte(' ')
		b.WriteString(quote(e.Decl.Name))
		b.WriteByte(' ')
		b.WriteString(formatValue(e.Value))
	}
	return b.String()
}

func formatFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, f := range vals {
		parts[i] = formatFloat(f)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, n := range vals {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatStrings(vals []string) string {
	parts := make([]string, len(vals))
	for i, s := range vals {
		parts[i] = quote(s)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
