package ginconf

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Value is a decoded configuration value. It is one of nil, bool, int64,
// uint64, float64, complex128, string, []Value, map[string]Value, Dict,
// Reference or Macro.
type Value = any

// Dict is a dict with at least one key that is not a string, such as
// {1: 'a'}. Entries keep source order and keys are unique. Dicts keyed only
// by strings decode to map[string]Value.
type Dict []DictEntry

// DictEntry is one key: value pair of a Dict.
type DictEntry struct {
	Key   Value
	Value Value
}

// Reference points at another configurable: @name, or @name() when the
// target should be called rather than passed.
type Reference struct {
	Name     string
	Evaluate bool
}

// String renders the reference in .gin syntax.
func (r Reference) String() string {
	if r.Evaluate {
		return "@" + r.Name + "()"
	}
	return "@" + r.Name
}

// Macro is a %NAME value. It resolves against the store's constants first,
// then against top-level macro bindings.
type Macro struct {
	Name string
}

// String renders the macro in .gin syntax.
func (m Macro) String() string {
	return "%" + m.Name
}

// FormatValue renders v in .gin syntax. Map keys are sorted so the output is
// stable across runs.
func FormatValue(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch val := v.(type) {
	case nil:
		b.WriteString("None")
	case bool:
		if val {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case int64:
		b.WriteString(strconv.FormatInt(val, 10))
	case uint64:
		b.WriteString(strconv.FormatUint(val, 10))
	case float64:
		b.WriteString(formatFloat(val))
	case complex128:
		b.WriteString(formatComplex(val))
	case string:
		b.WriteString(strconv.Quote(val))
	case []Value:
		b.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, elem)
		}
		b.WriteByte(']')
	case map[string]Value:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			writeValue(b, val[k])
		}
		b.WriteByte('}')
	case Dict:
		b.WriteByte('{')
		for i, e := range val {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, e.Key)
			b.WriteString(": ")
			writeValue(b, e.Value)
		}
		b.WriteByte('}')
	case Reference:
		b.WriteString(val.String())
	case Macro:
		b.WriteString(val.String())
	default:
		fmt.Fprint(b, val)
	}
}

// formatFloat keeps a decimal point on integral floats so 1.0 does not read
// back as an int.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// formatComplex renders c the way Python does: 2j when the real part is a
// positive zero, (1+2j) otherwise.
func formatComplex(c complex128) string {
	re, im := real(c), imag(c)
	imPart := complexPart(im) + "j"
	if re == 0 && !math.Signbit(re) {
		return imPart
	}
	if im >= 0 || math.IsNaN(im) {
		imPart = "+" + imPart
	}
	return "(" + complexPart(re) + imPart + ")"
}

func complexPart(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
