package ginconf

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/literal"
	"cuelang.org/go/cue/parser"
	"cuelang.org/go/cue/token"
)

// Marker prefixes for source fragments lifted into string literals before
// the CUE parser sees them.
const (
	refMarker   = "\x00@"
	macroMarker = "\x00%"
	keyMarker   = "\x00k"
	imagMarker  = "\x00j"
)

// dialect selects which spellings a value may use.
type dialect struct {
	// symbols allows @references and %macros.
	symbols bool

	// strict limits values to Python literal spelling: True, False and None
	// only, and dict keys that are themselves literals.
	strict bool
}

var (
	literalDialect = dialect{strict: true}
	valueDialect   = dialect{symbols: true}
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// EvalLiteral evaluates src as a pure Python literal: a number (imaginary
// included), a string in either quote style, True, False, None, or a list,
// tuple or dict of literals. A bare comma list is a tuple. Anything else
// (bare words, expressions, comments, @references, %macros) is an error.
func EvalLiteral(src string) (Value, error) {
	return evaluate(src, literalDialect)
}

// parseValue evaluates the right-hand side of a .gin statement. It accepts
// everything EvalLiteral does plus @references and %macros at any depth,
// lowercase true/false/null, and bare identifiers as dict keys.
func parseValue(src string) (Value, error) {
	return evaluate(src, valueDialect)
}

func evaluate(src string, d dialect) (Value, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("empty value")
	}
	expr := src
	if scanTo(src, 0, ",") >= 0 {
		expr = "(" + src + ")"
	}
	rewritten, err := rewriteSource(expr, d)
	if err != nil {
		return nil, err
	}
	node, err := parser.ParseExpr("value", rewritten)
	if err != nil {
		return nil, fmt.Errorf("not a literal: %s", src)
	}
	return fromAST(node, d, src)
}

// rewriteSource turns value syntax into CUE expression syntax. Single-quoted
// strings become double-quoted, tuples become lists, and @name, %NAME,
// imaginary numbers and non-string dict keys become marked string literals.
func rewriteSource(src string, d dialect) (string, error) {
	var (
		out strings.Builder
		// open brackets; 't' is a parenthesis read as a tuple.
		open   []byte
		keyPos bool
	)
	for i := 0; i < len(src); {
		c := src[i]
		if keyPos && !isSpace(c) {
			keyPos = false
			if c != '"' && c != '\'' && c != '}' {
				if end := scanTo(src, i, ":,}"); end >= 0 && src[end] == ':' {
					key := strings.TrimSpace(src[i:end])
					if d.strict || !identPattern.MatchString(key) || isPythonConstant(key) {
						writeMarked(&out, keyMarker+key)
						i = end
						continue
					}
				}
			}
		}

		switch {
		case c == '"':
			end, err := scanQuoted(src, i)
			if err != nil {
				return "", err
			}
			out.WriteString(src[i:end])
			i = end
		case c == '\'':
			end, err := scanQuoted(src, i)
			if err != nil {
				return "", err
			}
			writeMarked(&out, unescapeSingle(src[i+1:end-1]))
			i = end
		case d.symbols && c == '@':
			name, end := scanName(src, i+1)
			if name == "" {
				return "", fmt.Errorf("empty reference in %q", src)
			}
			if strings.HasPrefix(src[end:], "()") {
				name += "()"
				end += 2
			}
			writeMarked(&out, refMarker+name)
			i = end
		case d.symbols && c == '%':
			name, end := scanName(src, i+1)
			if name == "" {
				return "", fmt.Errorf("empty macro in %q", src)
			}
			writeMarked(&out, macroMarker+name)
			i = end
		case c == '/' && strings.HasPrefix(src[i:], "//"):
			return "", fmt.Errorf("not a literal: %s", src)
		case c == '(':
			if isTuple(src, i) {
				open = append(open, 't')
				out.WriteByte('[')
			} else {
				open = append(open, '(')
				out.WriteByte('(')
			}
			i++
		case c == '[' || c == '{':
			open = append(open, c)
			out.WriteByte(c)
			keyPos = c == '{'
			i++
		case c == ')' || c == ']' || c == '}':
			if c == ')' && len(open) > 0 && open[len(open)-1] == 't' {
				out.WriteByte(']')
			} else {
				out.WriteByte(c)
			}
			if len(open) > 0 {
				open = open[:len(open)-1]
			}
			i++
		case c == ',':
			out.WriteByte(c)
			keyPos = len(open) > 0 && open[len(open)-1] == '{'
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			if i > 0 && isNameByte(src[i-1]) {
				out.WriteByte(c)
				i++
				break
			}
			end := scanNumber(src, i)
			if num, ok := imaginary(src[i:end]); ok {
				writeMarked(&out, imagMarker+num)
			} else {
				out.WriteString(src[i:end])
			}
			i = end
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String(), nil
}

func writeMarked(out *strings.Builder, s string) {
	quoted, _ := json.Marshal(s)
	out.Write(quoted)
}

// scanTo returns the index of the first byte of stops in src[start:] that
// sits outside strings and nested brackets, or -1. An unmatched closing
// bracket ends the scan.
func scanTo(src string, start int, stops string) int {
	depth := 0
	for i := start; i < len(src); i++ {
		c := src[i]
		if depth == 0 && strings.IndexByte(stops, c) >= 0 {
			return i
		}
		switch c {
		case '"', '\'':
			end, err := scanQuoted(src, i)
			if err != nil {
				return -1
			}
			i = end - 1
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return -1
			}
			depth--
		}
	}
	return -1
}

// isTuple reports whether the parenthesis at src[open] starts a tuple:
// empty, or holding a comma at its own level. (5) is just 5.
func isTuple(src string, open int) bool {
	end := scanTo(src, open+1, ")")
	if end < 0 {
		return false
	}
	inner := src[open+1 : end]
	return strings.TrimSpace(inner) == "" || scanTo(inner, 0, ",") >= 0
}

// scanQuoted returns the index just past the string literal starting at
// src[start]. Triple-quoted strings are not supported.
func scanQuoted(src string, start int) (int, error) {
	quote := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("unterminated string in %q", src)
}

func unescapeSingle(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '\'', '"':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// scanName reads a configurable or macro name: identifier characters plus
// '.' for module paths and '/' for scopes.
func scanName(src string, start int) (string, int) {
	end := start
	for end < len(src) && (isNameByte(src[end]) || src[end] == '.' || src[end] == '/') {
		end++
	}
	return src[start:end], end
}

// scanNumber returns the end of the numeric token starting at src[start],
// including a signed exponent.
func scanNumber(src string, start int) int {
	end := start
	for end < len(src) {
		c := src[end]
		switch {
		case isNameByte(c) || c == '.':
			end++
		case (c == '+' || c == '-') && (src[end-1] == 'e' || src[end-1] == 'E') &&
			!strings.ContainsAny(src[start:end], "xX"):
			end++
		default:
			return end
		}
	}
	return end
}

// imaginary returns the magnitude of an imaginary literal such as 2j or
// 1.5e3J.
func imaginary(tok string) (string, bool) {
	if len(tok) < 2 || (tok[len(tok)-1] != 'j' && tok[len(tok)-1] != 'J') {
		return "", false
	}
	num := tok[:len(tok)-1]
	if strings.ContainsAny(num, "xXoObB") {
		return "", false
	}
	if _, err := strconv.ParseFloat(strings.ReplaceAll(num, "_", ""), 64); err != nil {
		return "", false
	}
	return num, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameByte(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isPythonConstant(name string) bool {
	return name == "True" || name == "False" || name == "None"
}

func fromAST(expr ast.Expr, d dialect, src string) (Value, error) {
	switch x := expr.(type) {
	case *ast.BasicLit:
		return fromBasicLit(x, d, src)

	case *ast.Ident:
		switch x.Name {
		case "True":
			return true, nil
		case "False":
			return false, nil
		case "None":
			return nil, nil
		}
		return nil, fmt.Errorf("not a literal: %s", src)

	case *ast.ParenExpr:
		return fromAST(x.X, d, src)

	case *ast.UnaryExpr:
		if x.Op != token.SUB && x.Op != token.ADD {
			return nil, fmt.Errorf("not a literal: %s", src)
		}
		inner, err := fromAST(x.X, d, src)
		if err != nil {
			return nil, err
		}
		return signed(inner, x.Op == token.SUB, src)

	case *ast.BinaryExpr:
		return complexSum(x, d, src)

	case *ast.ListLit:
		list := make([]Value, 0, len(x.Elts))
		for _, elt := range x.Elts {
			v, err := fromAST(elt, d, src)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil

	case *ast.StructLit:
		var keys, vals []Value
		for _, decl := range x.Elts {
			field, ok := decl.(*ast.Field)
			if !ok {
				return nil, fmt.Errorf("not a literal: %s", src)
			}
			k, err := labelValue(field.Label, d, src)
			if err != nil {
				return nil, err
			}
			v, err := fromAST(field.Value, d, src)
			if err != nil {
				return nil, err
			}
			keys = append(keys, k)
			vals = append(vals, v)
		}
		return newDict(keys, vals), nil
	}
	return nil, fmt.Errorf("not a literal: %s", src)
}

func fromBasicLit(lit *ast.BasicLit, d dialect, src string) (Value, error) {
	switch lit.Kind {
	case token.INT:
		if n, err := strconv.ParseInt(lit.Value, 0, 64); err == nil {
			return n, nil
		}
		if n, err := strconv.ParseUint(lit.Value, 0, 64); err == nil {
			return n, nil
		}
		return nil, fmt.Errorf("not a literal: %s", src)

	case token.FLOAT:
		f, err := strconv.ParseFloat(strings.ReplaceAll(lit.Value, "_", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("not a literal: %s", src)
		}
		return f, nil

	case token.STRING:
		s, err := literal.Unquote(lit.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid string %s: %w", lit.Value, err)
		}
		switch {
		case strings.HasPrefix(s, refMarker):
			name := strings.TrimPrefix(s, refMarker)
			if strings.HasSuffix(name, "()") {
				return Reference{Name: strings.TrimSuffix(name, "()"), Evaluate: true}, nil
			}
			return Reference{Name: name}, nil
		case strings.HasPrefix(s, macroMarker):
			return Macro{Name: strings.TrimPrefix(s, macroMarker)}, nil
		case strings.HasPrefix(s, imagMarker):
			f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimPrefix(s, imagMarker), "_", ""), 64)
			if err != nil {
				return nil, fmt.Errorf("not a literal: %s", src)
			}
			return complex(0, f), nil
		case strings.HasPrefix(s, keyMarker):
			return nil, fmt.Errorf("not a literal: %s", src)
		}
		return s, nil
	}

	if !d.strict {
		switch lit.Kind {
		case token.TRUE:
			return true, nil
		case token.FALSE:
			return false, nil
		case token.NULL:
			return nil, nil
		}
	}
	return nil, fmt.Errorf("not a literal: %s", src)
}

// labelValue decodes a dict key. Non-string keys arrive marked and are
// evaluated as values of their own.
func labelValue(label ast.Label, d dialect, src string) (Value, error) {
	switch l := label.(type) {
	case *ast.Ident:
		if !d.strict {
			return l.Name, nil
		}
	case *ast.BasicLit:
		if l.Kind != token.STRING {
			if !d.strict {
				return l.Value, nil
			}
			break
		}
		s, err := literal.Unquote(l.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid string %s: %w", l.Value, err)
		}
		if !strings.HasPrefix(s, keyMarker) {
			return s, nil
		}
		k, err := evaluate(strings.TrimPrefix(s, keyMarker), d)
		if err != nil {
			return nil, err
		}
		switch k.(type) {
		case map[string]Value, Dict:
			return nil, fmt.Errorf("unhashable dict key in %s", src)
		}
		return k, nil
	}
	return nil, fmt.Errorf("not a literal: %s", src)
}

// newDict returns a map when every key is a string and a Dict otherwise.
// A repeated key keeps its last value.
func newDict(keys, vals []Value) Value {
	allStrings := true
	for _, k := range keys {
		if _, ok := k.(string); !ok {
			allStrings = false
			break
		}
	}
	if allStrings {
		obj := make(map[string]Value, len(keys))
		for i, k := range keys {
			obj[k.(string)] = vals[i]
		}
		return obj
	}

	dict := make(Dict, 0, len(keys))
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		id := FormatValue(k)
		if j, ok := index[id]; ok {
			dict[j].Value = vals[i]
			continue
		}
		index[id] = len(dict)
		dict = append(dict, DictEntry{Key: k, Value: vals[i]})
	}
	return dict
}

// complexSum decodes real±imaginary, the only arithmetic a literal allows.
func complexSum(x *ast.BinaryExpr, d dialect, src string) (Value, error) {
	if x.Op != token.ADD && x.Op != token.SUB {
		return nil, fmt.Errorf("not a literal: %s", src)
	}
	if _, ok := x.Y.(*ast.BasicLit); !ok {
		return nil, fmt.Errorf("not a literal: %s", src)
	}
	left, err := fromAST(x.X, d, src)
	if err != nil {
		return nil, err
	}
	right, err := fromAST(x.Y, d, src)
	if err != nil {
		return nil, err
	}
	re, ok := realPart(left)
	im, isComplex := right.(complex128)
	if !ok || !isComplex {
		return nil, fmt.Errorf("not a literal: %s", src)
	}
	if x.Op == token.SUB {
		return complex(re, -imag(im)), nil
	}
	return complex(re, imag(im)), nil
}

func realPart(v Value) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func signed(v Value, negate bool, src string) (Value, error) {
	switch n := v.(type) {
	case int64:
		if negate {
			return -n, nil
		}
		return n, nil
	case float64:
		if negate {
			return -n, nil
		}
		return n, nil
	case complex128:
		if negate {
			return -n, nil
		}
		return n, nil
	case uint64:
		if !negate {
			return n, nil
		}
	}
	return nil, fmt.Errorf("not a literal: %s", src)
}
