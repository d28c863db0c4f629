package ginconf

import (
	"fmt"
	"regexp"
	"strings"
)

// StatementKind distinguishes the statement forms of a .gin source.
type StatementKind int

const (
	// StatementBinding is `key = value`.
	StatementBinding StatementKind = iota
	// StatementInclude is `include 'path.gin'`.
	StatementInclude
	// StatementImport is `import x` or `from x import y`. It carries no data.
	StatementImport
)

// Statement is one parsed .gin statement.
type Statement struct {
	Kind  StatementKind
	Key   string // binding key, for StatementBinding
	Value Value  // decoded value, for StatementBinding
	Path  string // included path, for StatementInclude
	Line  int
	Text  string
}

// keyPattern matches [scope/]*name[.name]*. A key without a dot is a macro.
var keyPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*/)*[A-Za-z_][A-Za-z0-9_.]*$`)

// Parse splits src into statements and decodes each one. origin names the
// source in error messages.
func Parse(origin, src string) ([]Statement, error) {
	raws, err := splitStatements(origin, src)
	if err != nil {
		return nil, err
	}
	stmts := make([]Statement, 0, len(raws))
	for _, raw := range raws {
		stmt, err := parseStatement(raw)
		if err != nil {
			return nil, &SyntaxError{Source: origin, Line: raw.line, Text: raw.text, Message: err.Error()}
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

type rawStatement struct {
	text string
	line int
}

// splitStatements strips comments and joins lines while brackets are open.
func splitStatements(origin, src string) ([]rawStatement, error) {
	var (
		stmts     []rawStatement
		cur       strings.Builder
		depth     int
		line      = 1
		startLine = 1
	)
	flush := func() {
		text := strings.TrimSpace(cur.String())
		if text != "" {
			stmts = append(stmts, rawStatement{text: text, line: startLine})
		}
		cur.Reset()
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '"', '\'':
			end, err := scanQuoted(src, i)
			if err != nil || strings.Contains(src[i:end], "\n") {
				return nil, &SyntaxError{Source: origin, Line: line, Message: "unterminated string"}
			}
			if strings.TrimSpace(cur.String()) == "" {
				startLine = line
			}
			cur.WriteString(src[i:end])
			i = end - 1
		case '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			i--
		case '(', '[', '{':
			depth++
			cur.WriteByte(c)
		case ')', ']', '}':
			depth--
			if depth < 0 {
				return nil, &SyntaxError{Source: origin, Line: line, Message: fmt.Sprintf("unbalanced %q", c)}
			}
			cur.WriteByte(c)
		case '\n':
			if depth == 0 {
				flush()
				startLine = line + 1
			} else {
				cur.WriteByte(' ')
			}
			line++
		default:
			if strings.TrimSpace(cur.String()) == "" && c != ' ' && c != '\t' && c != '\r' {
				startLine = line
			}
			cur.WriteByte(c)
		}
	}
	if depth != 0 {
		return nil, &SyntaxError{Source: origin, Line: startLine, Text: strings.TrimSpace(cur.String()), Message: "unclosed bracket"}
	}
	flush()
	return stmts, nil
}

func parseStatement(raw rawStatement) (Statement, error) {
	text := raw.text
	stmt := Statement{Line: raw.line, Text: text}

	if rest, ok := cutKeyword(text, "include"); ok {
		v, err := EvalLiteral(rest)
		if err != nil {
			return stmt, fmt.Errorf("include expects a quoted path")
		}
		path, ok := v.(string)
		if !ok || path == "" {
			return stmt, fmt.Errorf("include expects a quoted path")
		}
		stmt.Kind = StatementInclude
		stmt.Path = path
		return stmt, nil
	}
	if _, ok := cutKeyword(text, "import"); ok {
		stmt.Kind = StatementImport
		return stmt, nil
	}
	if rest, ok := cutKeyword(text, "from"); ok && strings.Contains(rest, " import ") {
		stmt.Kind = StatementImport
		return stmt, nil
	}

	eq := topLevelEquals(text)
	if eq < 0 {
		return stmt, fmt.Errorf("expected key = value")
	}
	key := strings.TrimSpace(text[:eq])
	if !keyPattern.MatchString(key) {
		return stmt, fmt.Errorf("invalid binding key %q", key)
	}
	v, err := parseValue(text[eq+1:])
	if err != nil {
		return stmt, err
	}
	stmt.Kind = StatementBinding
	stmt.Key = key
	stmt.Value = v
	return stmt, nil
}

func cutKeyword(text, kw string) (string, bool) {
	if !strings.HasPrefix(text, kw) || len(text) == len(kw) {
		return "", false
	}
	next := text[len(kw)]
	if next != ' ' && next != '\t' {
		return "", false
	}
	return strings.TrimSpace(text[len(kw):]), true
}

// topLevelEquals returns the index of the first '=' outside strings and
// brackets, or -1.
func topLevelEquals(text string) int {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"', '\'':
			end, err := scanQuoted(text, i)
			if err != nil {
				return -1
			}
			i = end - 1
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '=':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
