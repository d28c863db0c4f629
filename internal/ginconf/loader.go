package ginconf

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Loader applies .gin files and binding strings to a Store, resolving
// include statements against SearchPaths.
type Loader struct {
	// SearchPaths are tried in order for include paths that do not exist
	// as given.
	SearchPaths []string

	// Logger receives debug output; nil means slog.Default().
	Logger *slog.Logger
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// ApplyFile parses the file at path and applies its statements to store.
func (l *Loader) ApplyFile(store *Store, path string) error {
	return l.applyFile(store, path, nil)
}

func (l *Loader) applyFile(store *Store, path string, stack []string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, seen := range stack {
		if seen == abs {
			return &IncludeError{Path: path, Cycle: true}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	l.logger().Debug("applying config file", "path", path)
	return l.apply(store, path, string(data), append(stack, abs))
}

// ApplyBindings parses text (typically one command-line override) and
// applies its statements to store. It must contain at least one statement.
func (l *Loader) ApplyBindings(store *Store, text string) error {
	stmts, err := Parse("<override>", text)
	if err != nil {
		return err
	}
	if len(stmts) == 0 {
		return &SyntaxError{Source: "<override>", Line: 1, Text: text, Message: "empty binding"}
	}
	return l.applyStatements(store, "<override>", stmts, nil)
}

func (l *Loader) apply(store *Store, origin, src string, stack []string) error {
	stmts, err := Parse(origin, src)
	if err != nil {
		return err
	}
	return l.applyStatements(store, origin, stmts, stack)
}

func (l *Loader) applyStatements(store *Store, origin string, stmts []Statement, stack []string) error {
	for _, stmt := range stmts {
		switch stmt.Kind {
		case StatementBinding:
			store.Bind(stmt.Key, stmt.Value, origin)
		case StatementInclude:
			path, err := l.findInclude(stmt.Path)
			if err != nil {
				return err
			}
			if err := l.applyFile(store, path, stack); err != nil {
				return err
			}
		case StatementImport:
			// Imports name host-side modules; nothing to bind.
		}
	}
	return nil
}

func (l *Loader) findInclude(path string) (string, error) {
	if fileExists(path) {
		return path, nil
	}
	if !filepath.IsAbs(path) {
		for _, dir := range l.SearchPaths {
			candidate := filepath.Join(dir, path)
			if fileExists(candidate) {
				return candidate, nil
			}
		}
	}
	return "", &IncludeError{Path: path, Searched: l.SearchPaths}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
