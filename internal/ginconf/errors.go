package ginconf

import (
	"errors"
	"fmt"
	"strings"
)

// SyntaxError reports a statement that could not be parsed.
type SyntaxError struct {
	// Source is the file path or override text the statement came from.
	Source string

	// Line is the 1-based line the statement starts on.
	Line int

	// Text is the statement as written, comments removed.
	Text string

	// Message describes what is wrong.
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("%s:%d: %s: %q", e.Source, e.Line, e.Message, e.Text)
	}
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Message)
}

// UnknownKeyError lists bindings that no registered configurable consumes.
type UnknownKeyError struct {
	Keys []string
}

// Error implements the error interface.
func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown configuration keys: %s", strings.Join(e.Keys, ", "))
}

// IncludeError reports an include that could not be resolved or would recurse.
type IncludeError struct {
	Path     string
	Searched []string
	Cycle    bool
}

// Error implements the error interface.
func (e *IncludeError) Error() string {
	if e.Cycle {
		return fmt.Sprintf("include cycle through %s", e.Path)
	}
	return fmt.Sprintf("could not find included file %s in any of %v", e.Path, e.Searched)
}

// IsSyntaxError returns true if err is or wraps a SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// IsUnknownKeyError returns true if err is or wraps an UnknownKeyError.
func IsUnknownKeyError(err error) bool {
	var ue *UnknownKeyError
	return errors.As(err, &ue)
}
