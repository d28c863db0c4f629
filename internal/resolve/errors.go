package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigNotFoundError is returned when no search root holds a config with
// the requested stem.
type ConfigNotFoundError struct {
	Name  string
	Stem  string
	Roots []string
}

// Error implements the error interface.
func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("could not find %s or %s in any of %v", e.Name, e.Stem, e.Roots)
}

// FolderNotFoundError is returned when a folder exists neither as given nor
// relative to the repository root.
type FolderNotFoundError struct {
	Folder string
	Tried  []string
}

// Error implements the error interface.
func (e *FolderNotFoundError) Error() string {
	return fmt.Sprintf("could not find folder %s (tried %s)", e.Folder, strings.Join(e.Tried, ", "))
}

// ConstraintKind names the folder rule that was broken.
type ConstraintKind string

const (
	ConstraintMandatory ConstraintKind = "mandatory"
	ConstraintExclusive ConstraintKind = "mutually_exclusive"
)

// ConstraintViolationError is returned when the resolved files break a
// mandatory or mutually exclusive folder rule.
type ConstraintViolationError struct {
	Kind   ConstraintKind
	Folder string

	// Stems are the conflicting config stems, for exclusive folders.
	Stems []string
}

// Error implements the error interface.
func (e *ConstraintViolationError) Error() string {
	if e.Kind == ConstraintMandatory {
		return fmt.Sprintf("at least one config file must be loaded from %s to avoid unexpected behavior", e.Folder)
	}
	return fmt.Sprintf("at most one config file must be loaded from %s to avoid unexpected behavior, instead got %v",
		e.Folder, e.Stems)
}

// OverrideSyntaxError is returned when an override does not parse even
// after sanitization.
type OverrideSyntaxError struct {
	// Override is the override as the user typed it.
	Override string

	// Sanitized is what was handed to the parser.
	Sanitized string

	Err error
}

// Error implements the error interface.
func (e *OverrideSyntaxError) Error() string {
	return fmt.Sprintf("malformed override %q: %v", e.Override, e.Err)
}

// Unwrap returns the parser error.
func (e *OverrideSyntaxError) Unwrap() error {
	return e.Err
}

// IsConfigNotFound returns true if err is or wraps a ConfigNotFoundError.
func IsConfigNotFound(err error) bool {
	var e *ConfigNotFoundError
	return errors.As(err, &e)
}

// IsFolderNotFound returns true if err is or wraps a FolderNotFoundError.
func IsFolderNotFound(err error) bool {
	var e *FolderNotFoundError
	return errors.As(err, &e)
}

// IsConstraintViolation returns true if err is or wraps a ConstraintViolationError.
func IsConstraintViolation(err error) bool {
	var e *ConstraintViolationError
	return errors.As(err, &e)
}

// IsOverrideSyntax returns true if err is or wraps an OverrideSyntaxError.
func IsOverrideSyntax(err error) bool {
	var e *OverrideSyntaxError
	return errors.As(err, &e)
}
