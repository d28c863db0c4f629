package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/procgen/internal/device"
	"github.com/roach88/procgen/internal/ginconf"
	"github.com/roach88/procgen/internal/resolve"
	"github.com/roach88/procgen/internal/seed"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Unexpected failure (database, I/O, internal errors)
	ExitCommandError = 2 // Rejected input or environment (unknown config, malformed override, no devices, etc.)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Error codes reported in error responses.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeUsage          = "E002" // Missing or invalid flag value
	ErrCodeSeedRequired   = "E101" // Resumed run without a seed
	ErrCodeUnknownTask    = "E102" // Unrecognized --task name
	ErrCodeConfigNotFound = "E201" // Config in no search root
	ErrCodeFolderNotFound = "E202" // Config or constraint folder missing
	ErrCodeConstraint     = "E203" // Mandatory or exclusive folder rule broken
	ErrCodeOverride       = "E204" // Override does not parse
	ErrCodeSyntax         = "E205" // Config file does not parse
	ErrCodeUnknownKey     = "E206" // Binding no configurable consumes
	ErrCodeInclude        = "E207" // Include missing or cyclic
	ErrCodeSchema         = "E208" // Schema file unreadable
	ErrCodeNoDevice       = "E301" // No render devices
	ErrCodeCatalog        = "E302" // Device catalog unreadable
)

// classify maps err onto an error code and the exit code it warrants.
func classify(err error) (string, int) {
	var (
		incErr  *ginconf.IncludeError
		taskErr *UnknownTaskError
		useErr  *usageError
	)
	switch {
	case errors.As(err, &useErr):
		return useErr.code, ExitCommandError
	case errors.As(err, &taskErr):
		return ErrCodeUnknownTask, ExitCommandError
	case seed.IsSeedRequired(err):
		return ErrCodeSeedRequired, ExitCommandError
	case resolve.IsConfigNotFound(err):
		return ErrCodeConfigNotFound, ExitCommandError
	case resolve.IsFolderNotFound(err):
		return ErrCodeFolderNotFound, ExitCommandError
	case resolve.IsConstraintViolation(err):
		return ErrCodeConstraint, ExitCommandError
	case resolve.IsOverrideSyntax(err):
		return ErrCodeOverride, ExitCommandError
	case errors.As(err, &incErr):
		return ErrCodeInclude, ExitCommandError
	case ginconf.IsSyntaxError(err):
		return ErrCodeSyntax, ExitCommandError
	case ginconf.IsUnknownKeyError(err):
		return ErrCodeUnknownKey, ExitCommandError
	case device.IsNoDeviceFound(err):
		return ErrCodeNoDevice, ExitCommandError
	}
	return ErrCodeGeneric, ExitFailure
}

// usageError is a flag problem found after cobra's own parsing.
type usageError struct {
	code    string
	message string
}

func (e *usageError) Error() string {
	return e.message
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Texter is implemented by results with their own text rendering.
type Texter interface {
	Text() string
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	if t, ok := data.(Texter); ok {
		_, err := io.WriteString(f.Writer, t.Text())
		return err
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	_, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return err
}

// Fail reports err in the configured format and returns the ExitError the
// command should return. The error has already been shown to the user.
func (f *OutputFormatter) Fail(message string, err error) error {
	code, exit := classify(err)
	if werr := f.Error(code, fmt.Sprintf("%s: %v", message, err), errorDetails(err)); werr != nil {
		return WrapExitError(ExitFailure, "writing output", werr)
	}
	return &ExitError{Code: exit, Message: message, Err: err, reported: true}
}

// errorDetails extracts structured context from typed errors for JSON
// responses.
func errorDetails(err error) any {
	var (
		nf  *resolve.ConfigNotFoundError
		cv  *resolve.ConstraintViolationError
		uk  *ginconf.UnknownKeyError
		ovr *resolve.OverrideSyntaxError
	)
	switch {
	case errors.As(err, &nf):
		return map[string]any{"name": nf.Name, "roots": nf.Roots}
	case errors.As(err, &cv):
		return map[string]any{"constraint": cv.Kind, "folder": cv.Folder, "stems": cv.Stems}
	case errors.As(err, &ovr):
		return map[string]any{"override": ovr.Override, "sanitized": ovr.Sanitized}
	case errors.As(err, &uk):
		return map[string]any{"keys": uk.Keys}
	}
	return nil
}

// Reported reports whether err was already written to the user by a
// command's formatter.
func Reported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.reported
}
