package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/roach88/clientbook/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed (client not found, constraint violation, etc.)
	ExitCommandError = 2 // Command error (bad flags or arguments, invalid config, unreachable database)
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNotFound     = "E002" // Client or file not found
	ErrCodeInvalidInput = "E003" // Bad flag, argument or fixture
	ErrCodeConfig       = "E004" // Config load or validation failed
	ErrCodeConnection   = "E005" // Database unreachable or unusable
	ErrCodePersistence  = "E006" // Database rejected the statement
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	ErrCode string // Error code for the response (ErrCodeGeneric if empty)
	Message string // Error message
	Err     error  // Underlying error (optional)
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
func NewExitError(code int, errCode, message string) *ExitError {
	return &ExitError{Code: code, ErrCode: errCode, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, errCode, message string, err error) *ExitError {
	return &ExitError{Code: code, ErrCode: errCode, Message: message, Err: err}
}

// storeError maps a store failure onto an ExitError. Connection errors are
// command errors; anything else the database reports is a failure of the
// operation.
func storeError(message string, err error) *ExitError {
	switch {
	case store.IsConnectionError(err):
		return WrapExitError(ExitCommandError, ErrCodeConnection, message, err)
	case store.IsPersistenceError(err):
		return WrapExitError(ExitFailure, ErrCodePersistence, message, err)
	default:
		return WrapExitError(ExitFailure, ErrCodeGeneric, message, err)
	}
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

// GetErrorCode extracts the response error code from an error.
func GetErrorCode(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.ErrCode != "" {
		return exitErr.ErrCode
	}
	return ErrCodeGeneric
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for errors, warnings and verbose output (defaults to Writer)
	Verbose   bool
	NoColor   bool   // Disable ANSI colors in text output
	TraceID   string // Correlates the response with log lines
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string    `json:"status"`             // "ok" or "error"
	Data    any       `json:"data,omitempty"`     // success payload
	Error   *CLIError `json:"error,omitempty"`    // error details
	TraceID string    `json:"trace_id,omitempty"` // optional trace correlation
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with fmt.Println, so results implement
// fmt.Stringer.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status:  "ok",
			Data:    data,
			TraceID: f.TraceID,
		})
	}

	// Human-readable text output
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs an error in the configured format. JSON goes to Writer so
// that callers always get one parseable response; text goes to ErrWriter.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			TraceID: f.TraceID,
		})
	}

	// Human-readable error
	w := f.GetErrWriter()
	f.paint(color.FgRed, color.Bold).Fprintf(w, "Error [%s]:", code)
	fmt.Fprintf(w, " %s\n", message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// Warn prints a warning to ErrWriter. Warnings are not part of JSON output.
func (f *OutputFormatter) Warn(format string, args ...any) {
	w := f.GetErrWriter()
	f.paint(color.FgYellow).Fprint(w, "Warning:")
	fmt.Fprintf(w, " "+format+"\n", args...)
}

// Heading returns s colored as a section heading for text output.
func (f *OutputFormatter) Heading(s string) string {
	return f.paint(color.FgCyan, color.Bold).Sprint(s)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}

func (f *OutputFormatter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if f.NoColor {
		c.DisableColor()
	}
	return c
}
