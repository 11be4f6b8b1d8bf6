package domain

import (
	"errors"
	"fmt"
)

// ErrorType categorizes run-level errors by their effect on the run.
type ErrorType string

const (
	ErrorTypeInput      ErrorType = "input"      // fatal before any conversion starts
	ErrorTypeConversion ErrorType = "conversion" // per-document, contained by the worker
	ErrorTypeOutput     ErrorType = "output"     // fatal after aggregation
	ErrorTypeConfig     ErrorType = "config"     // fatal at startup
)

// Sentinel causes for per-document failures. Converters wrap these into
// their errors so the adapter can classify without knowing the library.
var (
	ErrUnreadable = errors.New("document unreadable")
	ErrCorrupt    = errors.New("document corrupt")
)

// DomainError represents a pipeline error with classification
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// InputNotFoundError creates an input resolution error. It is fatal: no
// conversion starts and no artifacts are written.
func InputNotFoundError(message string, err error) *DomainError {
	return NewError(ErrorTypeInput, message, err)
}

// ConversionError creates a per-document conversion error. It is contained
// at the adapter boundary and recorded in the batch report.
func ConversionError(message string, err error) *DomainError {
	return NewError(ErrorTypeConversion, message, err)
}

// OutputWriteError creates an artifact persistence error. It is fatal and
// not retried.
func OutputWriteError(message string, err error) *DomainError {
	return NewError(ErrorTypeOutput, message, err)
}

// ConfigError creates a configuration error
func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}
