package export

import (
	"errors"
	"fmt"
)

// Common export errors
var (
	// ErrUnsupportedCharacter is returned when a field contains characters
	// outside the target format's permitted charset.
	ErrUnsupportedCharacter = errors.New("field contains characters unsupported by the target format")

	// ErrSchemaViolation is returned when a field required by the target
	// schema is still missing after enrichment.
	ErrSchemaViolation = errors.New("required field missing for target schema")

	// ErrUnbalancedEntry is returned by the IIF encoder when debits and
	// credits do not reconcile exactly in minor units.
	ErrUnbalancedEntry = errors.New("ledger entry does not balance")

	// ErrUnknownFormat is returned when the requested export format is not
	// registered. This is a caller programming error and fails the batch.
	ErrUnknownFormat = errors.New("unknown export format")

	// ErrBatchTooLarge is returned when a batch exceeds the configured cap.
	ErrBatchTooLarge = errors.New("batch exceeds configured invoice cap")

	// ErrInvalidMapping is returned when the universal CSV column mapping
	// references an unknown source field path.
	ErrInvalidMapping = errors.New("invalid column mapping")
)

// ValidationError describes one violated invariant on a canonical invoice.
// Validation reports every violation at once rather than failing fast, so
// the caller can surface a complete error list per invoice.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// EncodingError wraps a per-invoice encoding failure with the format and
// field that caused it. Encoding errors are scoped to one invoice and never
// abort the batch.
type EncodingError struct {
	Format Kind
	Field  string
	Err    error
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: encoding failed for field '%s': %v", e.Format, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: encoding failed: %v", e.Format, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *EncodingError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewEncodingError creates a new EncodingError.
func NewEncodingError(format Kind, field string, err error) *EncodingError {
	return &EncodingError{Format: format, Field: field, Err: err}
}

// ConfigurationError marks a caller programming error (unknown format,
// invalid column mapping, oversized batch). It is fatal to the whole batch
// call, unlike per-invoice validation and encoding errors.
type ConfigurationError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("export configuration: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *ConfigurationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// SystemError marks an artifact assembly failure unrelated to invoice
// content. It is fatal to the batch but retryable with the same input.
type SystemError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *SystemError) Error() string {
	return fmt.Sprintf("export system: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *SystemError) Unwrap() error {
	return e.Err
}
