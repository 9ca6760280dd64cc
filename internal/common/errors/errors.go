// Package errors provides the standardized error taxonomy for the generation
// pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// The generation backend could not be reached at all.
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	// The generation backend answered with a non-success status.
	ErrCodeUpstreamError ErrorCode = "UPSTREAM_ERROR"
	// The backend returned text with no extractable/parseable JSON.
	ErrCodeMalformedJSON ErrorCode = "MALFORMED_JSON"
	// Parsed JSON does not satisfy the stage's structural contract.
	ErrCodeSchemaViolation ErrorCode = "SCHEMA_VIOLATION"
	// A slide type outside the closed enumeration reached content extraction.
	// Defensive only; template selection validates its own output.
	ErrCodeUnknownSlideType ErrorCode = "UNKNOWN_SLIDE_TYPE"
	// A stage could not produce valid output within its retry budget. Terminal.
	ErrCodeStageFailedAfterRetries ErrorCode = "STAGE_FAILED_AFTER_RETRIES"
)

// PipelineError is a structured application error surfaced to callers.
type PipelineError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *PipelineError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.cause }

// Is matches two pipeline errors by code, so callers can use errors.Is with a
// bare &PipelineError{Code: ...} target.
func (e *PipelineError) Is(target error) bool {
	var pe *PipelineError
	if stderrors.As(target, &pe) {
		return e.Code == pe.Code
	}
	return false
}

// CodeOf extracts the pipeline error code from err, or "" if err does not wrap
// a PipelineError.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsCode reports whether err wraps a PipelineError with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// NewUpstreamUnavailable wraps a transport-level failure reaching the backend.
func NewUpstreamUnavailable(cause error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeUpstreamUnavailable,
		Message:   "generation backend is unreachable",
		Details:   cause.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewUpstreamError records a non-success HTTP status from the backend.
func NewUpstreamError(status int, body string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeUpstreamError,
		Message:   fmt.Sprintf("generation backend returned status %d", status),
		Details:   body,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedJSON records a response with no extractable JSON value. The raw
// text is kept in Details for diagnosis.
func NewMalformedJSON(raw string, cause error) *PipelineError {
	e := &PipelineError{
		Code:      ErrCodeMalformedJSON,
		Message:   "no valid JSON in generation response",
		Details:   raw,
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	return e
}

// NewSchemaViolation names the offending field and the shape it failed.
func NewSchemaViolation(stage, field, description string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeSchemaViolation,
		Message:   fmt.Sprintf("%s output failed schema validation", stage),
		Details:   fmt.Sprintf("field %q: %s", field, description),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownSlideType flags an invariant violation between template selection
// and content extraction. Not retryable.
func NewUnknownSlideType(slideType string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeUnknownSlideType,
		Message:   fmt.Sprintf("slide type %q is not in the supported set", slideType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStageFailedAfterRetries is the terminal production failure for a stage;
// it aborts the whole run.
func NewStageFailedAfterRetries(stage string, attempts int, cause error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeStageFailedAfterRetries,
		Message:   fmt.Sprintf("%s failed after %d attempts", stage, attempts),
		Details:   cause.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}
