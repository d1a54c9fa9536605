package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind discriminates API errors so handlers and clients never have to
// inspect message text.
type Kind string

const (
	KindValidation              Kind = "validation_error"
	KindUnauthorized            Kind = "unauthorized"
	KindForbidden               Kind = "forbidden"
	KindNotFound                Kind = "not_found"
	KindUnprocessable           Kind = "unprocessable_entity"
	KindInternal                Kind = "internal_error"
	KindFormat                  Kind = "format_error"
	KindUnsupportedFormat       Kind = "unsupported_format"
	KindUnknownLabel            Kind = "unknown_label"
	KindDuplicateClassification Kind = "duplicate_classification"
	KindConflict                Kind = "conflict"
	KindTransfer                Kind = "transfer_error"
)

// APIError represents an application error
type APIError struct {
	Status   int    `json:"-"`
	Kind     Kind   `json:"kind"`
	Message  string `json:"error"`
	Record   *int   `json:"record,omitempty"` // offending record index for import errors
	Internal error  `json:"-"`                // original error, logged but never sent to clients
}

// Error returns the error message
func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap returns the original error
func (e *APIError) Unwrap() error {
	return e.Internal
}

// New creates an APIError with the given status, kind and message
func New(status int, kind Kind, message string, err error) *APIError {
	return &APIError{
		Status:   status,
		Kind:     kind,
		Message:  message,
		Internal: err,
	}
}

func BadRequest(message string, err error) *APIError {
	return New(http.StatusBadRequest, KindValidation, message, err)
}

func Unauthorized(message string, err error) *APIError {
	return New(http.StatusUnauthorized, KindUnauthorized, message, err)
}

func Forbidden(message string, err error) *APIError {
	return New(http.StatusForbidden, KindForbidden, message, err)
}

func NotFound(message string, err error) *APIError {
	return New(http.StatusNotFound, KindNotFound, message, err)
}

func UnprocessableEntity(message string, err error) *APIError {
	return New(http.StatusUnprocessableEntity, KindUnprocessable, message, err)
}

func Internal(err error) *APIError {
	return New(http.StatusInternalServerError, KindInternal, "Internal server error", err)
}

// NewValidationError wraps a request-binding failure
func NewValidationError(err error) *APIError {
	return New(http.StatusBadRequest, KindValidation, "Invalid input", err)
}

// Format reports a malformed input record. The record index identifies the
// offending record so the user can fix the file; the whole batch is aborted.
func Format(record int, message string, err error) *APIError {
	e := New(http.StatusBadRequest, KindFormat, fmt.Sprintf("Malformed record %d: %s", record, message), err)
	e.Record = &record
	return e
}

// UnsupportedFormat rejects an unknown format token before any parsing begins
func UnsupportedFormat(format string) *APIError {
	return New(http.StatusBadRequest, KindUnsupportedFormat, fmt.Sprintf("Format %q is invalid", format), nil)
}

// UnknownLabel reports an import referencing a label the project does not define
func UnknownLabel(name string) *APIError {
	return New(http.StatusBadRequest, KindUnknownLabel, fmt.Sprintf("Label %q is not defined in this project", name), nil)
}

// DuplicateClassification rejects a second classification annotation in a
// single-class scope
func DuplicateClassification() *APIError {
	return New(http.StatusBadRequest, KindDuplicateClassification,
		"Requested to create duplicate annotation for single-class-classification project", nil)
}

// Conflict maps a persistence-layer uniqueness violation. Retryable by the caller.
func Conflict(message string, err error) *APIError {
	return New(http.StatusConflict, KindConflict, message, err)
}

// Transfer reports an external blob-store I/O failure. Retryable by the caller.
func Transfer(message string, err error) *APIError {
	return New(http.StatusBadGateway, KindTransfer, message, err)
}

// Is reports whether err is an APIError of the given kind
func Is(err error, kind Kind) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}
