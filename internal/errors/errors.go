package errors

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Kind classifies a data-layer error so callers can map it without
// inspecting messages.
type Kind string

const (
	// KindValidation marks a field-level constraint violation.
	KindValidation Kind = "validation"
	// KindReferentialIntegrity marks a restricted delete while dependents exist.
	KindReferentialIntegrity Kind = "referential_integrity"
	// KindNotFound marks an operation targeting a missing or soft-deleted row.
	KindNotFound Kind = "not_found"
	// KindConflict marks a unique-constraint violation.
	KindConflict Kind = "conflict"
	// KindConnectivity marks a storage connection failure the caller may retry.
	KindConnectivity Kind = "connectivity"
)

// Error is the error type returned by the data layer.
type Error struct {
	Kind       Kind
	Entity     string
	Field      string
	Constraint string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a field-level validation error.
func Validation(entity, field, constraint string) *Error {
	return &Error{
		Kind:       KindValidation,
		Entity:     entity,
		Field:      field,
		Constraint: constraint,
		Message:    fmt.Sprintf("%s: field %q violates constraint %q", entity, field, constraint),
	}
}

// NotFound builds an error for a missing or soft-deleted row.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Message: entity + " not found"}
}

// Conflict builds a unique-constraint violation error.
func Conflict(entity, field string) *Error {
	return &Error{
		Kind:    KindConflict,
		Entity:  entity,
		Field:   field,
		Message: fmt.Sprintf("%s: duplicate value for %s", entity, field),
	}
}

// ReferentialIntegrity builds an error for a restricted delete.
func ReferentialIntegrity(entity, message string) *Error {
	return &Error{Kind: KindReferentialIntegrity, Entity: entity, Message: message}
}

// Connectivity wraps a storage connection failure.
func Connectivity(err error) *Error {
	return &Error{Kind: KindConnectivity, Message: "storage unavailable", Err: err}
}

// KindOf returns the kind of err, or "" for errors from outside this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a unique-constraint violation.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsReferentialIntegrity reports whether err is a restricted-delete violation.
func IsReferentialIntegrity(err error) bool { return KindOf(err) == KindReferentialIntegrity }

// IsConnectivity reports whether err is a storage connectivity failure.
func IsConnectivity(err error) bool { return KindOf(err) == KindConnectivity }

// MySQL error numbers used for classification.
const (
	mysqlDupEntry      = 1062
	mysqlRowIsRef      = 1451
	mysqlNoRefRow      = 1452
	mysqlCannotConnect = 2002
)

// FromDB classifies a raw database error into the taxonomy. entity names the
// aggregate being operated on. Unknown errors pass through unchanged.
func FromDB(entity string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(entity)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Conflict(entity, "unique key")
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDupEntry:
			return Conflict(entity, "unique key")
		case mysqlRowIsRef, mysqlNoRefRow:
			return ReferentialIntegrity(entity, myErr.Message)
		case mysqlCannotConnect:
			return Connectivity(err)
		}
	}
	if errors.Is(err, driver.ErrBadConn) {
		return Connectivity(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Connectivity(err)
	}
	return err
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Field      string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
		Field: e.Field,
	}
}

// MapErrorToHTTP maps data-layer errors to HTTP errors by kind.
func MapErrorToHTTP(err error) *HTTPError {
	var e *Error
	if !errors.As(err, &e) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
	switch e.Kind {
	case KindValidation:
		h := NewHTTPError(http.StatusBadRequest, e.Error(), "VALIDATION_ERROR")
		h.Field = e.Field
		return h
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, e.Error(), "NOT_FOUND")
	case KindConflict:
		return NewHTTPError(http.StatusConflict, e.Error(), "CONFLICT")
	case KindReferentialIntegrity:
		return NewHTTPError(http.StatusConflict, e.Error(), "REFERENTIAL_INTEGRITY")
	case KindConnectivity:
		return NewHTTPError(http.StatusServiceUnavailable, e.Error(), "STORAGE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
