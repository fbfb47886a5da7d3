package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorCode identifies an application error kind on the wire.
type ErrorCode string

const (
	CodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	CodeForbidden            ErrorCode = "FORBIDDEN"
	CodeInvalidToken         ErrorCode = "INVALID_TOKEN"
	CodeValidationError      ErrorCode = "VALIDATION_ERROR"
	CodeInvalidInput         ErrorCode = "INVALID_INPUT"
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	CodeResourceNotFound     ErrorCode = "RESOURCE_NOT_FOUND"
	CodeConflict             ErrorCode = "CONFLICT"
	CodeUserAlreadyExists    ErrorCode = "USER_ALREADY_EXISTS"
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
	CodeRateLimitExceeded    ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeRequestTimeout       ErrorCode = "REQUEST_TIMEOUT"
	CodeKafkaError           ErrorCode = "KAFKA_ERROR"
)

// AppError standardizes application errors. Every failure that reaches the
// HTTP boundary is classified into one of these; anything unclassified is
// treated as internal.
type AppError struct {
	Code        ErrorCode
	Message     string
	HTTPStatus  int
	Operational bool
	Err         error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError constructs an AppError. Operational is derived from the status:
// 4xx failures are expected and user-facing, 5xx are not.
func NewAppError(code ErrorCode, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Operational: status < 500}
}

func NewValidationError(message string) error {
	return NewAppError(CodeValidationError, message, http.StatusBadRequest)
}

func NewInvalidInput(message string) error {
	return NewAppError(CodeInvalidInput, message, http.StatusBadRequest)
}

func NewUnauthorized(message string) error {
	return NewAppError(CodeUnauthorized, message, http.StatusUnauthorized)
}

func NewInvalidToken(message string) error {
	return NewAppError(CodeInvalidToken, message, http.StatusUnauthorized)
}

func NewForbidden(message string) error {
	return NewAppError(CodeForbidden, message, http.StatusForbidden)
}

func NewNotFound(message string, code ErrorCode) error {
	return NewAppError(code, message, http.StatusNotFound)
}

func NewUserNotFound() error {
	return NewNotFound("User not found", CodeUserNotFound)
}

func NewConflict(message string, code ErrorCode) error {
	return NewAppError(code, message, http.StatusConflict)
}

func NewUserAlreadyExists(message string) error {
	return NewConflict(message, CodeUserAlreadyExists)
}

func NewRateLimitExceeded() error {
	return NewAppError(CodeRateLimitExceeded, "Too many requests, please try again later", http.StatusTooManyRequests)
}

func NewRequestTimeout() error {
	return NewAppError(CodeRequestTimeout, "Request timeout", http.StatusRequestTimeout)
}

func NewDatabaseError(message string, err error) error {
	return &AppError{Code: CodeDatabaseError, Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}

func NewKafkaError(message string, err error) error {
	return &AppError{Code: CodeKafkaError, Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}

func NewInternalError(err error) error {
	return &AppError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToAppError converts generic errors to AppError, defaulting to internal/500.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		if ae, ok := NewRequestTimeout().(*AppError); ok {
			return ae
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &AppError{
			Code:       CodeDatabaseError,
			Message:    "Database operation failed",
			HTTPStatus: http.StatusInternalServerError,
			Err:        err,
		}
	}
	return &AppError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
