package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		code       ErrorCode
		status     int
		opertional bool
	}{
		{"validation", NewValidationError("bad"), CodeValidationError, http.StatusBadRequest, true},
		{"invalid input", NewInvalidInput("bad"), CodeInvalidInput, http.StatusBadRequest, true},
		{"unauthorized", NewUnauthorized("no"), CodeUnauthorized, http.StatusUnauthorized, true},
		{"invalid token", NewInvalidToken("no"), CodeInvalidToken, http.StatusUnauthorized, true},
		{"forbidden", NewForbidden("no"), CodeForbidden, http.StatusForbidden, true},
		{"user not found", NewUserNotFound(), CodeUserNotFound, http.StatusNotFound, true},
		{"already exists", NewUserAlreadyExists("dup"), CodeUserAlreadyExists, http.StatusConflict, true},
		{"rate limited", NewRateLimitExceeded(), CodeRateLimitExceeded, http.StatusTooManyRequests, true},
		{"timeout", NewRequestTimeout(), CodeRequestTimeout, http.StatusRequestTimeout, true},
		{"database", NewDatabaseError("db", errors.New("x")), CodeDatabaseError, http.StatusInternalServerError, false},
		{"kafka", NewKafkaError("k", errors.New("x")), CodeKafkaError, http.StatusInternalServerError, false},
		{"internal", NewInternalError(errors.New("x")), CodeInternalError, http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var appErr *AppError
			require.True(t, errors.As(tt.err, &appErr))
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
			assert.Equal(t, tt.opertional, appErr.Operational)
		})
	}
}

func TestToAppErrorPassthrough(t *testing.T) {
	orig := NewUserAlreadyExists("dup")
	got := ToAppError(orig)
	assert.Equal(t, CodeUserAlreadyExists, got.Code)
	assert.Equal(t, http.StatusConflict, got.HTTPStatus)
}

func TestToAppErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewUserNotFound())
	got := ToAppError(wrapped)
	assert.Equal(t, CodeUserNotFound, got.Code)
}

func TestToAppErrorUnknownDefaultsInternal(t *testing.T) {
	got := ToAppError(errors.New("boom"))
	assert.Equal(t, CodeInternalError, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	assert.False(t, got.Operational)
}

func TestToAppErrorDeadline(t *testing.T) {
	got := ToAppError(fmt.Errorf("query: %w", context.DeadlineExceeded))
	assert.Equal(t, CodeRequestTimeout, got.Code)
	assert.Equal(t, http.StatusRequestTimeout, got.HTTPStatus)
}

func TestToAppErrorNil(t *testing.T) {
	assert.Nil(t, ToAppError(nil))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := NewDatabaseError("db", cause)
	assert.True(t, errors.Is(err, cause))
}
