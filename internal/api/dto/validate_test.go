package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/akyravish/secure-user-service/pkg/util"
)

func TestValidateCreateUserRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  CreateUserRequest{Email: "a@b.com", Name: "Alice", Password: "12345678"},
		},
		{
			name:    "missing email",
			req:     CreateUserRequest{Name: "Alice", Password: "12345678"},
			wantErr: "email is required",
		},
		{
			name:    "malformed email",
			req:     CreateUserRequest{Email: "not-an-email", Name: "Alice", Password: "12345678"},
			wantErr: "email must be a valid email address",
		},
		{
			name:    "password too short",
			req:     CreateUserRequest{Email: "a@b.com", Name: "Alice", Password: "short"},
			wantErr: "password must be at least 8 characters",
		},
		{
			name:    "empty name",
			req:     CreateUserRequest{Email: "a@b.com", Password: "12345678"},
			wantErr: "name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.CodeValidationError, appErr.Code)
			assert.Contains(t, appErr.Message, tt.wantErr)
		})
	}
}

func TestValidateUpdateUserRequest(t *testing.T) {
	name := "Alice"
	email := "a@b.com"
	badEmail := "nope"
	shortPassword := "short"

	assert.NoError(t, Validate(UpdateUserRequest{Name: &name}))
	assert.NoError(t, Validate(UpdateUserRequest{Email: &email, Name: &name}))
	assert.Error(t, Validate(UpdateUserRequest{Email: &badEmail}))
	assert.Error(t, Validate(UpdateUserRequest{Password: &shortPassword}))
}

func TestUpdateUserRequestEmpty(t *testing.T) {
	name := "Alice"
	assert.True(t, UpdateUserRequest{}.Empty())
	assert.False(t, UpdateUserRequest{Name: &name}.Empty())
}

func TestValidateLoginRequest(t *testing.T) {
	assert.NoError(t, Validate(LoginRequest{Email: "a@b.com", Password: "12345678"}))
	assert.Error(t, Validate(LoginRequest{Email: "a@b.com"}))
	assert.Error(t, Validate(LoginRequest{Password: "12345678"}))
}
