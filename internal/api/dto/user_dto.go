package dto

// CreateUserRequest payload for account creation.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest payload for partial profile updates. At least one field
// must be present.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

// Empty reports whether no field was provided.
func (r UpdateUserRequest) Empty() bool {
	return r.Email == nil && r.Name == nil && r.Password == nil
}

// LoginRequest payload for credential issuance.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SuccessResponse is the envelope for successful responses.
type SuccessResponse struct {
	Data      any    `json:"data"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// ErrorResponse is the envelope for failed responses.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}
