package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/akyravish/secure-user-service/internal/api/dto"
	"github.com/akyravish/secure-user-service/internal/requestid"
	"github.com/akyravish/secure-user-service/internal/service"
	apperrors "github.com/akyravish/secure-user-service/pkg/util"
)

// AuthHandler exposes credential issuance endpoints.
type AuthHandler struct {
	users      *service.UserService
	production bool
}

// NewAuthHandler constructs handler.
func NewAuthHandler(users *service.UserService, production bool) *AuthHandler {
	return &AuthHandler{users: users, production: production}
}

// Login handles POST /api/v1/auth/login: verifies credentials, issues a
// token and sets it as an http-only cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, token, expiresAt, err := h.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.users.TokenManager().CookieName(),
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.production,
		Path:     "/",
	})

	return c.JSON(dto.SuccessResponse{
		Data: fiber.Map{
			"user":       user.Public(),
			"token":      token,
			"expires_at": expiresAt,
		},
		Message:   "Login successful",
		RequestID: requestid.FromContext(c),
	})
}

// Logout handles POST /api/v1/auth/logout by expiring the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.ClearCookie(h.users.TokenManager().CookieName())
	return c.JSON(dto.SuccessResponse{
		Data:      fiber.Map{},
		Message:   "Logged out",
		RequestID: requestid.FromContext(c),
	})
}
