package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/akyravish/secure-user-service/internal/repository"
	apperrors "github.com/akyravish/secure-user-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the authenticated identity attached to a request after the
// gate passes. It exists for the lifetime of one request only.
type Principal struct {
	ID string
}

// Middleware validates credentials and loads principals. Any failure along
// the way, including user-store errors, resolves to 401: the gate fails
// closed and leaks nothing about why.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs the auth gate.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token, ok := m.tokens.Extract(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}

	claims, ok := m.tokens.Verify(token)
	if !ok {
		return apperrors.NewInvalidToken("Invalid token")
	}

	user, err := m.users.GetByID(c.UserContext(), claims.Subject)
	if err != nil {
		// token refers to a deleted user, or the store is unavailable;
		// either way the caller learns nothing beyond 401
		return apperrors.NewUnauthorized("Unauthorized")
	}

	c.Locals(principalKey, &Principal{ID: user.ID})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
