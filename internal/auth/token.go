package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenManager handles issuing, validating and extracting JWT credentials.
type TokenManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration, cookieName string) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if cookieName == "" {
		cookieName = "token"
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, cookieName: cookieName}
}

// Claims describes the JWT payload.
type Claims struct {
	jwt.RegisteredClaims
}

// CookieName returns the cookie carrying the credential.
func (tm *TokenManager) CookieName() string {
	return tm.cookieName
}

// TTL returns the credential lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue builds and signs a time-bounded JWT for the subject.
func (tm *TokenManager) Issue(subject string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates signature and expiry. It is a pure predicate over
// untrusted input: malformed, tampered or expired tokens yield ok=false,
// never an error.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, bool) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, false
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, false
	}
	return claims, true
}

// Extract locates the credential on a request: the Authorization header
// first, the named cookie as fallback. A bearer header must be exactly two
// space-separated parts.
func (tm *TokenManager) Extract(c *fiber.Ctx) (string, bool) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			return parts[1], true
		}
	}
	if cookie := c.Cookies(tm.cookieName); cookie != "" {
		return cookie, true
	}
	return "", false
}
