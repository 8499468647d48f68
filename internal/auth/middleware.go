package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/ticketbot/pkg/util/errorutil"
)

const bearerScheme = "bearer "

type principalCtxKey struct{}

// Principal is the operator a verified admin token was issued to.
type Principal struct {
	Subject string
	Role    Role
}

// AuthMiddleware guards the admin API with bearer tokens.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle verifies the bearer token and stores the principal in the fiber
// locals. With no signing secret configured the admin API is closed and
// every call is refused.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if !m.tokens.Enabled() {
		return apperrors.NewForbidden("admin API disabled")
	}

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}
	if len(header) <= len(bearerScheme) || !strings.EqualFold(header[:len(bearerScheme)], bearerScheme) {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(header[len(bearerScheme):]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{Subject: claims.Subject, Role: claims.Role}
	c.Locals(principalCtxKey{}, principal)
	return c.Next()
}

// PrincipalFromContext returns the principal Handle stored for this request.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalCtxKey{}).(*Principal)
	return principal, ok && principal != nil
}
