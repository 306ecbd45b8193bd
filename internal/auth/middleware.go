package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/parentchild/account-service/internal/domain"
	apperrors "github.com/parentchild/account-service/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// Client-facing failure messages. They never say which check failed.
const (
	MsgMissingCredentials = "authorization header missing or invalid"
	MsgInvalidCredentials = "could not validate credentials"
	MsgNotPermitted       = "user is not permitted to perform this action"
)

// IdentityLookup resolves token subjects to accounts.
type IdentityLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// AuthMiddleware validates bearer tokens and loads identities.
type AuthMiddleware struct {
	tokens     *TokenManager
	identities IdentityLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, identities IdentityLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, identities: identities}
}

// ExtractBearer returns the token carried by an Authorization header value.
func ExtractBearer(authHeader string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// Authenticate resolves an Authorization header to a permitted identity.
func (m *AuthMiddleware) Authenticate(ctx context.Context, authHeader string) (*domain.User, error) {
	token, ok := ExtractBearer(authHeader)
	if !ok {
		return nil, apperrors.NewUnauthorized(MsgMissingCredentials)
	}

	claims, err := m.tokens.Verify(token, domain.TokenTypeAccess)
	if err != nil {
		return nil, apperrors.NewUnauthorized(MsgInvalidCredentials)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, apperrors.NewUnauthorized(MsgInvalidCredentials)
	}

	user, err := m.identities.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorized(MsgInvalidCredentials)
		}
		return nil, apperrors.MapError(err)
	}

	if !user.Permitted() {
		return nil, apperrors.NewForbidden(MsgNotPermitted)
	}
	return user, nil
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	user, err := m.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		if de := apperrors.ToDomainError(err); de.HTTPStatus == fiber.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return err
	}

	c.Locals(identityKey, user)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated account.
func IdentityFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
