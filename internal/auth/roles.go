package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/parentchild/account-service/pkg/util/errorutil"
)

// RequireParent ensures the authenticated account is a parent.
func RequireParent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(MsgMissingCredentials)
		}
		if !user.IsParent {
			return apperrors.NewForbidden("parent account required")
		}
		return c.Next()
	}
}
