package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/parentchild/account-service/internal/api/dto"
	"github.com/parentchild/account-service/internal/auth"
	"github.com/parentchild/account-service/internal/domain"
	apperrors "github.com/parentchild/account-service/pkg/util/errorutil"
)

func parseBody(c *fiber.Ctx, req dto.Validatable) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	return dto.Check(req)
}

func respond(c *fiber.Ctx, status int, message string, data any) error {
	body := fiber.Map{"status": status, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized(auth.MsgMissingCredentials)
	}
	return user, nil
}
