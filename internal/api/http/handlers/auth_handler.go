package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/parentchild/account-service/internal/api/dto"
	"github.com/parentchild/account-service/internal/domain"
)

// AuthFlows is the account flow surface used by AuthHandler. *service.AuthService satisfies it.
type AuthFlows interface {
	Login(ctx context.Context, email, password string) (*domain.User, domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Activate(ctx context.Context, activationToken string) error
	ResendActivation(ctx context.Context, email string) error
}

// AuthHandler exposes login, refresh and activation endpoints.
type AuthHandler struct {
	auth AuthFlows
}

// NewAuthHandler constructs handler.
func NewAuthHandler(auth AuthFlows) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /api/login/.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, pair, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Status:       http.StatusOK,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Data:         dto.NewUserResponse(user),
	})
}

// Refresh handles POST /api/refresh/.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token, err := h.auth.Refresh(c.UserContext(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(dto.RefreshResponse{Status: http.StatusOK, TokenType: domain.TokenTypeAccess, Token: token})
}

// Activate handles POST /api/activate/.
func (h *AuthHandler) Activate(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.auth.Activate(c.UserContext(), req.Token); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "account activated successfully, you can now login", nil)
}

// ResendActivation handles POST /api/activate/resend/.
func (h *AuthHandler) ResendActivation(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.auth.ResendActivation(c.UserContext(), req.Email); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "activation link sent to your email", nil)
}
