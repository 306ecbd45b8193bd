package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/parentchild/account-service/internal/api/dto"
	"github.com/parentchild/account-service/internal/domain"
	"github.com/parentchild/account-service/internal/service"
)

// ParentFlows is implemented by *service.ParentService.
type ParentFlows interface {
	Register(ctx context.Context, in service.RegisterParentInput) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor *domain.User, update domain.ProfileUpdate) (*domain.User, error)
}

// ParentHandler exposes parent registration and profile endpoints.
type ParentHandler struct {
	parents ParentFlows
}

// NewParentHandler constructs handler.
func NewParentHandler(parents ParentFlows) *ParentHandler {
	return &ParentHandler{parents: parents}
}

// Register handles POST /api/parent/register/.
func (h *ParentHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterParentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.parents.Register(c.UserContext(), service.RegisterParentInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated,
		"your account has been created, please check your email to activate your account",
		dto.NewUserResponse(user))
}

// Profile handles GET /api/parent/profile/.
func (h *ParentHandler) Profile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "profile fetched", dto.NewUserResponse(user))
}

// UpdateProfile handles PATCH /api/parent/profile/.
func (h *ParentHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ProfileUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	updated, err := h.parents.UpdateProfile(c.UserContext(), user, req.ToUpdate())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "profile updated successfully", dto.NewUserResponse(updated))
}
