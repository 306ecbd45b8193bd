package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/parentchild/account-service/internal/api/dto"
	"github.com/parentchild/account-service/internal/domain"
	"github.com/parentchild/account-service/internal/service"
	apperrors "github.com/parentchild/account-service/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

// ChildFlows is implemented by *service.ChildService.
type ChildFlows interface {
	List(ctx context.Context, parent *domain.User, filter domain.ChildFilter) ([]domain.Child, error)
	Add(ctx context.Context, parent *domain.User, in service.AddChildInput) (*domain.Child, error)
	Update(ctx context.Context, parent *domain.User, childID int64, update domain.ChildUpdate) (*domain.Child, error)
}

// ChildHandler exposes a parent's child records.
type ChildHandler struct {
	children ChildFlows
}

// NewChildHandler constructs handler.
func NewChildHandler(children ChildFlows) *ChildHandler {
	return &ChildHandler{children: children}
}

// List handles GET /api/child/.
func (h *ChildHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	filter, err := parseChildFilter(c)
	if err != nil {
		return err
	}

	children, err := h.children.List(c.UserContext(), user, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": http.StatusOK, "data": dto.NewChildList(children)})
}

// Add handles POST /api/child/.
func (h *ChildHandler) Add(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateChildRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	child, err := h.children.Add(c.UserContext(), user, service.AddChildInput{
		Name:           req.Name,
		Age:            req.Age,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "your child details have been added", dto.NewChildResponse(child))
}

// Update handles PATCH /api/child/?child_id=N.
func (h *ChildHandler) Update(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	childID, err := strconv.ParseInt(c.Query("child_id"), 10, 64)
	if err != nil || childID <= 0 {
		return apperrors.NewValidationError("invalid query", map[string]any{"child_id": "must be a positive integer"})
	}
	var req dto.UpdateChildRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	child, err := h.children.Update(c.UserContext(), user, childID, req.ToUpdate())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "your child details have been updated", dto.NewChildResponse(child))
}

func parseChildFilter(c *fiber.Ctx) (domain.ChildFilter, error) {
	filter := domain.ChildFilter{}
	details := map[string]any{}

	if name := strings.TrimSpace(c.Query("name")); name != "" {
		filter.Name = &name
	}
	if ageStr := c.Query("age"); ageStr != "" {
		age, err := strconv.Atoi(ageStr)
		if err != nil || age <= 0 {
			details["age"] = "must be a positive integer"
		} else {
			filter.Age = &age
		}
	}
	for key, dst := range map[string]**time.Time{"start_date": &filter.StartDate, "end_date": &filter.EndDate} {
		val := c.Query(key)
		if val == "" {
			continue
		}
		t, err := time.Parse(dateLayout, val)
		if err != nil {
			details[key] = "must be a date in YYYY-MM-DD format"
			continue
		}
		*dst = &t
	}

	if len(details) > 0 {
		return domain.ChildFilter{}, apperrors.NewValidationError("invalid query", details)
	}
	return filter, nil
}
