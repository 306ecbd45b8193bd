package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/parentchild/account-service/internal/domain"
)

// CreateChildRequest payload.
type CreateChildRequest struct {
	Name           string `json:"name"`
	Age            int    `json:"age"`
	AdditionalInfo string `json:"additional_info"`
}

// Validate checks the create payload.
func (r CreateChildRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100), validation.Match(personName)),
		validation.Field(&r.Age, validation.Required, validation.Min(1), validation.Max(150)),
		validation.Field(&r.AdditionalInfo, validation.Length(0, 1000)),
	)
}

// UpdateChildRequest payload for PATCH /api/child/. Empty fields are left unchanged.
type UpdateChildRequest struct {
	Name           string `json:"name"`
	Age            int    `json:"age"`
	AdditionalInfo string `json:"additional_info"`
}

// Validate checks the supplied fields only.
func (r UpdateChildRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 100), validation.Match(personName)),
		validation.Field(&r.Age, validation.Min(1), validation.Max(150)),
		validation.Field(&r.AdditionalInfo, validation.Length(0, 1000)),
	)
}

// ToUpdate converts the request into a domain update command.
func (r UpdateChildRequest) ToUpdate() domain.ChildUpdate {
	return domain.ChildUpdate{
		Name:           optionalString(r.Name),
		Age:            optionalInt(r.Age),
		AdditionalInfo: optionalString(r.AdditionalInfo),
	}
}

// ChildResponse is the public view of a child.
type ChildResponse struct {
	ID             int64     `json:"id"`
	ParentID       int64     `json:"parent_id"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	AdditionalInfo *string   `json:"additional_info"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewChildResponse maps a domain child.
func NewChildResponse(c *domain.Child) ChildResponse {
	return ChildResponse{
		ID:             c.ID,
		ParentID:       c.ParentID,
		Name:           c.Name,
		Age:            c.Age,
		AdditionalInfo: optionalString(c.AdditionalInfo),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// NewChildList maps a slice of children.
func NewChildList(children []domain.Child) []ChildResponse {
	out := make([]ChildResponse, 0, len(children))
	for i := range children {
		out = append(out, NewChildResponse(&children[i]))
	}
	return out
}
