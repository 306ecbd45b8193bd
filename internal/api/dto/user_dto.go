package dto

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/parentchild/account-service/internal/domain"
)

var personName = regexp.MustCompile(`^[A-Za-z][A-Za-z '-]*$`)

// Column widths of the users table.
const (
	maxNameLen    = 30
	maxPlaceLen   = 50
	maxPinCodeLen = 10
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login payload.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// TokenRequest carries a refresh or activation token.
type TokenRequest struct {
	Token string `json:"token"`
}

// Validate checks the token payload.
func (r TokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
	)
}

// EmailRequest carries a single address.
type EmailRequest struct {
	Email string `json:"email"`
}

// Validate checks the email payload.
func (r EmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// RegisterParentRequest payload for new parents.
type RegisterParentRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate checks the registration payload.
func (r RegisterParentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, maxNameLen), validation.Match(personName)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, maxNameLen), validation.Match(personName)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72), validation.By(strongPassword)),
	)
}

func strongPassword(value interface{}) error {
	pw, _ := value.(string)
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return errors.New("must contain an uppercase letter, a lowercase letter, a digit and one of @$!%*?&")
	}
	return nil
}

// ProfileUpdateRequest payload for PATCH /api/parent/profile/. Empty fields are left unchanged.
type ProfileUpdateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Country   string `json:"country"`
	PinCode   string `json:"pin_code"`
}

// Validate checks the supplied fields only.
func (r ProfileUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(1, maxNameLen), validation.Match(personName)),
		validation.Field(&r.LastName, validation.Length(1, maxNameLen), validation.Match(personName)),
		validation.Field(&r.Age, validation.Min(1), validation.Max(150)),
		validation.Field(&r.Address, validation.Length(0, 255)),
		validation.Field(&r.City, validation.RuneLength(0, maxPlaceLen)),
		validation.Field(&r.Country, validation.RuneLength(0, maxPlaceLen)),
		validation.Field(&r.PinCode, validation.Length(0, maxPinCodeLen)),
	)
}

// ToUpdate converts the request into a domain update command.
func (r ProfileUpdateRequest) ToUpdate() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		FirstName: optionalString(r.FirstName),
		LastName:  optionalString(r.LastName),
		Age:       optionalInt(r.Age),
		Address:   optionalString(r.Address),
		City:      optionalString(r.City),
		Country:   optionalString(r.Country),
		PinCode:   optionalString(r.PinCode),
	}
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	IsParent     bool      `json:"is_parent"`
	Age          *int      `json:"age"`
	Address      *string   `json:"address"`
	City         *string   `json:"city"`
	Country      *string   `json:"country"`
	PinCode      *string   `json:"pin_code"`
	ProfilePhoto *string   `json:"profile_photo"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		IsActive:     u.IsActive,
		IsSuperuser:  u.IsSuperuser,
		IsParent:     u.IsParent,
		Age:          optionalInt(u.Age),
		Address:      optionalString(u.Address),
		City:         optionalString(u.City),
		Country:      optionalString(u.Country),
		PinCode:      optionalString(u.PinCode),
		ProfilePhoto: optionalString(u.ProfilePhoto),
		CreatedAt:    u.CreatedAt,
	}
}

// LoginResponse is returned by POST /api/login/.
type LoginResponse struct {
	Status       int          `json:"status"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	Data         UserResponse `json:"data"`
}

// RefreshResponse is returned by POST /api/refresh/.
type RefreshResponse struct {
	Status    int              `json:"status"`
	TokenType domain.TokenType `json:"token_type"`
	Token     string           `json:"token"`
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
