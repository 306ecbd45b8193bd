package domain

import (
	"strings"
	"time"
)

// User is a registered account. Parents and administrators share the table.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	IsSuperuser  bool
	IsActive     bool
	IsParent     bool
	IsDeleted    bool
	Age          int
	Address      string
	City         string
	Country      string
	PinCode      string
	ProfilePhoto string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Permitted reports whether the account may use authenticated endpoints.
func (u *User) Permitted() bool {
	return u != nil && u.IsActive && !u.IsDeleted
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ProfileUpdate carries optional profile deltas; nil fields stay unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Age       *int
	Address   *string
	City      *string
	Country   *string
	PinCode   *string
}

// Empty reports whether the update changes nothing.
func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Age == nil &&
		p.Address == nil && p.City == nil && p.Country == nil && p.PinCode == nil
}
