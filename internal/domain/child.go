package domain

import "time"

// Child is a record owned by a parent account.
type Child struct {
	ID             int64
	ParentID       int64
	Name           string
	Age            int
	AdditionalInfo string
	IsDeleted      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ChildUpdate carries optional child deltas; nil fields stay unchanged.
type ChildUpdate struct {
	Name           *string
	Age            *int
	AdditionalInfo *string
}

// Empty reports whether the update changes nothing.
func (c ChildUpdate) Empty() bool {
	return c.Name == nil && c.Age == nil && c.AdditionalInfo == nil
}

// ChildFilter narrows a parent's child listing.
type ChildFilter struct {
	Name      *string
	Age       *int
	StartDate *time.Time
	EndDate   *time.Time
}
