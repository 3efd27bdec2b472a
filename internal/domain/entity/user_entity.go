package entity

import (
	"errors"
	"strings"
	"time"
)

// UserStatus is the account state shown in the admin dashboard.
type UserStatus string

const (
	StatusActive   UserStatus = "Active"
	StatusInactive UserStatus = "Inactive"
)

var ErrInvalidStatus = errors.New("invalid user status")

// ParseUserStatus accepts the two enumerated values, case-insensitively.
func ParseUserStatus(s string) (UserStatus, error) {
	switch {
	case strings.EqualFold(s, string(StatusActive)):
		return StatusActive, nil
	case strings.EqualFold(s, string(StatusInactive)):
		return StatusInactive, nil
	}
	return "", ErrInvalidStatus
}

func (s UserStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// User is one managed account.
// ID and CreatedAt never change once the record exists.
type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Status     UserStatus `json:"status"`
	Avatar     string     `json:"avatar"`
	CreatedAt  time.Time  `json:"created_at"`
	LastActive time.Time  `json:"last_active"`
}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	Name       *string
	Email      *string
	Role       *string
	Status     *UserStatus
	Avatar     *string
	LastActive *time.Time
}

// Empty reports whether the patch sets no field.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Role == nil &&
		p.Status == nil && p.Avatar == nil && p.LastActive == nil
}

// Apply returns a copy of u with the set fields merged in.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.LastActive != nil {
		u.LastActive = *p.LastActive
	}
	return u
}
