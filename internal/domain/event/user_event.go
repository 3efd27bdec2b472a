package event

import (
	"time"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
)

const (
	TypeUsersLoaded = "users.loaded"
	TypeUserUpdated = "user.updated"
	TypeUserDeleted = "user.deleted"
)

// UserEvent is the message published for every store change.
// Users is only set for TypeUsersLoaded, User only for TypeUserUpdated.
type UserEvent struct {
	Type       string        `json:"type"`
	UserID     string        `json:"user_id,omitempty"`
	User       *entity.User  `json:"user,omitempty"`
	Users      []entity.User `json:"users,omitempty"`
	Version    uint64        `json:"version"`
	OccurredAt time.Time     `json:"occurred_at"`
}
