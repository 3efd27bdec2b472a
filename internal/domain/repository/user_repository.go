package repository

import (
	"context"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
)

// UserSource produces the initial collection, in display insertion order.
type UserSource interface {
	Fetch(ctx context.Context) ([]entity.User, error)
}

// ChangeWriter persists store mutations to a backing system.
type ChangeWriter interface {
	Update(ctx context.Context, u entity.User) error
	Delete(ctx context.Context, id string) error
}
