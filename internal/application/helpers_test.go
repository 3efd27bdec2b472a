package application

import (
	"context"
	"fmt"
	"time"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
)

var baseTime = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

type staticSource struct {
	users []entity.User
	err   error
	calls int
}

func (s *staticSource) Fetch(ctx context.Context) ([]entity.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.users, nil
}

// makeUsers builds n users named "User 00".."User n-1", created one hour apart,
// alternating Active/Inactive.
func makeUsers(n int) []entity.User {
	users := make([]entity.User, n)
	for i := range users {
		st := entity.StatusActive
		if i%2 == 1 {
			st = entity.StatusInactive
		}
		users[i] = entity.User{
			ID:        fmt.Sprintf("usr_%03d", i),
			Name:      fmt.Sprintf("User %02d", i),
			Email:     fmt.Sprintf("user%02d@example.com", i),
			Role:      "Viewer",
			Status:    st,
			CreatedAt: baseTime.Add(time.Duration(i) * time.Hour),
		}
	}
	return users
}

func ids(users []entity.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func ptr[T any](v T) *T { return &v }
