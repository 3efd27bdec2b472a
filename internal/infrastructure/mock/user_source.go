package mock

import (
	"context"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
	repo "github.com/oksasatya/go-admin-dashboard/internal/domain/repository"
)

var (
	firstNames = []string{"Alice", "Bob", "Charlie", "Diana", "Evan", "Fiona", "George", "Hannah", "Ian", "Julia", "Kevin", "Luna", "Mike", "Nora", "Oscar"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez"}
	roles      = []string{"Admin", "Editor", "Viewer", "Contributor"}
)

// UserSource generates a fixed-size collection of fake users.
type UserSource struct {
	Count int
	Now   func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewUserSource returns a generator; the same seed yields the same users,
// ids included, so re-seeding a database is idempotent.
func NewUserSource(count int, seed int64) *UserSource {
	return &UserSource{Count: count, Now: time.Now, rnd: rand.New(rand.NewSource(seed))}
}

func (s *UserSource) Fetch(ctx context.Context) ([]entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Generate(), nil
}

// Generate builds Count users created within the last 30 days, about 70% Active.
func (s *UserSource) Generate() []entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now().UTC()
	users := make([]entity.User, 0, s.Count)
	for i := 0; i < s.Count; i++ {
		first := firstNames[s.rnd.Intn(len(firstNames))]
		last := lastNames[s.rnd.Intn(len(lastNames))]
		id := newUserID(s.rnd)

		status := entity.StatusInactive
		if s.rnd.Float64() > 0.3 {
			status = entity.StatusActive
		}

		users = append(users, entity.User{
			ID:         id,
			Name:       first + " " + last,
			Email:      strings.ToLower(first) + "." + strings.ToLower(last) + "@example.com",
			Role:       roles[s.rnd.Intn(len(roles))],
			Status:     status,
			Avatar:     "https://picsum.photos/seed/" + id + "/200/200",
			CreatedAt:  now.AddDate(0, 0, -s.rnd.Intn(30)),
			LastActive: now,
		})
	}
	return users
}

func newUserID(r io.Reader) string {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		id = uuid.New()
	}
	return "usr_" + strings.ReplaceAll(id.String(), "-", "")[:9]
}

var _ repo.UserSource = (*UserSource)(nil)
