package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-admin-dashboard/internal/domain/repository"
)

var (
	errNotFound = errors.New("not found")
)

// UserRepository reads the initial collection from the users table and
// writes store changes back to it.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Fetch returns every user in insertion order.
func (r *UserRepository) Fetch(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, role, status, avatar_url, created_at, last_active
		FROM users
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.User, error) {
		var u entity.User
		var status string
		if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &status, &u.Avatar, &u.CreatedAt, &u.LastActive); err != nil {
			return entity.User{}, err
		}
		st, err := entity.ParseUserStatus(status)
		if err != nil {
			return entity.User{}, err
		}
		u.Status = st
		return u, nil
	})
}

// Insert appends users, keeping existing rows with the same id untouched.
func (r *UserRepository) Insert(ctx context.Context, users []entity.User) (int64, error) {
	batch := &pgx.Batch{}
	for _, u := range users {
		batch.Queue(`
			INSERT INTO users (id, name, email, role, status, avatar_url, created_at, last_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING
		`, u.ID, u.Name, u.Email, u.Role, string(u.Status), u.Avatar, u.CreatedAt, u.LastActive)
	}
	br := r.pool.SendBatch(ctx, batch)
	defer func() { _ = br.Close() }()

	var inserted int64
	for range users {
		tag, err := br.Exec()
		if err != nil {
			return inserted, err
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

func (r *UserRepository) Update(ctx context.Context, u entity.User) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, role = $3, status = $4, avatar_url = $5, last_active = $6
		WHERE id = $7
	`, u.Name, u.Email, u.Role, string(u.Status), u.Avatar, u.LastActive, u.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return errNotFound
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

var (
	_ repository.UserSource   = (*UserRepository)(nil)
	_ repository.ChangeWriter = (*UserRepository)(nil)
)
