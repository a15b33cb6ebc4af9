package repository

import (
	"context"
	"fmt"

	"resume-builder/internal/domain"
)

type UsersRepo struct {
	pool PgxPoolIface
}

func NewUsersRepo(pool PgxPoolIface) *UsersRepo {
	return &UsersRepo{pool: pool}
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return &u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO users (id, email, password_hash, created_at) VALUES ($1,$2,$3,$4)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("pool.Exec: %w", err)
	}
	return nil
}
