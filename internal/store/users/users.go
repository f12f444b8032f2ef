package users

import (
	"context"

	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/store"
)

type UsersRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewUsersRepository(db *store.DB, log *zap.Logger) *UsersRepository {
	return &UsersRepository{db: db, log: log}
}

func (r *UsersRepository) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
