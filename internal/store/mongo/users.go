package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type UsersRepository struct {
	c   *Client
	log *zap.Logger
}

func NewUsersRepository(c *Client, log *zap.Logger) *UsersRepository {
	return &UsersRepository{c: c, log: log}
}

func (r *UsersRepository) CountUsers(ctx context.Context) (int, error) {
	n, err := r.c.collection(usersCollection).CountDocuments(ctx, bson.D{})
	return int(n), err
}
