package repository

import (
	"context"

	"github.com/polkiloo/pocha/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	// Upsert stores profile fields. An admin role is applied on create and on
	// update; a user role never demotes an existing record.
	Upsert(ctx context.Context, user model.User) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	SetRole(ctx context.Context, id string, role model.Role) error
}
