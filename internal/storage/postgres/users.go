package postgres

import (
	"context"

	domainErrors "github.com/polkiloo/pocha/internal/domain/errors"
	"github.com/polkiloo/pocha/internal/domain/model"
)

type userRepository struct {
	storage *Storage
}

func (r *userRepository) Upsert(ctx context.Context, user model.User) (*model.User, error) {
	const query = `INSERT INTO users (id, name, email, avatar, role) VALUES ($1, $2, $3, $4, $5)
                   ON CONFLICT (id) DO UPDATE
                   SET name = EXCLUDED.name, email = EXCLUDED.email, avatar = EXCLUDED.avatar,
                       role = CASE WHEN EXCLUDED.role = 'admin' THEN EXCLUDED.role ELSE users.role END
                   RETURNING role, created_at`
	role := user.Role
	if role == "" {
		role = model.RoleUser
	}
	err := r.storage.pool.QueryRow(ctx, query, user.ID, user.Name, user.Email, user.Avatar, role).
		Scan(&user.Role, &user.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	const query = `SELECT id, name, email, avatar, role, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Avatar, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *userRepository) SetRole(ctx context.Context, id string, role model.Role) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE users SET role=$2 WHERE id=$1`, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
