package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/domain/repository"
)

type cartRepository struct {
	storage *Storage
}

func (r *cartRepository) Get(ctx context.Context, userID string) (*model.Cart, error) {
	const query = `SELECT cart, cart_version FROM users WHERE id=$1`
	var (
		raw     []byte
		version int64
	)
	err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&raw, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.Cart{UserID: userID, Lines: []model.CartLine{}}, nil
		}
		return nil, err
	}
	lines, err := decodeLines(raw)
	if err != nil {
		return nil, err
	}
	return &model.Cart{UserID: userID, Lines: lines, Version: version}, nil
}

func (r *cartRepository) Update(ctx context.Context, userID string, fn repository.CartMutation) (*model.Cart, error) {
	var result *model.Cart
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const ensureUser = `INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`
		if _, err := tx.Exec(ctx, ensureUser, userID); err != nil {
			return err
		}

		current, err := lockCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		next, err := fn(*current)
		if err != nil {
			return err
		}

		raw, err := encodeLines(next.Lines)
		if err != nil {
			return err
		}

		const update = `UPDATE users SET cart=$2, cart_version=cart_version+1 WHERE id=$1 RETURNING cart_version`
		var version int64
		if err := tx.QueryRow(ctx, update, userID, raw).Scan(&version); err != nil {
			return err
		}
		result = &model.Cart{UserID: userID, Lines: next.Lines, Version: version}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// lockCart reads the cart row with FOR UPDATE. A missing user yields an empty cart.
func lockCart(ctx context.Context, q querier, userID string) (*model.Cart, error) {
	const query = `SELECT cart, cart_version FROM users WHERE id=$1 FOR UPDATE`
	var (
		raw     []byte
		version int64
	)
	if err := q.QueryRow(ctx, query, userID).Scan(&raw, &version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.Cart{UserID: userID, Lines: []model.CartLine{}}, nil
		}
		return nil, err
	}
	lines, err := decodeLines(raw)
	if err != nil {
		return nil, err
	}
	return &model.Cart{UserID: userID, Lines: lines, Version: version}, nil
}
