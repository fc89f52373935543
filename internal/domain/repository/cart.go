package repository

import (
	"context"

	"github.com/polkiloo/pocha/internal/domain/model"
)

// CartMutation computes the next cart from the stored one.
type CartMutation func(current model.Cart) (model.Cart, error)

// CartRepository stores the cart embedded in a user record.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*model.Cart, error)
	// Update locks the cart, applies fn and stores the result with the next version.
	Update(ctx context.Context, userID string, fn CartMutation) (*model.Cart, error)
}
