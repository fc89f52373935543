package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/pocha/internal/domain/errors"
	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/domain/repository"
)

// CartUseCase maintains per-user carts with one line per item id.
type CartUseCase struct {
	carts repository.CartRepository
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository) *CartUseCase {
	return &CartUseCase{carts: carts}
}

// Get returns the caller's cart.
func (u *CartUseCase) Get(ctx context.Context, caller model.Caller, userID string) (*model.Cart, error) {
	if err := requireOwner(caller, userID); err != nil {
		return nil, err
	}
	return u.carts.Get(ctx, userID)
}

// Add merges lines into the stored cart.
func (u *CartUseCase) Add(ctx context.Context, caller model.Caller, userID string, lines []model.CartLine) (*model.Cart, error) {
	if err := requireOwner(caller, userID); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, invalid("at least one line is required")
	}
	additions, err := normalizeLines(lines)
	if err != nil {
		return nil, err
	}

	return u.carts.Update(ctx, userID, func(current model.Cart) (model.Cart, error) {
		current.Lines = model.MergeCart(current.Lines, additions)
		if err := checkLinesTotal(current.Lines); err != nil {
			return current, err
		}
		return current, nil
	})
}

// Replace stores lines as the whole cart. A non-nil version must match the
// stored one.
func (u *CartUseCase) Replace(ctx context.Context, caller model.Caller, userID string, lines []model.CartLine, version *int64) (*model.Cart, error) {
	if err := requireOwner(caller, userID); err != nil {
		return nil, err
	}
	next, err := normalizeLines(lines)
	if err != nil {
		return nil, err
	}

	return u.carts.Update(ctx, userID, func(current model.Cart) (model.Cart, error) {
		if version != nil && *version != current.Version {
			return current, fmt.Errorf("%w: cart version is %d", domainErrors.ErrConflict, current.Version)
		}
		current.Lines = next
		return current, nil
	})
}
