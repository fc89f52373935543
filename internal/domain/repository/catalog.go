package repository

import (
	"context"

	"github.com/polkiloo/pocha/internal/domain/model"
)

// ItemRepository describes persistence operations with catalog items.
type ItemRepository interface {
	Create(ctx context.Context, item model.Item) (*model.Item, error)
	List(ctx context.Context) ([]model.Item, error)
	Update(ctx context.Context, item model.Item) (*model.Item, error)
	Delete(ctx context.Context, id int64) error
}

// LabelRepository manages a lookup table of unique names.
type LabelRepository interface {
	Create(ctx context.Context, name string) (*model.Label, error)
	List(ctx context.Context) ([]model.Label, error)
	Rename(ctx context.Context, id int64, name string) (*model.Label, error)
	Delete(ctx context.Context, id int64) error
}

// TableRepository manages serving tables.
type TableRepository interface {
	Create(ctx context.Context, number int64) (*model.Table, error)
	List(ctx context.Context) ([]model.Table, error)
	Renumber(ctx context.Context, id, number int64) (*model.Table, error)
	Delete(ctx context.Context, id int64) error
}
