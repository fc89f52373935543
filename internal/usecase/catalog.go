package usecase

import (
	"context"
	"strings"

	"go.uber.org/fx"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/domain/repository"
)

// LabelKind selects one of the label lookup tables.
type LabelKind string

const (
	LabelOrganization LabelKind = "organizations"
	LabelItemType     LabelKind = "itemTypes"
)

// CatalogUseCase manages items, labels and tables. Reads are public,
// mutations require the admin role.
type CatalogUseCase struct {
	items  repository.ItemRepository
	labels map[LabelKind]repository.LabelRepository
	tables repository.TableRepository
}

// CatalogParams lists catalog repositories.
type CatalogParams struct {
	fx.In

	Items         repository.ItemRepository
	Organizations repository.LabelRepository `name:"organizations"`
	ItemTypes     repository.LabelRepository `name:"itemTypes"`
	Tables        repository.TableRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(p CatalogParams) *CatalogUseCase {
	return &CatalogUseCase{
		items: p.Items,
		labels: map[LabelKind]repository.LabelRepository{
			LabelOrganization: p.Organizations,
			LabelItemType:     p.ItemTypes,
		},
		tables: p.Tables,
	}
}

// Items lists items in creation order.
func (u *CatalogUseCase) Items(ctx context.Context) ([]model.Item, error) {
	return u.items.List(ctx)
}

// CreateItem stores a new item.
func (u *CatalogUseCase) CreateItem(ctx context.Context, caller model.Caller, item model.Item) (*model.Item, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	item, err := cleanItem(item)
	if err != nil {
		return nil, err
	}
	return u.items.Create(ctx, item)
}

// UpdateItem replaces the editable fields of an item.
func (u *CatalogUseCase) UpdateItem(ctx context.Context, caller model.Caller, item model.Item) (*model.Item, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := requireID(item.ID); err != nil {
		return nil, err
	}
	item, err := cleanItem(item)
	if err != nil {
		return nil, err
	}
	return u.items.Update(ctx, item)
}

// DeleteItem removes an item and returns its id.
func (u *CatalogUseCase) DeleteItem(ctx context.Context, caller model.Caller, id int64) (int64, error) {
	if err := requireAdmin(caller); err != nil {
		return 0, err
	}
	if err := requireID(id); err != nil {
		return 0, err
	}
	if err := u.items.Delete(ctx, id); err != nil {
		return 0, err
	}
	return id, nil
}

func cleanItem(item model.Item) (model.Item, error) {
	name, err := requireName("name", item.Name)
	if err != nil {
		return item, err
	}
	price, err := cleanPrice("price", item.Price)
	if err != nil {
		return item, err
	}
	item.Name = name
	item.Price = price
	item.Organization = strings.TrimSpace(item.Organization)
	item.Type = strings.TrimSpace(item.Type)
	item.Img = strings.TrimSpace(item.Img)
	return item, nil
}

func (u *CatalogUseCase) labelRepo(kind LabelKind) (repository.LabelRepository, error) {
	repo, ok := u.labels[kind]
	if !ok {
		return nil, invalid("unknown label kind %q", kind)
	}
	return repo, nil
}

// Labels lists organizations or item types by id.
func (u *CatalogUseCase) Labels(ctx context.Context, kind LabelKind) ([]model.Label, error) {
	repo, err := u.labelRepo(kind)
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// CreateLabel stores a new label of the given kind.
func (u *CatalogUseCase) CreateLabel(ctx context.Context, caller model.Caller, kind LabelKind, name string) (*model.Label, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	repo, err := u.labelRepo(kind)
	if err != nil {
		return nil, err
	}
	name, err = requireName("name", name)
	if err != nil {
		return nil, err
	}
	return repo.Create(ctx, name)
}

// RenameLabel changes a label name.
func (u *CatalogUseCase) RenameLabel(ctx context.Context, caller model.Caller, kind LabelKind, id int64, name string) (*model.Label, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	repo, err := u.labelRepo(kind)
	if err != nil {
		return nil, err
	}
	if err := requireID(id); err != nil {
		return nil, err
	}
	name, err = requireName("name", name)
	if err != nil {
		return nil, err
	}
	return repo.Rename(ctx, id, name)
}

// DeleteLabel removes a label. Items referencing it keep the old name.
func (u *CatalogUseCase) DeleteLabel(ctx context.Context, caller model.Caller, kind LabelKind, id int64) (int64, error) {
	if err := requireAdmin(caller); err != nil {
		return 0, err
	}
	repo, err := u.labelRepo(kind)
	if err != nil {
		return 0, err
	}
	if err := requireID(id); err != nil {
		return 0, err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return 0, err
	}
	return id, nil
}

// Tables lists tables by number.
func (u *CatalogUseCase) Tables(ctx context.Context) ([]model.Table, error) {
	return u.tables.List(ctx)
}

// CreateTable stores a table whose id equals its number.
func (u *CatalogUseCase) CreateTable(ctx context.Context, caller model.Caller, number int64) (*model.Table, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := requireTableNumber(number); err != nil {
		return nil, err
	}
	return u.tables.Create(ctx, number)
}

// RenumberTable moves a table's id and number together.
func (u *CatalogUseCase) RenumberTable(ctx context.Context, caller model.Caller, id, number int64) (*model.Table, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := requireID(id); err != nil {
		return nil, err
	}
	if err := requireTableNumber(number); err != nil {
		return nil, err
	}
	return u.tables.Renumber(ctx, id, number)
}

// DeleteTable removes a table.
func (u *CatalogUseCase) DeleteTable(ctx context.Context, caller model.Caller, id int64) (int64, error) {
	if err := requireAdmin(caller); err != nil {
		return 0, err
	}
	if err := requireID(id); err != nil {
		return 0, err
	}
	if err := u.tables.Delete(ctx, id); err != nil {
		return 0, err
	}
	return id, nil
}
