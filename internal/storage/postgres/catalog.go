package postgres

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/pocha/internal/domain/errors"
	"github.com/polkiloo/pocha/internal/domain/model"
)

type itemRepository struct {
	storage *Storage
}

type labelRepository struct {
	storage *Storage
	table   string
}

type tableRepository struct {
	storage *Storage
}

// --- ItemRepository implementation ---

func (r *itemRepository) Create(ctx context.Context, item model.Item) (*model.Item, error) {
	const query = `INSERT INTO items (name, price, organization, type, img) VALUES ($1, $2, $3, $4, $5)
                   RETURNING id, created_at`
	err := r.storage.pool.QueryRow(ctx, query, item.Name, item.Price, item.Organization, item.Type, item.Img).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context) ([]model.Item, error) {
	const query = `SELECT id, name, price, organization, type, img, created_at FROM items ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Organization, &it.Type, &it.Img, &it.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *itemRepository) Update(ctx context.Context, item model.Item) (*model.Item, error) {
	const query = `UPDATE items SET name=$2, price=$3, organization=$4, type=$5, img=$6 WHERE id=$1
                   RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query, item.ID, item.Name, item.Price, item.Organization, item.Type, item.Img).
		Scan(&item.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &item, nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.storage, "items", id)
}

// --- LabelRepository implementation ---

func (r *labelRepository) Create(ctx context.Context, name string) (*model.Label, error) {
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id`, r.table)
	label := model.Label{Name: name}
	if err := r.storage.pool.QueryRow(ctx, query, name).Scan(&label.ID); err != nil {
		return nil, mapError(err)
	}
	return &label, nil
}

func (r *labelRepository) List(ctx context.Context) ([]model.Label, error) {
	rows, err := r.storage.pool.Query(ctx, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY id`, r.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Label{}
	for rows.Next() {
		var l model.Label
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *labelRepository) Rename(ctx context.Context, id int64, name string) (*model.Label, error) {
	query := fmt.Sprintf(`UPDATE %s SET name=$2 WHERE id=$1 RETURNING id`, r.table)
	label := model.Label{Name: name}
	if err := r.storage.pool.QueryRow(ctx, query, id, name).Scan(&label.ID); err != nil {
		return nil, mapError(err)
	}
	return &label, nil
}

func (r *labelRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.storage, r.table, id)
}

// --- TableRepository implementation ---

func (r *tableRepository) Create(ctx context.Context, number int64) (*model.Table, error) {
	const query = `INSERT INTO serving_tables (id, number) VALUES ($1, $1) RETURNING id, number`
	var t model.Table
	if err := r.storage.pool.QueryRow(ctx, query, number).Scan(&t.ID, &t.Number); err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (r *tableRepository) List(ctx context.Context) ([]model.Table, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT id, number FROM serving_tables ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Table{}
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.Number); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Renumber moves id and number together so they never diverge.
func (r *tableRepository) Renumber(ctx context.Context, id, number int64) (*model.Table, error) {
	const query = `UPDATE serving_tables SET id=$2, number=$2 WHERE id=$1 RETURNING id, number`
	var t model.Table
	if err := r.storage.pool.QueryRow(ctx, query, id, number).Scan(&t.ID, &t.Number); err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (r *tableRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.storage, "serving_tables", id)
}

func deleteByID(ctx context.Context, s *Storage, table string, id int64) error {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
