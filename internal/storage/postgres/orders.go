package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/domain/repository"
)

const orderColumns = `id, order_number, user_id, user_name, user_email, user_avatar, table_number,
        payment_method, payment_id, items, total_price, status, version, created_at, updated_at`

var orderSortColumns = map[model.OrderSortField]string{
	model.OrderSortCreatedAt:   "created_at",
	model.OrderSortOrderNumber: "order_number",
	model.OrderSortTotalPrice:  "total_price",
	model.OrderSortStatus:      "status",
}

type orderRepository struct {
	storage *Storage
}

func (r *orderRepository) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	created, err := insertOrder(ctx, r.storage.pool, order)
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

func (r *orderRepository) CreateFromCart(ctx context.Context, userID string, draft repository.OrderDraft) (*model.Order, error) {
	var created *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		cart, err := lockCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		order, err := draft(cart.Lines)
		if err != nil {
			return err
		}

		if created, err = insertOrder(ctx, tx, order); err != nil {
			return err
		}

		const clear = `UPDATE users SET cart='[]'::jsonb, cart_version=cart_version+1 WHERE id=$1`
		_, err = tx.Exec(ctx, clear, userID)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

func (r *orderRepository) Get(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status=$%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := &model.OrderPage{Orders: []model.Order{}}
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&page.Total); err != nil {
		return nil, err
	}

	column, ok := orderSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY %s %s, id %s`, orderColumns, where, column, direction, direction)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	orders, err := r.queryOrders(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	page.Orders = orders
	return page, nil
}

func (r *orderRepository) ListAfter(ctx context.Context, afterID int64, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id > $1 ORDER BY id LIMIT $2`
	return r.queryOrders(ctx, query, afterID, limit)
}

func (r *orderRepository) Update(ctx context.Context, id int64, fn repository.OrderMutation) (*model.Order, error) {
	var updated *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1 FOR UPDATE`
		current, err := scanOrder(tx.QueryRow(ctx, query, id))
		if err != nil {
			return err
		}

		next, err := fn(*current)
		if errors.Is(err, repository.ErrNoChange) {
			updated = current
			return nil
		}
		if err != nil {
			return err
		}

		raw, err := encodeLines(next.Items)
		if err != nil {
			return err
		}

		const update = `UPDATE orders
                        SET table_number=$2, payment_method=$3, payment_id=$4, items=$5, total_price=$6,
                            status=$7, version=version+1, updated_at=NOW()
                        WHERE id=$1
                        RETURNING version, updated_at`
		err = tx.QueryRow(ctx, update, id, next.TableNumber, next.PaymentMethod, next.PaymentID, raw, next.TotalPrice, next.Status).
			Scan(&next.Version, &next.UpdatedAt)
		if err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

func (r *orderRepository) Delete(ctx context.Context, ids []int64) ([]int64, error) {
	const query = `WITH deleted AS (DELETE FROM orders WHERE id = ANY($1) RETURNING id)
                   SELECT id FROM deleted ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deleted := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		deleted = append(deleted, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func insertOrder(ctx context.Context, q querier, order model.Order) (*model.Order, error) {
	raw, err := encodeLines(order.Items)
	if err != nil {
		return nil, err
	}
	const query = `INSERT INTO orders (user_id, user_name, user_email, user_avatar, table_number,
                       payment_method, payment_id, items, total_price, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                   RETURNING id, order_number, version, created_at, updated_at`
	err = q.QueryRow(ctx, query, order.UserID, order.UserName, order.UserEmail, order.UserAvatar, order.TableNumber,
		order.PaymentMethod, order.PaymentID, raw, order.TotalPrice, order.Status).
		Scan(&order.ID, &order.OrderNumber, &order.Version, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o   model.Order
		raw []byte
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.UserName, &o.UserEmail, &o.UserAvatar, &o.TableNumber,
		&o.PaymentMethod, &o.PaymentID, &raw, &o.TotalPrice, &o.Status, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if o.Items, err = decodeLines(raw); err != nil {
		return nil, err
	}
	return &o, nil
}
