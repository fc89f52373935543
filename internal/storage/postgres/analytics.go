package postgres

import (
	"context"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/pkg/money"
)

type analyticsRepository struct {
	storage *Storage
}

func (r *analyticsRepository) CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.OrderStatus]int64)
	for rows.Next() {
		var (
			status model.OrderStatus
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// ProfitByOrganization sums line totals of every order, whatever its status.
func (r *analyticsRepository) ProfitByOrganization(ctx context.Context) (map[string]money.Amount, error) {
	const query = `SELECT COALESCE(line->>'organization', ''), SUM((line->>'totalPrice')::numeric)
                   FROM orders CROSS JOIN LATERAL jsonb_array_elements(items) AS line
                   GROUP BY 1`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profit := make(map[string]money.Amount)
	for rows.Next() {
		var (
			org string
			sum money.Amount
		)
		if err := rows.Scan(&org, &sum); err != nil {
			return nil, err
		}
		profit[org] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profit, nil
}
