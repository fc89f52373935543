package model

import "github.com/polkiloo/pocha/internal/pkg/money"

// OrderCounts is the number of orders per status.
type OrderCounts struct {
	Pending    int64
	InProgress int64
	Complete   int64
	Declined   int64
	Total      int64
}

// ProfitReport sums order line totals, overall and per organization.
type ProfitReport struct {
	Total           money.Amount
	PerOrganization map[string]money.Amount
}
