package model

import "github.com/polkiloo/pocha/internal/pkg/money"

// CartLine is one entry of a user's cart. TotalPrice is Quantity * Price.
type CartLine struct {
	ItemID       int64
	ItemName     string
	Quantity     int64
	Price        money.Amount
	Type         string
	Organization string
	TotalPrice   money.Amount
}

// Cart is the cart embedded in a user record. Version grows on every write.
type Cart struct {
	UserID  string
	Lines   []CartLine
	Version int64
}

// MergeCart folds additions into current so that every item id appears once.
// Existing lines keep their position and unit price; new ids are appended in
// input order. Every resulting TotalPrice is recomputed.
func MergeCart(current, additions []CartLine) []CartLine {
	merged := make([]CartLine, 0, len(current)+len(additions))
	index := make(map[int64]int, len(current)+len(additions))

	add := func(line CartLine) {
		if i, ok := index[line.ItemID]; ok {
			merged[i].Quantity += line.Quantity
			merged[i].TotalPrice = merged[i].Price.MulInt(merged[i].Quantity)
			return
		}
		line.TotalPrice = line.Price.MulInt(line.Quantity)
		index[line.ItemID] = len(merged)
		merged = append(merged, line)
	}

	for _, line := range current {
		add(line)
	}
	for _, line := range additions {
		add(line)
	}
	return merged
}

// LinesTotal sums TotalPrice over lines.
func LinesTotal(lines []CartLine) money.Amount {
	total := money.Zero()
	for _, line := range lines {
		total = total.Add(line.TotalPrice)
	}
	return total
}
