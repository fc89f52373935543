package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/pkg/money"
)

// lineRecord is the JSONB shape of cart and order lines. Analytics queries
// read the organization and totalPrice keys directly.
type lineRecord struct {
	ItemID       int64        `json:"itemId"`
	ItemName     string       `json:"itemName"`
	Quantity     int64        `json:"quantity"`
	Price        money.Amount `json:"price"`
	Type         string       `json:"type"`
	Organization string       `json:"organization"`
	TotalPrice   money.Amount `json:"totalPrice"`
}

func encodeLines(lines []model.CartLine) ([]byte, error) {
	records := make([]lineRecord, 0, len(lines))
	for _, l := range lines {
		records = append(records, lineRecord{
			ItemID:       l.ItemID,
			ItemName:     l.ItemName,
			Quantity:     l.Quantity,
			Price:        l.Price,
			Type:         l.Type,
			Organization: l.Organization,
			TotalPrice:   l.TotalPrice,
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode lines: %w", err)
	}
	return data, nil
}

func decodeLines(data []byte) ([]model.CartLine, error) {
	if len(data) == 0 {
		return []model.CartLine{}, nil
	}
	var records []lineRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode lines: %w", err)
	}
	lines := make([]model.CartLine, 0, len(records))
	for _, r := range records {
		lines = append(lines, model.CartLine{
			ItemID:       r.ItemID,
			ItemName:     r.ItemName,
			Quantity:     r.Quantity,
			Price:        r.Price,
			Type:         r.Type,
			Organization: r.Organization,
			TotalPrice:   r.TotalPrice,
		})
	}
	return lines, nil
}
