package dto

import "github.com/polkiloo/pocha/internal/pkg/money"

// LineDTO is a cart or order line. TotalPrice is recomputed by the server.
type LineDTO struct {
	ItemID       int64        `json:"itemId"`
	ItemName     string       `json:"itemName"`
	Quantity     int64        `json:"quantity"`
	Price        money.Amount `json:"price"`
	Type         string       `json:"type"`
	Organization string       `json:"organization"`
	TotalPrice   money.Amount `json:"totalPrice"`
}

// CartRequest adds lines to or replaces a cart.
type CartRequest struct {
	UserID  string    `json:"userId"`
	Items   []LineDTO `json:"items"`
	Version *int64    `json:"version,omitempty"`
}

// CartResponse describes a stored cart.
type CartResponse struct {
	UserID  string    `json:"userId"`
	Items   []LineDTO `json:"items"`
	Total   string    `json:"totalPrice"`
	Version int64     `json:"version"`
}
