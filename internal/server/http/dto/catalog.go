package dto

import (
	"time"

	"github.com/polkiloo/pocha/internal/pkg/money"
)

// ItemRequest is the create/edit payload of an item. ID is ignored on create.
type ItemRequest struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Price        money.Amount `json:"price"`
	Organization string       `json:"organization"`
	Type         string       `json:"type"`
	Img          string       `json:"img"`
}

// ItemResponse describes a catalog item.
type ItemResponse struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Price        money.Amount `json:"price"`
	Organization string       `json:"organization"`
	Type         string       `json:"type"`
	Img          string       `json:"img"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// LabelRequest is the create/edit payload of an organization or item type.
type LabelRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LabelResponse describes an organization or item type.
type LabelResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TableRequest is the create/edit payload of a table.
type TableRequest struct {
	ID     int64 `json:"id"`
	Number int64 `json:"number"`
}

// TableResponse describes a serving table.
type TableResponse struct {
	ID     int64 `json:"id"`
	Number int64 `json:"number"`
}

// DeleteRequest names the record to delete.
type DeleteRequest struct {
	ID int64 `json:"id"`
}

// DeleteResponse echoes the removed id.
type DeleteResponse struct {
	DeletedID int64 `json:"deletedId"`
}
