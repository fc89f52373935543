package model

import (
	"time"

	"github.com/polkiloo/pocha/internal/pkg/money"
)

// Item is a sellable product. Organization and Type are labels copied from the
// lookup tables; no foreign key ties them together.
type Item struct {
	ID           int64
	Name         string
	Price        money.Amount
	Organization string
	Type         string
	Img          string
	CreatedAt    time.Time
}

// Label is a named lookup entity. Organizations and item types share this shape.
type Label struct {
	ID   int64
	Name string
}

// Table is a physical serving location. ID always equals Number.
type Table struct {
	ID     int64
	Number int64
}
