package usecase

import (
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/pocha/internal/domain/errors"
	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/pkg/money"
)

// totalTolerance is the largest accepted gap between a client total and the
// total recomputed from order lines.
var totalTolerance = money.MustParse("0.01")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domainErrors.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func requireSignedIn(caller model.Caller) error {
	if caller.Anonymous() {
		return domainErrors.ErrUnauthenticated
	}
	return nil
}

func requireAdmin(caller model.Caller) error {
	if err := requireSignedIn(caller); err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return domainErrors.ErrForbidden
	}
	return nil
}

// requireOwner checks that caller acts on its own records.
func requireOwner(caller model.Caller, userID string) error {
	if err := requireSignedIn(caller); err != nil {
		return err
	}
	if userID == "" {
		return invalid("userId is required")
	}
	if caller.ID != userID {
		return domainErrors.ErrIdentityMismatch
	}
	return nil
}

func requireName(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid("%s is required", field)
	}
	return value, nil
}

func requireID(id int64) error {
	if id <= 0 {
		return invalid("id must be positive")
	}
	return nil
}

func requireTableNumber(number int64) error {
	if number < 1 {
		return invalid("table number must be at least 1")
	}
	return nil
}

// cleanPrice rejects negative or oversized prices and rounds to cents.
func cleanPrice(field string, price money.Amount) (money.Amount, error) {
	if price.Sign() < 0 {
		return price, invalid("%s must not be negative", field)
	}
	if !price.InRange() {
		return price, invalid("%s must not exceed %s", field, money.Max)
	}
	rounded, err := price.Round()
	if err != nil {
		return price, invalid("%s: %v", field, err)
	}
	return rounded, nil
}

// checkLinesTotal rejects lines whose line totals or sum do not fit storage.
func checkLinesTotal(lines []model.CartLine) error {
	for i, line := range lines {
		if !line.TotalPrice.InRange() {
			return invalid("line %d: total must not exceed %s", i, money.Max)
		}
	}
	if !model.LinesTotal(lines).InRange() {
		return invalid("total must not exceed %s", money.Max)
	}
	return nil
}

// normalizeLines validates lines, rounds prices to cents and folds duplicate
// item ids.
func normalizeLines(lines []model.CartLine) ([]model.CartLine, error) {
	cleaned := make([]model.CartLine, 0, len(lines))
	for i, line := range lines {
		if line.ItemID <= 0 {
			return nil, invalid("line %d: itemId is required", i)
		}
		if line.Quantity < 1 {
			return nil, invalid("line %d: quantity must be at least 1", i)
		}
		price, err := cleanPrice(fmt.Sprintf("line %d: price", i), line.Price)
		if err != nil {
			return nil, err
		}
		line.Price = price
		line.ItemName = strings.TrimSpace(line.ItemName)
		line.Type = strings.TrimSpace(line.Type)
		line.Organization = strings.TrimSpace(line.Organization)
		cleaned = append(cleaned, line)
	}
	merged := model.MergeCart(nil, cleaned)
	if err := checkLinesTotal(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// checkClientTotal rejects a client total that disagrees with the lines.
func checkClientTotal(client *money.Amount, total money.Amount) error {
	if client == nil {
		return nil
	}
	if client.Sub(total).Abs().Cmp(totalTolerance) > 0 {
		return fmt.Errorf("%w: expected %s, got %s", domainErrors.ErrTotalMismatch, total, client)
	}
	return nil
}
