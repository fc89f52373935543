// Package money implements exact decimal amounts for prices and totals.
package money

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"math/big"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// scale is the number of fraction digits amounts are rendered with.
const scale = 2

var decimalCtx = func() *apd.Context {
	c := apd.BaseContext.WithPrecision(34)
	c.Rounding = apd.RoundHalfUp
	return c
}()

// Max is the largest amount a NUMERIC(12,2) column holds.
var Max = MustParse("9999999999.99")

// Amount is an exact decimal value. The zero value is 0.
type Amount struct {
	d apd.Decimal
}

// Zero returns a zero amount.
func Zero() Amount {
	return Amount{}
}

// New builds coeff * 10^exp, e.g. New(999, -2) is 9.99.
func New(coeff int64, exp int32) Amount {
	var a Amount
	a.d.SetFinite(coeff, exp)
	return a
}

// FromBigInt builds coeff * 10^exp from an arbitrary precision coefficient.
func FromBigInt(coeff *big.Int, exp int32) Amount {
	var c apd.BigInt
	c.SetMathBigInt(coeff)
	var a Amount
	a.d.Set(apd.NewWithBigInt(&c, exp))
	return a
}

// Parse reads a decimal string such as "9.99".
func Parse(s string) (Amount, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.Form != apd.Finite {
		return Amount{}, fmt.Errorf("parse amount %q: not a finite number", s)
	}
	var a Amount
	a.d.Set(d)
	return a, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	var out Amount
	if _, err := decimalCtx.Add(&out.d, &a.d, &b.d); err != nil {
		panic(fmt.Sprintf("money: add: %v", err))
	}
	return out
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	var out Amount
	if _, err := decimalCtx.Sub(&out.d, &a.d, &b.d); err != nil {
		panic(fmt.Sprintf("money: sub: %v", err))
	}
	return out
}

// MulInt returns a * n.
func (a Amount) MulInt(n int64) Amount {
	var factor, out Amount
	factor.d.SetInt64(n)
	if _, err := decimalCtx.Mul(&out.d, &a.d, &factor.d); err != nil {
		panic(fmt.Sprintf("money: mul: %v", err))
	}
	return out
}

// Abs returns |a|.
func (a Amount) Abs() Amount {
	var out Amount
	out.d.Abs(&a.d)
	return out
}

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(&b.d)
}

// Equal reports whether a and b have the same value regardless of scale.
func (a Amount) Equal(b Amount) bool {
	return a.Cmp(b) == 0
}

// Sign returns -1, 0 or +1.
func (a Amount) Sign() int {
	return a.d.Sign()
}

// Decimal returns a copy of the underlying decimal.
func (a Amount) Decimal() *apd.Decimal {
	var d apd.Decimal
	d.Set(&a.d)
	return &d
}

// Round returns a rounded half-up to two fraction digits. It fails when the
// rounded value does not fit the working precision.
func (a Amount) Round() (Amount, error) {
	var out Amount
	if _, err := decimalCtx.Quantize(&out.d, &a.d, -scale); err != nil {
		return Amount{}, fmt.Errorf("money: round %s: %w", a.d.Text('f'), err)
	}
	return out, nil
}

// InRange reports whether 0 <= a <= Max.
func (a Amount) InRange() bool {
	return a.Sign() >= 0 && a.Cmp(Max) <= 0
}

// String renders the amount with exactly two fraction digits. Amounts too
// large to round are rendered unrounded.
func (a Amount) String() string {
	r, err := a.Round()
	if err != nil {
		return a.d.Text('f')
	}
	return r.d.Text('f')
}

// MarshalJSON encodes the amount as a JSON number with two fraction digits.
func (a Amount) MarshalJSON() ([]byte, error) {
	r, err := a.Round()
	if err != nil {
		return nil, err
	}
	return []byte(r.d.Text('f')), nil
}

// UnmarshalJSON accepts a JSON number, a numeric string or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}
	data = bytes.Trim(data, `"`)
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Scan implements sql.Scanner so NUMERIC columns decode without float rounding.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Amount{}
		return nil
	case Amount:
		*a = v
		return nil
	case string:
		return a.scanString(v)
	case []byte:
		return a.scanString(string(v))
	case int64:
		*a = New(v, 0)
		return nil
	case float64:
		return a.scanString(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
}

func (a *Amount) scanString(s string) error {
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value implements driver.Valuer and sends the exact decimal text.
func (a Amount) Value() (driver.Value, error) {
	return a.d.Text('f'), nil
}
