package errors

import "errors"

var (
	ErrAlreadyExists     = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthenticated   = errors.New("not signed in")
	ErrIdentityMismatch  = errors.New("caller does not match requested user")
	ErrForbidden         = errors.New("insufficient role")
	ErrConflict          = errors.New("record was modified concurrently")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTotalMismatch     = errors.New("total price does not match order lines")
	ErrEmptyCart         = errors.New("cart is empty")
)
