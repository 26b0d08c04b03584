package ledger

import "errors"

var (
	// ErrInsufficientStock is returned when a movement would take on-hand
	// quantity below zero.
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrUnknownTransactionType = errors.New("unknown transaction type")
)
