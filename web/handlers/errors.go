package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kpdgayao/vivita-inventory/analytics"
	"github.com/kpdgayao/vivita-inventory/export"
	"github.com/kpdgayao/vivita-inventory/ledger"
	"github.com/kpdgayao/vivita-inventory/repository"
)

// StatusFor maps a handler error to its HTTP status
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, export.ErrNoTransactions):
		return fiber.StatusNotFound
	case errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, repository.ErrInactiveItem),
		errors.Is(err, repository.ErrDuplicateSKU):
		return fiber.StatusConflict
	case errors.Is(err, repository.ErrInvalidInput),
		errors.Is(err, ledger.ErrInvalidQuantity),
		errors.Is(err, ledger.ErrUnknownTransactionType):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, analytics.ErrUnknownRange):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorBody is the JSON error payload
func ErrorBody(err error, code int) fiber.Map {
	msg := err.Error()
	if code == fiber.StatusInternalServerError {
		msg = "internal server error"
	}
	body := fiber.Map{"error": msg}
	var verr *repository.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	return body
}
