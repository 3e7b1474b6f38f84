package application

import (
	"errors"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

type operation struct {
	failure string
}

var (
	opAdd    = operation{failure: "Failed to add item to cart"}
	opUpdate = operation{failure: "Failed to update quantity"}
	opRemove = operation{failure: "Failed to remove item"}
)

// failureMessage converts an operation error into the text kept in the error flag.
// Storefront validation messages are shown verbatim.
func (op operation) failureMessage(err error) string {
	if err == nil {
		return ""
	}
	var rejected *domain.RejectedError
	switch {
	case errors.As(err, &rejected) && rejected.Message() != "":
		return rejected.Message()
	case errors.Is(err, domain.ErrInvalidArgument):
		return err.Error()
	case errors.Is(err, domain.ErrCartNotFound):
		return op.failure + ": your cart is no longer available"
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return op.failure + ": the store is temporarily unavailable, please try again"
	default:
		return op.failure
	}
}
