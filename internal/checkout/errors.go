package checkout

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to the operator. Each one blocks exactly the
// transition that raised it and leaves the order untouched.
var (
	ErrEmptyOrder          = errors.New("order has no items")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrUnknownLineItem     = errors.New("line item not found")
	ErrPaymentNotConfirmed = errors.New("payment has not been confirmed")
	ErrInvalidTransition   = errors.New("action not allowed in current order state")
	ErrCaptureMismatch     = errors.New("completion does not match the pending capture")
)

// ErrDuplicateID is returned by repositories when a create-if-absent write
// finds the key already taken. Finalization uses it to advance the ticket
// sequence and retry.
var ErrDuplicateID = errors.New("identifier already exists")

// ValidationError rejects operator input (missing phone or name, empty
// search query). It maps to a 400 at the HTTP surface.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
