package cart

import "errors"

var (
	ErrInvalidItem       = errors.New("invalid cart item")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrItemNotFound      = errors.New("cart item not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrSlotNotFound      = errors.New("delivery slot not found")
	ErrSlotUnavailable   = errors.New("delivery slot unavailable")
	ErrSlotNotSelected   = errors.New("delivery slot not selected")
	ErrAddressIncomplete = errors.New("address incomplete")
)
