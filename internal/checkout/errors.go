package checkout

import "errors"

var (
	ErrStepInvalid          = errors.New("action not allowed at current checkout step")
	ErrAborted              = errors.New("checkout aborted: cart is empty")
	ErrCompleted            = errors.New("checkout already completed")
	ErrPaymentMethodInvalid = errors.New("payment method not supported")
	ErrSubmitting           = errors.New("order submission in progress")
)
