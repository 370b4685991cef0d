package service

import (
	"errors"
	"strings"

	"github.com/tidecart/internal/cart"
	"github.com/tidecart/internal/checkout"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrSlugExists          = errors.New("slug already exists")
	ErrCategoryInUse       = errors.New("category still has products")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrInvalidCartItem     = errors.New("invalid cart item")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrSlotUnavailable     = errors.New("delivery slot unavailable")
	ErrSlotRequired        = errors.New("delivery slot not selected")
	ErrAddressInvalid      = errors.New("address incomplete")
	ErrPaymentMethod       = errors.New("payment method not supported")
	ErrCheckoutStep        = errors.New("action not allowed at current checkout step")
	ErrCheckoutInFlight    = errors.New("checkout already in progress")
	ErrCheckoutCanceled    = errors.New("checkout canceled")
	ErrCheckoutFailed      = errors.New("checkout failed")
	ErrCheckoutClosed      = errors.New("checkout session closed")
	ErrOrderNotFound       = errors.New("order not found")
	ErrIdempotencyConflict = errors.New("idempotency key belongs to another user")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserDisabled        = errors.New("user disabled")
	ErrEmailExists         = errors.New("email already registered")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrPasswordTooShort    = errors.New("password too short")
	ErrInvalidToken        = errors.New("invalid token")
)

// ValidationError 带字段列表的校验错误
type ValidationError struct {
	Err    error
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationFields 取出校验错误中的字段列表
func ValidationFields(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// fromValidation 将守卫结果转换为服务层错误
func fromValidation(res cart.ValidationResult, mapped error) error {
	if res.Valid() {
		return nil
	}
	if mapped == nil {
		mapped = res.Err
	}
	return &ValidationError{Err: mapped, Fields: res.Fields}
}

var domainErrorRules = []struct {
	from error
	to   error
}{
	{cart.ErrEmptyCart, ErrCartEmpty},
	{checkout.ErrAborted, ErrCartEmpty},
	{cart.ErrSlotNotFound, ErrSlotUnavailable},
	{cart.ErrSlotUnavailable, ErrSlotUnavailable},
	{cart.ErrSlotNotSelected, ErrSlotRequired},
	{cart.ErrAddressIncomplete, ErrAddressInvalid},
	{cart.ErrInvalidItem, ErrInvalidCartItem},
	{cart.ErrInvalidQuantity, ErrInvalidCartItem},
	{cart.ErrItemNotFound, ErrNotFound},
	{checkout.ErrPaymentMethodInvalid, ErrPaymentMethod},
	{checkout.ErrStepInvalid, ErrCheckoutStep},
	{checkout.ErrCompleted, ErrCheckoutClosed},
	{checkout.ErrSubmitting, ErrCheckoutInFlight},
}

// mapDomainError 将购物车/结算领域错误映射为服务层错误
func mapDomainError(err error) error {
	if err == nil {
		return nil
	}
	for _, rule := range domainErrorRules {
		if errors.Is(err, rule.from) {
			return rule.to
		}
	}
	return err
}

// guardError 守卫结果转换为服务层错误，保留字段列表
func guardError(res cart.ValidationResult) error {
	if res.Valid() {
		return nil
	}
	return fromValidation(res, mapDomainError(res.Err))
}

// publicCheckoutErrors 可以原样展示给用户的结算错误
var publicCheckoutErrors = []error{
	ErrCartEmpty,
	ErrSlotUnavailable,
	ErrSlotRequired,
	ErrAddressInvalid,
	ErrPaymentMethod,
	ErrCheckoutStep,
	ErrCheckoutInFlight,
	ErrCheckoutCanceled,
	ErrCheckoutClosed,
	ErrIdempotencyConflict,
	ErrCheckoutFailed,
}

// publicCheckoutError 去掉底层驱动信息，只保留对外的哨兵错误与字段列表
func publicCheckoutError(err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return &ValidationError{Err: publicCheckoutError(ve.Err), Fields: ve.Fields}
	}
	for _, sentinel := range publicCheckoutErrors {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return ErrCheckoutFailed
}
