package checkout

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/tidecart/internal/cart"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func addressValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
	return validate
}

// NormalizeAddress 去除首尾空白
func NormalizeAddress(addr cart.Address) cart.Address {
	addr.Name = strings.TrimSpace(addr.Name)
	addr.Phone = strings.TrimSpace(addr.Phone)
	addr.Address = strings.TrimSpace(addr.Address)
	addr.City = strings.TrimSpace(addr.City)
	addr.State = strings.TrimSpace(addr.State)
	addr.Pincode = strings.TrimSpace(addr.Pincode)
	return addr
}

// ValidateAddress 姓名、电话、地址、邮编、城市、省份均为必填
func ValidateAddress(addr cart.Address) cart.ValidationResult {
	addr = NormalizeAddress(addr)
	err := addressValidator().Struct(addr)
	if err == nil {
		return cart.Pass()
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return cart.Fail(cart.ErrAddressIncomplete)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return cart.Fail(cart.ErrAddressIncomplete, fields...)
}

// ValidatePaymentMethod 支付方式非空且在允许列表内（列表为空时只校验非空）
func ValidatePaymentMethod(method string, accepted []string) cart.ValidationResult {
	method = strings.TrimSpace(method)
	if method == "" {
		return cart.Fail(ErrPaymentMethodInvalid, "payment_method")
	}
	if len(accepted) == 0 {
		return cart.Pass()
	}
	for _, m := range accepted {
		if strings.EqualFold(m, method) {
			return cart.Pass()
		}
	}
	return cart.Fail(ErrPaymentMethodInvalid, "payment_method")
}
