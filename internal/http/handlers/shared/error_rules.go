package shared

import (
	"errors"
	"strings"

	"github.com/tidecart/internal/http/response"
	"github.com/tidecart/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// ServiceErrorRules 服务层通用错误映射。
var ServiceErrorRules = []MappedError{
	{Target: service.ErrAddressInvalid, Code: response.CodeBadRequest, Key: "error.address_invalid"},
	{Target: service.ErrInvalidCartItem, Code: response.CodeBadRequest, Key: "error.cart_item_invalid"},
	{Target: service.ErrInvalidPrice, Code: response.CodeBadRequest, Key: "error.bad_request"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeBadRequest, Key: "error.category_not_found"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeBadRequest, Key: "error.product_unavailable"},
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrSlotRequired, Code: response.CodeBadRequest, Key: "error.slot_required"},
	{Target: service.ErrPaymentMethod, Code: response.CodeBadRequest, Key: "error.payment_method_invalid"},
	{Target: service.ErrCheckoutCanceled, Code: response.CodeBadRequest, Key: "error.checkout_canceled"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_failed"},
	{Target: service.ErrInvalidToken, Code: response.CodeUnauthorized, Key: "error.unauthorized"},
	{Target: service.ErrUserDisabled, Code: response.CodeForbidden, Key: "error.user_disabled"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrSlugExists, Code: response.CodeConflict, Key: "error.slug_exists"},
	{Target: service.ErrCategoryInUse, Code: response.CodeConflict, Key: "error.category_in_use"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrSlotUnavailable, Code: response.CodeConflict, Key: "error.slot_unavailable"},
	{Target: service.ErrCheckoutStep, Code: response.CodeConflict, Key: "error.checkout_step_invalid"},
	{Target: service.ErrCheckoutInFlight, Code: response.CodeConflict, Key: "error.checkout_in_flight"},
	{Target: service.ErrCheckoutClosed, Code: response.CodeConflict, Key: "error.checkout_session_closed"},
	{Target: service.ErrIdempotencyConflict, Code: response.CodeConflict, Key: "error.idempotency_conflict"},
	{Target: service.ErrCheckoutFailed, Code: response.CodeInternal, Key: "error.checkout_failed"},
}

// ConcatMappedErrors 合并多组映射，靠前的规则优先。
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// RespondMappedError 按映射规则返回错误，未命中时使用兜底码并记录原始错误。
// data 会随错误一起返回，例如结算失败时的当前向导状态。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string, data gin.H) {
	for _, rule := range rules {
		if !errors.Is(err, rule.Target) {
			continue
		}
		if fields := service.ValidationFields(err); len(fields) > 0 {
			if data == nil {
				data = gin.H{}
			}
			data["fields"] = fields
			RespondErrorWithData(c, rule.Code, rule.Key, data, nil, strings.Join(fields, ", "))
			return
		}
		if rule.Key == "error.address_invalid" {
			RespondErrorWithData(c, rule.Code, rule.Key, data, nil, "-")
			return
		}
		RespondErrorWithData(c, rule.Code, rule.Key, data, nil)
		return
	}
	RespondErrorWithData(c, fallbackCode, fallbackKey, data, err)
}

// RespondServiceError 使用通用映射返回服务层错误。
func RespondServiceError(c *gin.Context, err error, fallbackKey string) {
	RespondMappedError(c, err, ServiceErrorRules, response.CodeInternal, fallbackKey, nil)
}
