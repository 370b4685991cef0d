package public

import (
	"strings"

	"github.com/tidecart/internal/cart"
	handlershared "github.com/tidecart/internal/http/handlers/shared"
	"github.com/tidecart/internal/http/response"
	"github.com/tidecart/internal/service"

	"github.com/gin-gonic/gin"
)

// cartAddressRequest 地址表单
type cartAddressRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	IsDefault bool   `json:"is_default"`
}

func (r cartAddressRequest) toCart() cart.Address {
	return cart.Address{
		Name:      r.Name,
		Phone:     r.Phone,
		Address:   r.Address,
		City:      r.City,
		State:     r.State,
		Pincode:   r.Pincode,
		IsDefault: r.IsDefault,
	}
}

// SelectSlotRequest 选择配送时段请求
type SelectSlotRequest struct {
	SlotID uint `json:"slot_id" binding:"required"`
}

// SubmitPaymentRequest 提交支付方式请求
type SubmitPaymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

var checkoutErrorRules = []handlershared.MappedError{
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest, Key: "error.checkout_cart_empty"},
}

func respondCheckout(c *gin.Context, view *service.CheckoutView, err error) {
	if err == nil {
		response.Success(c, view)
		return
	}
	var data gin.H
	if view != nil {
		data = gin.H{"checkout": view}
	}
	rules := handlershared.ConcatMappedErrors(checkoutErrorRules, handlershared.ServiceErrorRules)
	handlershared.RespondMappedError(c, err, rules, response.CodeInternal, "error.checkout_failed", data)
}

// GetCheckout 获取结算向导状态
func (h *Handler) GetCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CheckoutService.Get(c.Request.Context(), uid)
	respondCheckout(c, view, err)
}

// SubmitCheckoutAddress 第 1 步：提交地址
func (h *Handler) SubmitCheckoutAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req cartAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CheckoutService.SubmitAddress(c.Request.Context(), uid, req.toCart())
	respondCheckout(c, view, err)
}

// SelectCheckoutSlot 第 2 步：选择配送时段
func (h *Handler) SelectCheckoutSlot(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req SelectSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CheckoutService.SelectSlot(c.Request.Context(), uid, req.SlotID)
	respondCheckout(c, view, err)
}

// ContinueCheckout 第 2 步进入支付
func (h *Handler) ContinueCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CheckoutService.ContinueToPayment(c.Request.Context(), uid)
	respondCheckout(c, view, err)
}

// BackCheckout 返回上一步
func (h *Handler) BackCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CheckoutService.Back(c.Request.Context(), uid)
	respondCheckout(c, view, err)
}

// ResetCheckout 重新开始结算
func (h *Handler) ResetCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CheckoutService.Reset(c.Request.Context(), uid)
	respondCheckout(c, view, err)
}

// SubmitCheckoutPayment 第 3 步：提交订单，请求取消会中止下单
func (h *Handler) SubmitCheckoutPayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CheckoutService.SubmitPayment(
		c.Request.Context(),
		uid,
		strings.TrimSpace(req.PaymentMethod),
		idempotencyKey(c),
	)
	respondCheckout(c, view, err)
}
