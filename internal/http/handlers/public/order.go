package public

import (
	"strconv"
	"strings"

	handlershared "github.com/tidecart/internal/http/handlers/shared"
	"github.com/tidecart/internal/http/response"
	"github.com/tidecart/internal/repository"
	"github.com/tidecart/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 直接下单请求（不经过向导）
type CreateOrderRequest struct {
	PaymentMethod string             `json:"payment_method" binding:"required"`
	SlotID        uint               `json:"slot_id"`
	Address       cartAddressRequest `json:"address"`
}

// ListOrders 当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	orders, total, err := h.OrderService.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 当前用户订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetByOrderNo(uid, c.Param("order_no"))
	if err != nil {
		handlershared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, order)
}

// CreateOrder 直接下单，支持 Idempotency-Key
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	addr := req.Address.toCart()
	result, err := h.CheckoutService.Checkout(c.Request.Context(), service.CheckoutInput{
		UserID:         uid,
		PaymentMethod:  strings.TrimSpace(req.PaymentMethod),
		IdempotencyKey: idempotencyKey(c),
		Address:        &addr,
		SlotID:         req.SlotID,
	})
	if err != nil {
		var data gin.H
		if result != nil {
			data = gin.H{"result": result}
		}
		handlershared.RespondMappedError(c, err, handlershared.ServiceErrorRules, response.CodeInternal, "error.checkout_failed", data)
		return
	}
	response.Success(c, result)
}
