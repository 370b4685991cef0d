package public

import (
	"strings"

	handlershared "github.com/tidecart/internal/http/handlers/shared"
	"github.com/tidecart/internal/http/response"
	"github.com/tidecart/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ProductID      uint                   `json:"product_id" binding:"required"`
	Quantity       int                    `json:"quantity"`
	SourceMetadata map[string]interface{} `json:"source_metadata"`
}

// UpdateCartItemRequest 修改数量请求，quantity<=0 移除该行
type UpdateCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// GetCart 获取购物车与金额汇总
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CartService.View(uid)
	if err != nil {
		handlershared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, view)
}

// AddCartItem 加购，同一商品合并数量
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	mutation, err := h.CartService.Add(c.Request.Context(), service.AddCartItemInput{
		UserID:         uid,
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		SourceMetadata: req.SourceMetadata,
	})
	if err != nil {
		handlershared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, cartMutationResponse(c, mutation))
}

// UpdateCartItem 设置购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	mutation, err := h.CartService.SetQuantity(uid, req.ProductID, req.Quantity)
	if err != nil {
		handlershared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, cartMutationResponse(c, mutation))
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseIDParam(c, "product_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.cart_item_invalid", nil)
		return
	}
	view, err := h.CartService.Remove(uid, productID)
	if err != nil {
		handlershared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, view)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(uid); err != nil {
		handlershared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

func cartMutationResponse(c *gin.Context, mutation *service.CartMutation) gin.H {
	data := gin.H{
		"item":    mutation.Item,
		"clamped": mutation.Clamped,
		"cart":    mutation.Cart,
	}
	if mutation.Clamped {
		data["notice"] = strings.TrimSpace(handlershared.Message(c, "notice.quantity_clamped", mutation.MaxQuantity))
	}
	return data
}
