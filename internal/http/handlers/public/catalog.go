package public

import (
	"strings"
	"time"

	handlershared "github.com/tidecart/internal/http/handlers/shared"
	"github.com/tidecart/internal/http/response"
	"github.com/tidecart/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetCategories 前台分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	filter := handlershared.CatalogFilterFromQuery(c)
	rows, total, err := h.CategoryService.ListPublic(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(filter.Page, filter.PageSize, total))
}

// GetProducts 前台商品列表，支持 category_id / category / tag 与 in_stock 筛选
func (h *Handler) GetProducts(c *gin.Context) {
	filter := repository.ProductListFilter{
		CatalogListFilter: handlershared.CatalogFilterFromQuery(c),
		CategorySlug:      strings.TrimSpace(c.Query("category")),
		InStockOnly:       c.Query("in_stock") == "true",
		Tag:               strings.TrimSpace(c.Query("tag")),
		WithCategory:      true,
	}
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		id, ok := handlershared.ParseUintQuery(raw)
		if !ok {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		filter.CategoryID = id
	}
	rows, total, err := h.ProductService.ListPublic(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(filter.Page, filter.PageSize, total))
}

// GetProduct 前台商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.ProductService.GetPublicBySlug(c.Param("slug"))
	if err != nil {
		handlershared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, product)
}

// GetPosts 前台文章列表
func (h *Handler) GetPosts(c *gin.Context) {
	filter := handlershared.CatalogFilterFromQuery(c)
	rows, total, err := h.PostService.ListPublic(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(filter.Page, filter.PageSize, total))
}

// GetPost 前台文章详情
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.PostService.GetPublicBySlug(c.Param("slug"))
	if err != nil {
		handlershared.RespondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, post)
}

// GetTrustedBadges 信任标识
func (h *Handler) GetTrustedBadges(c *gin.Context) {
	rows, err := h.ShowcaseService.ListPublicBadges(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, rows)
}

// GetFeaturedFish 推荐鱼种
func (h *Handler) GetFeaturedFish(c *gin.Context) {
	rows, err := h.ShowcaseService.ListPublicFeaturedFish(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, rows)
}

// GetDeliverySlots 可选配送时段
func (h *Handler) GetDeliverySlots(c *gin.Context) {
	slots, err := h.DeliverySlotService.ListPublic(time.Now())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, slots)
}
