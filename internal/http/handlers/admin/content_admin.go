package admin

import (
	"time"

	handlershared "github.com/tidecart/internal/http/handlers/shared"
	"github.com/tidecart/internal/http/response"
	"github.com/tidecart/internal/repository"
	"github.com/tidecart/internal/service"

	"github.com/gin-gonic/gin"
)

// PostRequest 文章请求
type PostRequest struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title" binding:"required"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content"`
	Thumbnail   string     `json:"thumbnail"`
	Author      string     `json:"author"`
	Tags        []string   `json:"tags"`
	IsActive    *bool      `json:"is_active"`
	SortOrder   int        `json:"order"`
	PublishedAt *time.Time `json:"published_at"`
}

func (r PostRequest) toInput() service.PostInput {
	return service.PostInput{
		Slug:        r.Slug,
		Title:       r.Title,
		Summary:     r.Summary,
		Content:     r.Content,
		Thumbnail:   r.Thumbnail,
		Author:      r.Author,
		Tags:        r.Tags,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
		PublishedAt: r.PublishedAt,
	}
}

// TrustedBadgeRequest 信任标识请求
type TrustedBadgeRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"order"`
}

// FeaturedFishRequest 推荐鱼种请求，关联商品时名称/图片/价格可留空
type FeaturedFishRequest struct {
	ProductID   *uint  `json:"product_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Badge       string `json:"badge"`
	Price       string `json:"price"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"order"`
}

func (r FeaturedFishRequest) toInput() service.FeaturedFishInput {
	return service.FeaturedFishInput{
		ProductID:   r.ProductID,
		Name:        r.Name,
		Description: r.Description,
		Image:       r.Image,
		Badge:       r.Badge,
		Price:       r.Price,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

// DeliverySlotRequest 配送时段请求
type DeliverySlotRequest struct {
	Display   string     `json:"display" binding:"required"`
	StartAt   *time.Time `json:"start_at"`
	EndAt     *time.Time `json:"end_at"`
	Capacity  int        `json:"capacity"`
	Available *bool      `json:"available"`
	IsActive  *bool      `json:"is_active"`
	SortOrder int        `json:"order"`
}

func (r DeliverySlotRequest) toInput() service.DeliverySlotInput {
	return service.DeliverySlotInput{
		Display:   r.Display,
		StartAt:   r.StartAt,
		EndAt:     r.EndAt,
		Capacity:  r.Capacity,
		Available: r.Available,
		IsActive:  r.IsActive,
		SortOrder: r.SortOrder,
	}
}

// GetPosts 文章列表 (Admin)
func (h *Handler) GetPosts(c *gin.Context) {
	filter := handlershared.CatalogFilterFromQuery(c)
	rows, total, err := h.PostService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	listPage(c, rows, filter.Page, filter.PageSize, total)
}

// CreatePost 创建文章
func (h *Handler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	post, err := h.PostService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, post)
}

// UpdatePost 更新文章
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	post, err := h.PostService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除文章
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.PostService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetTrustedBadges 信任标识列表 (Admin)
func (h *Handler) GetTrustedBadges(c *gin.Context) {
	filter := handlershared.CatalogFilterFromQuery(c)
	rows, total, err := h.ShowcaseService.ListBadges(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	listPage(c, rows, filter.Page, filter.PageSize, total)
}

// CreateTrustedBadge 创建信任标识
func (h *Handler) CreateTrustedBadge(c *gin.Context) {
	var req TrustedBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	badge, err := h.ShowcaseService.CreateBadge(c.Request.Context(), service.TrustedBadgeInput(req))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, badge)
}

// UpdateTrustedBadge 更新信任标识
func (h *Handler) UpdateTrustedBadge(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req TrustedBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	badge, err := h.ShowcaseService.UpdateBadge(c.Request.Context(), id, service.TrustedBadgeInput(req))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, badge)
}

// DeleteTrustedBadge 删除信任标识
func (h *Handler) DeleteTrustedBadge(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ShowcaseService.DeleteBadge(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetFeaturedFish 推荐鱼种列表 (Admin)
func (h *Handler) GetFeaturedFish(c *gin.Context) {
	filter := handlershared.CatalogFilterFromQuery(c)
	rows, total, err := h.ShowcaseService.ListFeaturedFish(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	listPage(c, rows, filter.Page, filter.PageSize, total)
}

// CreateFeaturedFish 创建推荐鱼种
func (h *Handler) CreateFeaturedFish(c *gin.Context) {
	var req FeaturedFishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	fish, err := h.ShowcaseService.CreateFeaturedFish(c.Request.Context(), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, fish)
}

// UpdateFeaturedFish 更新推荐鱼种
func (h *Handler) UpdateFeaturedFish(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req FeaturedFishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	fish, err := h.ShowcaseService.UpdateFeaturedFish(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, fish)
}

// DeleteFeaturedFish 删除推荐鱼种
func (h *Handler) DeleteFeaturedFish(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ShowcaseService.DeleteFeaturedFish(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetDeliverySlots 配送时段列表 (Admin)
func (h *Handler) GetDeliverySlots(c *gin.Context) {
	filter := repository.DeliverySlotListFilter{CatalogListFilter: handlershared.CatalogFilterFromQuery(c)}
	rows, total, err := h.DeliverySlotService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	listPage(c, rows, filter.Page, filter.PageSize, total)
}

// CreateDeliverySlot 创建配送时段
func (h *Handler) CreateDeliverySlot(c *gin.Context) {
	var req DeliverySlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	slot, err := h.DeliverySlotService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, slot)
}

// UpdateDeliverySlot 更新配送时段
func (h *Handler) UpdateDeliverySlot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req DeliverySlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	slot, err := h.DeliverySlotService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, slot)
}

// DeleteDeliverySlot 删除配送时段
func (h *Handler) DeleteDeliverySlot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.DeliverySlotService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
