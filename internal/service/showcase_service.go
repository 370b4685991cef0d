package service

import (
	"context"
	"strings"

	"github.com/tidecart/internal/constants"
	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/repository"
)

// ShowcaseService 首页展示内容：信任标识与推荐鱼种
type ShowcaseService struct {
	badgeRepo   repository.TrustedBadgeRepository
	fishRepo    repository.FeaturedFishRepository
	productRepo repository.ProductRepository
}

// NewShowcaseService 创建首页展示服务
func NewShowcaseService(badgeRepo repository.TrustedBadgeRepository, fishRepo repository.FeaturedFishRepository, productRepo repository.ProductRepository) *ShowcaseService {
	return &ShowcaseService{badgeRepo: badgeRepo, fishRepo: fishRepo, productRepo: productRepo}
}

// TrustedBadgeInput 信任标识输入
type TrustedBadgeInput struct {
	Title       string
	Description string
	Icon        string
	IsActive    *bool
	SortOrder   int
}

// FeaturedFishInput 推荐鱼种输入
type FeaturedFishInput struct {
	ProductID   *uint
	Name        string
	Description string
	Image       string
	Badge       string
	Price       string
	IsActive    *bool
	SortOrder   int
}

// ListPublicBadges 前台信任标识
func (s *ShowcaseService) ListPublicBadges(ctx context.Context) ([]models.TrustedBadge, error) {
	filter := repository.CatalogListFilter{OnlyActive: true}
	rows, _, err := cachedList(ctx, constants.CacheTrustedBadges, catalogVariant(filter), func() ([]models.TrustedBadge, int64, error) {
		return s.badgeRepo.List(filter)
	})
	return rows, err
}

// ListBadges 后台信任标识列表
func (s *ShowcaseService) ListBadges(filter repository.CatalogListFilter) ([]models.TrustedBadge, int64, error) {
	return s.badgeRepo.List(filter)
}

// CreateBadge 创建信任标识
func (s *ShowcaseService) CreateBadge(ctx context.Context, input TrustedBadgeInput) (*models.TrustedBadge, error) {
	badge := &models.TrustedBadge{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Icon:        strings.TrimSpace(input.Icon),
		IsActive:    boolOr(input.IsActive, true),
		SortOrder:   input.SortOrder,
	}
	if err := s.badgeRepo.Create(badge); err != nil {
		return nil, err
	}
	invalidateCatalog(ctx, constants.CacheTrustedBadges)
	return badge, nil
}

// UpdateBadge 更新信任标识
func (s *ShowcaseService) UpdateBadge(ctx context.Context, id uint, input TrustedBadgeInput) (*models.TrustedBadge, error) {
	badge, err := s.badgeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if badge == nil {
		return nil, ErrNotFound
	}
	badge.Title = strings.TrimSpace(input.Title)
	badge.Description = strings.TrimSpace(input.Description)
	badge.Icon = strings.TrimSpace(input.Icon)
	badge.IsActive = boolOr(input.IsActive, badge.IsActive)
	badge.SortOrder = input.SortOrder
	if err := s.badgeRepo.Update(badge); err != nil {
		return nil, err
	}
	invalidateCatalog(ctx, constants.CacheTrustedBadges)
	return badge, nil
}

// DeleteBadge 删除信任标识
func (s *ShowcaseService) DeleteBadge(ctx context.Context, id uint) error {
	badge, err := s.badgeRepo.GetByID(id)
	if err != nil {
		return err
	}
	if badge == nil {
		return ErrNotFound
	}
	if err := s.badgeRepo.Delete(id); err != nil {
		return err
	}
	invalidateCatalog(ctx, constants.CacheTrustedBadges)
	return nil
}

// ListPublicFeaturedFish 前台推荐鱼种
func (s *ShowcaseService) ListPublicFeaturedFish(ctx context.Context) ([]models.FeaturedFish, error) {
	filter := repository.CatalogListFilter{OnlyActive: true}
	rows, _, err := cachedList(ctx, constants.CacheFeaturedFish, catalogVariant(filter), func() ([]models.FeaturedFish, int64, error) {
		return s.fishRepo.List(filter)
	})
	return rows, err
}

// ListFeaturedFish 后台推荐鱼种列表
func (s *ShowcaseService) ListFeaturedFish(filter repository.CatalogListFilter) ([]models.FeaturedFish, int64, error) {
	return s.fishRepo.List(filter)
}

// CreateFeaturedFish 创建推荐鱼种
func (s *ShowcaseService) CreateFeaturedFish(ctx context.Context, input FeaturedFishInput) (*models.FeaturedFish, error) {
	fish := &models.FeaturedFish{}
	if err := s.applyFish(fish, input); err != nil {
		return nil, err
	}
	fish.IsActive = boolOr(input.IsActive, true)
	if err := s.fishRepo.Create(fish); err != nil {
		return nil, err
	}
	invalidateCatalog(ctx, constants.CacheFeaturedFish)
	return fish, nil
}

// UpdateFeaturedFish 更新推荐鱼种
func (s *ShowcaseService) UpdateFeaturedFish(ctx context.Context, id uint, input FeaturedFishInput) (*models.FeaturedFish, error) {
	fish, err := s.fishRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if fish == nil {
		return nil, ErrNotFound
	}
	if err := s.applyFish(fish, input); err != nil {
		return nil, err
	}
	fish.IsActive = boolOr(input.IsActive, fish.IsActive)
	if err := s.fishRepo.Update(fish); err != nil {
		return nil, err
	}
	invalidateCatalog(ctx, constants.CacheFeaturedFish)
	return fish, nil
}

// DeleteFeaturedFish 删除推荐鱼种
func (s *ShowcaseService) DeleteFeaturedFish(ctx context.Context, id uint) error {
	fish, err := s.fishRepo.GetByID(id)
	if err != nil {
		return err
	}
	if fish == nil {
		return ErrNotFound
	}
	if err := s.fishRepo.Delete(id); err != nil {
		return err
	}
	invalidateCatalog(ctx, constants.CacheFeaturedFish)
	return nil
}

// applyFish 关联商品时，未填写的名称、图片与价格取自商品
func (s *ShowcaseService) applyFish(fish *models.FeaturedFish, input FeaturedFishInput) error {
	price, err := parsePrice(input.Price)
	if err != nil {
		return err
	}
	fish.ProductID = nil
	fish.Name = strings.TrimSpace(input.Name)
	fish.Description = strings.TrimSpace(input.Description)
	fish.Image = strings.TrimSpace(input.Image)
	fish.Badge = strings.TrimSpace(input.Badge)
	fish.PriceAmount = models.NewMoneyFromDecimal(price)
	fish.SortOrder = input.SortOrder

	if input.ProductID != nil && *input.ProductID != 0 {
		product, err := s.productRepo.GetByID(*input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		productID := product.ID
		fish.ProductID = &productID
		if fish.Name == "" {
			fish.Name = product.Name
		}
		if fish.Image == "" {
			fish.Image = product.PrimaryImage()
		}
		if strings.TrimSpace(input.Price) == "" {
			fish.PriceAmount = product.PriceAmount
		}
	}
	if fish.Name == "" {
		return &ValidationError{Err: ErrInvalidInput, Fields: []string{"name"}}
	}
	return nil
}
