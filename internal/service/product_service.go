package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidecart/internal/constants"
	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品业务服务
type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{repo: repo, categoryRepo: categoryRepo}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID  uint
	Slug        string
	Name        string
	Description string
	Price       string
	Unit        string
	Images      []string
	Tags        []string
	Origin      string
	InStock     *bool
	IsActive    *bool
	SortOrder   int
}

// ListPublic 前台商品列表（仅上架）
func (s *ProductService) ListPublic(ctx context.Context, filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyActive = true
	filter.WithCategory = true
	variant := fmt.Sprintf("%s:c%d:cs=%s:stock=%t:tag=%s", catalogVariant(filter.CatalogListFilter), filter.CategoryID, filter.CategorySlug, filter.InStockOnly, filter.Tag)
	return cachedList(ctx, constants.CacheProducts, variant, func() ([]models.Product, int64, error) {
		return s.repo.List(filter)
	})
}

// List 后台商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.WithCategory = true
	return s.repo.List(filter)
}

// GetPublicBySlug 前台商品详情
func (s *ProductService) GetPublicBySlug(slug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(normalizeSlug(slug), true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetByID 后台商品详情
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	product := &models.Product{}
	if err := s.apply(product, input, 0); err != nil {
		return nil, err
	}
	product.InStock = boolOr(input.InStock, true)
	product.IsActive = boolOr(input.IsActive, true)
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	invalidateCatalog(ctx, constants.CacheProducts)
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := s.apply(product, input, id); err != nil {
		return nil, err
	}
	product.InStock = boolOr(input.InStock, product.InStock)
	product.IsActive = boolOr(input.IsActive, product.IsActive)
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	invalidateCatalog(ctx, constants.CacheProducts, constants.CacheFeaturedFish)
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	invalidateCatalog(ctx, constants.CacheProducts, constants.CacheFeaturedFish)
	return nil
}

func (s *ProductService) apply(product *models.Product, input ProductInput, excludeID uint) error {
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	slug := normalizeSlug(input.Slug)
	count, err := s.repo.CountBySlug(slug, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	price, err := parsePrice(input.Price)
	if err != nil {
		return err
	}

	product.CategoryID = category.ID
	product.Slug = slug
	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.PriceAmount = models.NewMoneyFromDecimal(price)
	product.Unit = strings.TrimSpace(input.Unit)
	product.Images = models.StringArray(input.Images)
	product.Tags = models.StringArray(input.Tags)
	product.Origin = strings.TrimSpace(input.Origin)
	product.SortOrder = input.SortOrder
	product.Category = nil
	return nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return decimal.Zero, ErrInvalidPrice
	}
	return price, nil
}
