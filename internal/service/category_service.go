package service

import (
	"context"
	"strings"

	"github.com/tidecart/internal/constants"
	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Slug        string
	Name        string
	Description string
	Image       string
	IsActive    *bool
	SortOrder   int
}

// ListPublic 前台分类列表（仅启用）
func (s *CategoryService) ListPublic(ctx context.Context, filter repository.CatalogListFilter) ([]models.Category, int64, error) {
	filter.OnlyActive = true
	return cachedList(ctx, constants.CacheCategories, catalogVariant(filter), func() ([]models.Category, int64, error) {
		return s.repo.List(filter)
	})
}

// List 后台分类列表
func (s *CategoryService) List(filter repository.CatalogListFilter) ([]models.Category, int64, error) {
	return s.repo.List(filter)
}

// Create 创建分类
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	slug := normalizeSlug(input.Slug)
	count, err := s.repo.CountBySlug(slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	category := models.Category{
		Slug:        slug,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Image:       strings.TrimSpace(input.Image),
		IsActive:    boolOr(input.IsActive, true),
		SortOrder:   input.SortOrder,
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	invalidateCatalog(ctx, constants.CacheCategories)
	return &category, nil
}

// Update 更新分类
func (s *CategoryService) Update(ctx context.Context, id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	slug := normalizeSlug(input.Slug)
	count, err := s.repo.CountBySlug(slug, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	category.Slug = slug
	category.Name = strings.TrimSpace(input.Name)
	category.Description = strings.TrimSpace(input.Description)
	category.Image = strings.TrimSpace(input.Image)
	category.IsActive = boolOr(input.IsActive, category.IsActive)
	category.SortOrder = input.SortOrder

	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	invalidateCatalog(ctx, constants.CacheCategories, constants.CacheProducts)
	return category, nil
}

// Delete 删除分类，仍有商品时拒绝
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	count, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	invalidateCatalog(ctx, constants.CacheCategories)
	return nil
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
