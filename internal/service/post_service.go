package service

import (
	"context"
	"strings"
	"time"

	"github.com/tidecart/internal/constants"
	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/repository"
)

// PostService 博客文章服务
type PostService struct {
	repo repository.PostRepository
}

// NewPostService 创建文章服务
func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{repo: repo}
}

// PostInput 创建/更新文章输入
type PostInput struct {
	Slug        string
	Title       string
	Summary     string
	Content     string
	Thumbnail   string
	Author      string
	Tags        []string
	IsActive    *bool
	SortOrder   int
	PublishedAt *time.Time
}

// ListPublic 前台文章列表（仅已发布）
func (s *PostService) ListPublic(ctx context.Context, filter repository.CatalogListFilter) ([]models.Post, int64, error) {
	filter.OnlyActive = true
	return cachedList(ctx, constants.CachePosts, catalogVariant(filter), func() ([]models.Post, int64, error) {
		return s.repo.List(filter)
	})
}

// List 后台文章列表
func (s *PostService) List(filter repository.CatalogListFilter) ([]models.Post, int64, error) {
	return s.repo.List(filter)
}

// GetPublicBySlug 前台文章详情
func (s *PostService) GetPublicBySlug(slug string) (*models.Post, error) {
	post, err := s.repo.GetBySlug(normalizeSlug(slug), true)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// Create 创建文章
func (s *PostService) Create(ctx context.Context, input PostInput) (*models.Post, error) {
	post := &models.Post{}
	if err := s.apply(post, input, 0); err != nil {
		return nil, err
	}
	post.IsActive = boolOr(input.IsActive, false)
	if post.IsActive && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	invalidateCatalog(ctx, constants.CachePosts)
	return post, nil
}

// Update 更新文章
func (s *PostService) Update(ctx context.Context, id uint, input PostInput) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if err := s.apply(post, input, id); err != nil {
		return nil, err
	}
	post.IsActive = boolOr(input.IsActive, post.IsActive)
	if post.IsActive && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := s.repo.Update(post); err != nil {
		return nil, err
	}
	invalidateCatalog(ctx, constants.CachePosts)
	return post, nil
}

// Delete 删除文章
func (s *PostService) Delete(ctx context.Context, id uint) error {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	invalidateCatalog(ctx, constants.CachePosts)
	return nil
}

func (s *PostService) apply(post *models.Post, input PostInput, excludeID uint) error {
	slug := normalizeSlug(input.Slug)
	count, err := s.repo.CountBySlug(slug, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	post.Slug = slug
	post.Title = strings.TrimSpace(input.Title)
	post.Summary = strings.TrimSpace(input.Summary)
	post.Content = input.Content
	post.Thumbnail = strings.TrimSpace(input.Thumbnail)
	post.Author = strings.TrimSpace(input.Author)
	post.Tags = models.StringArray(input.Tags)
	post.SortOrder = input.SortOrder
	if input.PublishedAt != nil {
		post.PublishedAt = input.PublishedAt
	}
	return nil
}
