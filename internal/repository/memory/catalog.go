package memory

import (
	"time"

	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/repository"

	"gorm.io/gorm"
)

// CategoryRepository 内存分类仓库
type CategoryRepository struct {
	rows *table[models.Category]
	// Products 用于 CountProducts，可为空
	Products *ProductRepository
}

// NewCategoryRepository 创建内存分类仓库
func NewCategoryRepository(seed ...models.Category) *CategoryRepository {
	r := &CategoryRepository{rows: newTable(
		func(c *models.Category) uint { return c.ID },
		func(c *models.Category, id uint) { c.ID = id },
		func(c *models.Category, now time.Time) { stamp(&c.CreatedAt, &c.UpdatedAt, now) },
	)}
	for i := range seed {
		r.rows.insert(&seed[i])
	}
	return r
}

func (r *CategoryRepository) List(filter repository.CatalogListFilter) ([]models.Category, int64, error) {
	rows, total := r.rows.list(func(c *models.Category) bool {
		return activeMatch(filter, c.IsActive) && containsFold(filter.Search, c.Name, c.Slug)
	}, func(a, b *models.Category) bool {
		return bySortOrder(a.SortOrder, b.SortOrder, a.ID, b.ID)
	}, filter.Page, filter.PageSize)
	return rows, total, nil
}

func (r *CategoryRepository) GetByID(id uint) (*models.Category, error) {
	return r.rows.get(id), nil
}

func (r *CategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	return r.rows.find(func(c *models.Category) bool { return c.Slug == slug }), nil
}

func (r *CategoryRepository) Create(category *models.Category) error {
	r.rows.insert(category)
	return nil
}

func (r *CategoryRepository) Update(category *models.Category) error {
	r.rows.save(category)
	return nil
}

func (r *CategoryRepository) Delete(id uint) error {
	r.rows.remove(id)
	return nil
}

func (r *CategoryRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	return r.rows.count(func(c *models.Category) bool { return c.Slug == slug && c.ID != excludeID }), nil
}

func (r *CategoryRepository) CountProducts(categoryID uint) (int64, error) {
	if r.Products == nil {
		return 0, nil
	}
	return r.Products.rows.count(func(p *models.Product) bool { return p.CategoryID == categoryID }), nil
}

// ProductRepository 内存商品仓库
type ProductRepository struct {
	rows       *table[models.Product]
	categories *CategoryRepository
}

// NewProductRepository 创建内存商品仓库，categories 用于按 slug 过滤与预加载
func NewProductRepository(categories *CategoryRepository, seed ...models.Product) *ProductRepository {
	r := &ProductRepository{
		rows: newTable(
			func(p *models.Product) uint { return p.ID },
			func(p *models.Product, id uint) { p.ID = id },
			func(p *models.Product, now time.Time) { stamp(&p.CreatedAt, &p.UpdatedAt, now) },
		),
		categories: categories,
	}
	if categories != nil {
		categories.Products = r
	}
	for i := range seed {
		r.rows.insert(&seed[i])
	}
	return r
}

func (r *ProductRepository) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	var slugCategoryID uint
	if filter.CategorySlug != "" {
		if r.categories == nil {
			return []models.Product{}, 0, nil
		}
		category, _ := r.categories.GetBySlug(filter.CategorySlug)
		if category == nil {
			return []models.Product{}, 0, nil
		}
		slugCategoryID = category.ID
	}
	rows, total := r.rows.list(func(p *models.Product) bool {
		if !activeMatch(filter.CatalogListFilter, p.IsActive) || !containsFold(filter.Search, p.Name, p.Slug) {
			return false
		}
		if filter.CategoryID != 0 && p.CategoryID != filter.CategoryID {
			return false
		}
		if slugCategoryID != 0 && p.CategoryID != slugCategoryID {
			return false
		}
		if filter.Tag != "" && !hasTag(p.Tags, filter.Tag) {
			return false
		}
		return !filter.InStockOnly || p.InStock
	}, func(a, b *models.Product) bool {
		return bySortOrder(a.SortOrder, b.SortOrder, a.ID, b.ID)
	}, filter.Page, filter.PageSize)
	if filter.WithCategory {
		for i := range rows {
			r.attachCategory(&rows[i])
		}
	}
	return rows, total, nil
}

func (r *ProductRepository) GetByID(id uint) (*models.Product, error) {
	product := r.rows.get(id)
	r.attachCategory(product)
	return product, nil
}

func (r *ProductRepository) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	product := r.rows.find(func(p *models.Product) bool {
		return p.Slug == slug && (!onlyActive || p.IsActive)
	})
	r.attachCategory(product)
	return product, nil
}

func (r *ProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	wanted := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	rows, _ := r.rows.list(func(p *models.Product) bool {
		_, ok := wanted[p.ID]
		return ok
	}, nil, 0, 0)
	return rows, nil
}

func (r *ProductRepository) Create(product *models.Product) error {
	r.rows.insert(product)
	return nil
}

func (r *ProductRepository) Update(product *models.Product) error {
	stored := *product
	stored.Category = nil
	r.rows.save(&stored)
	product.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *ProductRepository) Delete(id uint) error {
	r.rows.remove(id)
	return nil
}

func (r *ProductRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	return r.rows.count(func(p *models.Product) bool { return p.Slug == slug && p.ID != excludeID }), nil
}

func (r *ProductRepository) attachCategory(product *models.Product) {
	if product == nil || r.categories == nil {
		return
	}
	product.Category = r.categories.rows.get(product.CategoryID)
}

// PostRepository 内存文章仓库
type PostRepository struct {
	rows *table[models.Post]
}

// NewPostRepository 创建内存文章仓库
func NewPostRepository(seed ...models.Post) *PostRepository {
	r := &PostRepository{rows: newTable(
		func(p *models.Post) uint { return p.ID },
		func(p *models.Post, id uint) { p.ID = id },
		func(p *models.Post, now time.Time) { stamp(&p.CreatedAt, &p.UpdatedAt, now) },
	)}
	for i := range seed {
		r.rows.insert(&seed[i])
	}
	return r
}

func (r *PostRepository) List(filter repository.CatalogListFilter) ([]models.Post, int64, error) {
	rows, total := r.rows.list(func(p *models.Post) bool {
		return activeMatch(filter, p.IsActive) && containsFold(filter.Search, p.Title, p.Slug, p.Summary)
	}, func(a, b *models.Post) bool {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder > b.SortOrder
		}
		if pa, pb := publishedUnix(a.PublishedAt), publishedUnix(b.PublishedAt); pa != pb {
			return pa > pb
		}
		return a.ID > b.ID
	}, filter.Page, filter.PageSize)
	return rows, total, nil
}

func (r *PostRepository) GetByID(id uint) (*models.Post, error) {
	return r.rows.get(id), nil
}

func (r *PostRepository) GetBySlug(slug string, onlyActive bool) (*models.Post, error) {
	return r.rows.find(func(p *models.Post) bool {
		return p.Slug == slug && (!onlyActive || p.IsActive)
	}), nil
}

func (r *PostRepository) Create(post *models.Post) error {
	r.rows.insert(post)
	return nil
}

func (r *PostRepository) Update(post *models.Post) error {
	r.rows.save(post)
	return nil
}

func (r *PostRepository) Delete(id uint) error {
	r.rows.remove(id)
	return nil
}

func (r *PostRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	return r.rows.count(func(p *models.Post) bool { return p.Slug == slug && p.ID != excludeID }), nil
}

// TrustedBadgeRepository 内存信任标识仓库
type TrustedBadgeRepository struct {
	rows *table[models.TrustedBadge]
}

// NewTrustedBadgeRepository 创建内存信任标识仓库
func NewTrustedBadgeRepository(seed ...models.TrustedBadge) *TrustedBadgeRepository {
	r := &TrustedBadgeRepository{rows: newTable(
		func(b *models.TrustedBadge) uint { return b.ID },
		func(b *models.TrustedBadge, id uint) { b.ID = id },
		func(b *models.TrustedBadge, now time.Time) { stamp(&b.CreatedAt, &b.UpdatedAt, now) },
	)}
	for i := range seed {
		r.rows.insert(&seed[i])
	}
	return r
}

func (r *TrustedBadgeRepository) List(filter repository.CatalogListFilter) ([]models.TrustedBadge, int64, error) {
	rows, total := r.rows.list(func(b *models.TrustedBadge) bool {
		return activeMatch(filter, b.IsActive) && containsFold(filter.Search, b.Title)
	}, func(a, b *models.TrustedBadge) bool {
		return bySortOrder(a.SortOrder, b.SortOrder, a.ID, b.ID)
	}, filter.Page, filter.PageSize)
	return rows, total, nil
}

func (r *TrustedBadgeRepository) GetByID(id uint) (*models.TrustedBadge, error) {
	return r.rows.get(id), nil
}

func (r *TrustedBadgeRepository) Create(badge *models.TrustedBadge) error {
	r.rows.insert(badge)
	return nil
}

func (r *TrustedBadgeRepository) Update(badge *models.TrustedBadge) error {
	r.rows.save(badge)
	return nil
}

func (r *TrustedBadgeRepository) Delete(id uint) error {
	r.rows.remove(id)
	return nil
}

// FeaturedFishRepository 内存推荐鱼种仓库
type FeaturedFishRepository struct {
	rows *table[models.FeaturedFish]
}

// NewFeaturedFishRepository 创建内存推荐鱼种仓库
func NewFeaturedFishRepository(seed ...models.FeaturedFish) *FeaturedFishRepository {
	r := &FeaturedFishRepository{rows: newTable(
		func(f *models.FeaturedFish) uint { return f.ID },
		func(f *models.FeaturedFish, id uint) { f.ID = id },
		func(f *models.FeaturedFish, now time.Time) { stamp(&f.CreatedAt, &f.UpdatedAt, now) },
	)}
	for i := range seed {
		r.rows.insert(&seed[i])
	}
	return r
}

func (r *FeaturedFishRepository) List(filter repository.CatalogListFilter) ([]models.FeaturedFish, int64, error) {
	rows, total := r.rows.list(func(f *models.FeaturedFish) bool {
		return activeMatch(filter, f.IsActive) && containsFold(filter.Search, f.Name, f.Badge)
	}, func(a, b *models.FeaturedFish) bool {
		return bySortOrder(a.SortOrder, b.SortOrder, a.ID, b.ID)
	}, filter.Page, filter.PageSize)
	return rows, total, nil
}

func (r *FeaturedFishRepository) GetByID(id uint) (*models.FeaturedFish, error) {
	return r.rows.get(id), nil
}

func (r *FeaturedFishRepository) Create(fish *models.FeaturedFish) error {
	r.rows.insert(fish)
	return nil
}

func (r *FeaturedFishRepository) Update(fish *models.FeaturedFish) error {
	r.rows.save(fish)
	return nil
}

func (r *FeaturedFishRepository) Delete(id uint) error {
	r.rows.remove(id)
	return nil
}

// DeliverySlotRepository 内存配送时段仓库
type DeliverySlotRepository struct {
	rows *table[models.DeliverySlot]
}

// NewDeliverySlotRepository 创建内存配送时段仓库
func NewDeliverySlotRepository(seed ...models.DeliverySlot) *DeliverySlotRepository {
	r := &DeliverySlotRepository{rows: newTable(
		func(s *models.DeliverySlot) uint { return s.ID },
		func(s *models.DeliverySlot, id uint) { s.ID = id },
		func(s *models.DeliverySlot, now time.Time) { stamp(&s.CreatedAt, &s.UpdatedAt, now) },
	)}
	for i := range seed {
		r.rows.insert(&seed[i])
	}
	return r
}

func (r *DeliverySlotRepository) List(filter repository.DeliverySlotListFilter) ([]models.DeliverySlot, int64, error) {
	rows, total := r.rows.list(func(s *models.DeliverySlot) bool {
		if !activeMatch(filter.CatalogListFilter, s.IsActive) || !containsFold(filter.Search, s.Display) {
			return false
		}
		return filter.From == nil || s.EndAt == nil || s.EndAt.After(*filter.From)
	}, func(a, b *models.DeliverySlot) bool {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder > b.SortOrder
		}
		if sa, sb := publishedUnix(a.StartAt), publishedUnix(b.StartAt); sa != sb {
			return sa < sb
		}
		return a.ID < b.ID
	}, filter.Page, filter.PageSize)
	return rows, total, nil
}

func (r *DeliverySlotRepository) GetByID(id uint) (*models.DeliverySlot, error) {
	return r.rows.get(id), nil
}

func (r *DeliverySlotRepository) Create(slot *models.DeliverySlot) error {
	r.rows.insert(slot)
	return nil
}

func (r *DeliverySlotRepository) Update(slot *models.DeliverySlot) error {
	r.rows.save(slot)
	return nil
}

func (r *DeliverySlotRepository) Delete(id uint) error {
	r.rows.remove(id)
	return nil
}

// WithTx 内存实现无事务，返回自身
func (r *DeliverySlotRepository) WithTx(_ *gorm.DB) repository.DeliverySlotRepository {
	return r
}

func (r *DeliverySlotRepository) IncrementBooked(id uint) (int64, error) {
	ok := r.rows.mutate(id, func(s *models.DeliverySlot) bool {
		if !s.IsActive || !s.Available || (s.Capacity > 0 && s.Booked >= s.Capacity) {
			return false
		}
		s.Booked++
		return true
	})
	if !ok {
		return 0, nil
	}
	return 1, nil
}

func activeMatch(filter repository.CatalogListFilter, isActive bool) bool {
	return !filter.OnlyActive || isActive
}

func stamp(createdAt, updatedAt *time.Time, now time.Time) {
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

func publishedUnix(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixNano()
}

var (
	_ repository.CategoryRepository     = (*CategoryRepository)(nil)
	_ repository.ProductRepository      = (*ProductRepository)(nil)
	_ repository.PostRepository         = (*PostRepository)(nil)
	_ repository.TrustedBadgeRepository = (*TrustedBadgeRepository)(nil)
	_ repository.FeaturedFishRepository = (*FeaturedFishRepository)(nil)
	_ repository.DeliverySlotRepository = (*DeliverySlotRepository)(nil)
)

func hasTag(tags models.StringArray, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
