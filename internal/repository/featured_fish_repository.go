package repository

import (
	"github.com/tidecart/internal/models"

	"gorm.io/gorm"
)

// FeaturedFishRepository 推荐鱼种数据访问接口
type FeaturedFishRepository interface {
	List(filter CatalogListFilter) ([]models.FeaturedFish, int64, error)
	GetByID(id uint) (*models.FeaturedFish, error)
	Create(fish *models.FeaturedFish) error
	Update(fish *models.FeaturedFish) error
	Delete(id uint) error
}

// GormFeaturedFishRepository GORM 实现
type GormFeaturedFishRepository struct {
	db *gorm.DB
}

// NewFeaturedFishRepository 创建推荐鱼种仓库
func NewFeaturedFishRepository(db *gorm.DB) *GormFeaturedFishRepository {
	return &GormFeaturedFishRepository{db: db}
}

// List 推荐列表
func (r *GormFeaturedFishRepository) List(filter CatalogListFilter) ([]models.FeaturedFish, int64, error) {
	query := applyCatalogFilter(r.db.Model(&models.FeaturedFish{}), filter, "name")
	return listPage[models.FeaturedFish](query, filter.Page, filter.PageSize, "")
}

// GetByID 根据 ID 获取推荐
func (r *GormFeaturedFishRepository) GetByID(id uint) (*models.FeaturedFish, error) {
	return firstOrNil[models.FeaturedFish](r.db, id)
}

// Create 创建推荐
func (r *GormFeaturedFishRepository) Create(fish *models.FeaturedFish) error {
	return r.db.Create(fish).Error
}

// Update 更新推荐
func (r *GormFeaturedFishRepository) Update(fish *models.FeaturedFish) error {
	return r.db.Save(fish).Error
}

// Delete 删除推荐
func (r *GormFeaturedFishRepository) Delete(id uint) error {
	return r.db.Delete(&models.FeaturedFish{}, id).Error
}
