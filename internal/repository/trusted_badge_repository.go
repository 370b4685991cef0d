package repository

import (
	"github.com/tidecart/internal/models"

	"gorm.io/gorm"
)

// TrustedBadgeRepository 信任徽章数据访问接口
type TrustedBadgeRepository interface {
	List(filter CatalogListFilter) ([]models.TrustedBadge, int64, error)
	GetByID(id uint) (*models.TrustedBadge, error)
	Create(badge *models.TrustedBadge) error
	Update(badge *models.TrustedBadge) error
	Delete(id uint) error
}

// GormTrustedBadgeRepository GORM 实现
type GormTrustedBadgeRepository struct {
	db *gorm.DB
}

// NewTrustedBadgeRepository 创建信任徽章仓库
func NewTrustedBadgeRepository(db *gorm.DB) *GormTrustedBadgeRepository {
	return &GormTrustedBadgeRepository{db: db}
}

// List 徽章列表
func (r *GormTrustedBadgeRepository) List(filter CatalogListFilter) ([]models.TrustedBadge, int64, error) {
	query := applyCatalogFilter(r.db.Model(&models.TrustedBadge{}), filter, "title")
	return listPage[models.TrustedBadge](query, filter.Page, filter.PageSize, "")
}

// GetByID 根据 ID 获取徽章
func (r *GormTrustedBadgeRepository) GetByID(id uint) (*models.TrustedBadge, error) {
	return firstOrNil[models.TrustedBadge](r.db, id)
}

// Create 创建徽章
func (r *GormTrustedBadgeRepository) Create(badge *models.TrustedBadge) error {
	return r.db.Create(badge).Error
}

// Update 更新徽章
func (r *GormTrustedBadgeRepository) Update(badge *models.TrustedBadge) error {
	return r.db.Save(badge).Error
}

// Delete 删除徽章
func (r *GormTrustedBadgeRepository) Delete(id uint) error {
	return r.db.Delete(&models.TrustedBadge{}, id).Error
}
