package repository

import (
	"github.com/tidecart/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository 用户偏好数据访问接口
type PreferenceRepository interface {
	GetByUser(userID uint) (*models.UserPreference, error)
	Save(pref *models.UserPreference) error
}

// GormPreferenceRepository GORM 实现
type GormPreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository 创建偏好仓库
func NewPreferenceRepository(db *gorm.DB) *GormPreferenceRepository {
	return &GormPreferenceRepository{db: db}
}

// GetByUser 获取用户偏好
func (r *GormPreferenceRepository) GetByUser(userID uint) (*models.UserPreference, error) {
	return firstOrNil[models.UserPreference](r.db.Where("user_id = ?", userID))
}

// Save 按 user_id 覆盖写入（后写覆盖先写）
func (r *GormPreferenceRepository) Save(pref *models.UserPreference) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"contact_number", "saved_addresses", "active_location", "updated_at"}),
	}).Create(pref).Error
}
