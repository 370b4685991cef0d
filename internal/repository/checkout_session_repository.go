package repository

import (
	"time"

	"github.com/tidecart/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckoutSessionRepository 结算会话数据访问接口
type CheckoutSessionRepository interface {
	GetByUser(userID uint) (*models.CheckoutSession, error)
	Save(session *models.CheckoutSession) error
	DeleteExpired(before time.Time) (int64, error)
	ReleaseStaleSubmissions(before time.Time) (int64, error)
	WithTx(tx *gorm.DB) CheckoutSessionRepository
}

// GormCheckoutSessionRepository GORM 实现
type GormCheckoutSessionRepository struct {
	db *gorm.DB
}

// NewCheckoutSessionRepository 创建结算会话仓库
func NewCheckoutSessionRepository(db *gorm.DB) *GormCheckoutSessionRepository {
	return &GormCheckoutSessionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCheckoutSessionRepository) WithTx(tx *gorm.DB) CheckoutSessionRepository {
	if tx == nil {
		return r
	}
	return &GormCheckoutSessionRepository{db: tx}
}

// GetByUser 获取用户会话
func (r *GormCheckoutSessionRepository) GetByUser(userID uint) (*models.CheckoutSession, error) {
	return firstOrNil[models.CheckoutSession](r.db.Where("user_id = ?", userID))
}

// Save 按 user_id 写入会话
func (r *GormCheckoutSessionRepository) Save(session *models.CheckoutSession) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"step", "aborted", "address", "selected_slot_id", "payment_method",
			"submitting", "last_error", "order_no", "idempotency_key", "expires_at", "updated_at",
		}),
	}).Create(session).Error
}

// DeleteExpired 清理过期会话
func (r *GormCheckoutSessionRepository) DeleteExpired(before time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", before).Delete(&models.CheckoutSession{})
	return result.RowsAffected, result.Error
}

// ReleaseStaleSubmissions 释放长时间未结束的提交标记
func (r *GormCheckoutSessionRepository) ReleaseStaleSubmissions(before time.Time) (int64, error) {
	result := r.db.Model(&models.CheckoutSession{}).
		Where("submitting = ? AND updated_at < ?", true, before).
		Updates(map[string]interface{}{"submitting": false, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}
