package repository

import (
	"github.com/tidecart/internal/models"

	"gorm.io/gorm"
)

// DeliverySlotRepository 配送时段数据访问接口
type DeliverySlotRepository interface {
	List(filter DeliverySlotListFilter) ([]models.DeliverySlot, int64, error)
	GetByID(id uint) (*models.DeliverySlot, error)
	Create(slot *models.DeliverySlot) error
	Update(slot *models.DeliverySlot) error
	Delete(id uint) error
	IncrementBooked(id uint) (int64, error)
	WithTx(tx *gorm.DB) DeliverySlotRepository
}

// GormDeliverySlotRepository GORM 实现
type GormDeliverySlotRepository struct {
	db *gorm.DB
}

// NewDeliverySlotRepository 创建配送时段仓库
func NewDeliverySlotRepository(db *gorm.DB) *GormDeliverySlotRepository {
	return &GormDeliverySlotRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliverySlotRepository) WithTx(tx *gorm.DB) DeliverySlotRepository {
	if tx == nil {
		return r
	}
	return &GormDeliverySlotRepository{db: tx}
}

// List 时段列表，按开始时间排序
func (r *GormDeliverySlotRepository) List(filter DeliverySlotListFilter) ([]models.DeliverySlot, int64, error) {
	query := applyCatalogFilter(r.db.Model(&models.DeliverySlot{}), filter.CatalogListFilter, "display")
	if filter.From != nil {
		query = query.Where("(end_at IS NULL OR end_at > ?)", *filter.From)
	}
	return listPage[models.DeliverySlot](query, filter.Page, filter.PageSize, "sort_order DESC, start_at ASC, id ASC")
}

// GetByID 根据 ID 获取时段
func (r *GormDeliverySlotRepository) GetByID(id uint) (*models.DeliverySlot, error) {
	return firstOrNil[models.DeliverySlot](r.db, id)
}

// Create 创建时段
func (r *GormDeliverySlotRepository) Create(slot *models.DeliverySlot) error {
	return r.db.Create(slot).Error
}

// Update 更新时段
func (r *GormDeliverySlotRepository) Update(slot *models.DeliverySlot) error {
	return r.db.Save(slot).Error
}

// Delete 删除时段
func (r *GormDeliverySlotRepository) Delete(id uint) error {
	return r.db.Delete(&models.DeliverySlot{}, id).Error
}

// IncrementBooked 占用一个名额，容量已满时影响行数为 0
func (r *GormDeliverySlotRepository) IncrementBooked(id uint) (int64, error) {
	result := r.db.Model(&models.DeliverySlot{}).
		Where("id = ? AND is_active = ? AND available = ?", id, true, true).
		Where("(capacity = 0 OR booked < capacity)").
		UpdateColumn("booked", gorm.Expr("booked + ?", 1))
	return result.RowsAffected, result.Error
}
