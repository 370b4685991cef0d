package models

import (
	"time"

	"github.com/tidecart/internal/cart"

	"gorm.io/gorm"
)

// DeliverySlot 配送时段
type DeliverySlot struct {
	ID        uint           `gorm:"primarykey" json:"id"`                      // 主键
	Display   string         `gorm:"type:varchar(120);not null" json:"display"` // 展示文案
	StartAt   *time.Time     `gorm:"index" json:"start_at"`                     // 开始时间
	EndAt     *time.Time     `json:"end_at"`                                    // 结束时间
	Capacity  int            `gorm:"not null;default:0" json:"capacity"`        // 容量（0 表示不限）
	Booked    int            `gorm:"not null;default:0" json:"booked"`          // 已预订
	Available bool           `gorm:"not null;index" json:"available"`           // 是否可选
	IsActive  bool           `gorm:"not null;index" json:"is_active"`           // 是否启用
	SortOrder int            `gorm:"default:0;index" json:"order"`              // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间
}

// TableName 指定表名
func (DeliverySlot) TableName() string {
	return "delivery_slots"
}

// IsSelectable 启用、标记可用且未约满
func (s *DeliverySlot) IsSelectable(now time.Time) bool {
	if s == nil || !s.IsActive || !s.Available {
		return false
	}
	if s.Capacity > 0 && s.Booked >= s.Capacity {
		return false
	}
	if s.EndAt != nil && !s.EndAt.After(now) {
		return false
	}
	return true
}

// ToCartSlot 转换为结算使用的时段
func (s *DeliverySlot) ToCartSlot(now time.Time) cart.DeliverySlot {
	return cart.DeliverySlot{ID: s.ID, Display: s.Display, Available: s.IsSelectable(now)}
}
