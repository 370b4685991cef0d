package models

import (
	"time"

	"gorm.io/gorm"
)

// TrustedBadge 首页信任徽章（冷链、当日捕捞等）
type TrustedBadge struct {
	ID          uint           `gorm:"primarykey" json:"id"`                    // 主键
	Title       string         `gorm:"type:varchar(120);not null" json:"title"` // 标题
	Description string         `gorm:"type:varchar(500)" json:"description"`    // 描述
	Icon        string         `gorm:"type:varchar(500)" json:"icon"`           // 图标
	IsActive    bool           `gorm:"not null;index" json:"is_active"`         // 是否启用
	SortOrder   int            `gorm:"default:0;index" json:"order"`            // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间
}

// TableName 指定表名
func (TrustedBadge) TableName() string {
	return "trusted_badges"
}
