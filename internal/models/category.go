package models

import (
	"time"

	"gorm.io/gorm"
)

// Category 商品分类（鱼类、虾蟹、贝类等）
type Category struct {
	ID          uint           `gorm:"primarykey" json:"id"`                   // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`       // 唯一标识
	Name        string         `gorm:"type:varchar(120);not null" json:"name"` // 名称
	Description string         `gorm:"type:varchar(1000)" json:"description"`  // 描述
	Image       string         `gorm:"type:varchar(500)" json:"image"`         // 分类图片
	IsActive    bool           `gorm:"not null;index" json:"is_active"`        // 是否启用
	SortOrder   int            `gorm:"default:0;index" json:"order"`           // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                             // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
