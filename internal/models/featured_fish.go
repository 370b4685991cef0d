package models

import (
	"time"

	"gorm.io/gorm"
)

// FeaturedFish 首页推荐鱼种
type FeaturedFish struct {
	ID          uint           `gorm:"primarykey" json:"id"`                      // 主键
	ProductID   *uint          `gorm:"index" json:"product_id,omitempty"`         // 关联商品（可选）
	Name        string         `gorm:"type:varchar(120);not null" json:"name"`    // 名称
	Description string         `gorm:"type:varchar(1000)" json:"description"`     // 描述
	Image       string         `gorm:"type:varchar(500)" json:"image"`            // 图片
	Badge       string         `gorm:"type:varchar(60)" json:"badge"`             // 角标（时令、限量）
	PriceAmount Money          `gorm:"type:decimal(20,2);default:0" json:"price"` // 展示价格
	IsActive    bool           `gorm:"not null;index" json:"is_active"`           // 是否启用
	SortOrder   int            `gorm:"default:0;index" json:"order"`              // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间
}

// TableName 指定表名
func (FeaturedFish) TableName() string {
	return "featured_fish"
}
