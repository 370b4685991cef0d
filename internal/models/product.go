package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品（按重量或份出售的海鲜）
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                 // 主键
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`                    // 分类ID
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                     // 唯一标识
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`               // 名称
	Description string         `gorm:"type:text" json:"description"`                         // 描述
	PriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`   // 单价
	Unit        string         `gorm:"type:varchar(40);not null;default:'500g'" json:"unit"` // 计价单位
	Images      StringArray    `gorm:"type:json" json:"images"`                              // 图片数组
	Tags        StringArray    `gorm:"type:json" json:"tags"`                                // 标签（新鲜度、产地等）
	Origin      string         `gorm:"type:varchar(120)" json:"origin"`                      // 产地/渔港
	InStock     bool           `gorm:"not null;index" json:"in_stock"`                       // 是否有货
	IsActive    bool           `gorm:"not null;index" json:"is_active"`                      // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"order"`                         // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                           // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// PrimaryImage 首图
func (p *Product) PrimaryImage() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
