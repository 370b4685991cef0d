package models

import (
	"time"
)

// CartItem 购物车项（删除即物理删除，保证 user_id+product_id 唯一）
type CartItem struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                         // 主键
	UserID         uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`    // 用户ID
	ProductID      uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"` // 商品ID
	Quantity       int       `gorm:"not null" json:"quantity"`                                     // 数量
	SourceMetadata JSON      `gorm:"type:json" json:"source_metadata"`                             // 加购来源（页面、推荐位等）
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time `gorm:"index" json:"updated_at"`                                      // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
