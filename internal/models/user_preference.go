package models

import (
	"time"

	"github.com/tidecart/internal/cart"
)

// UserPreference 用户偏好：联系电话、常用地址、当前位置
type UserPreference struct {
	ID             uint            `gorm:"primarykey" json:"-"`                    // 主键
	UserID         uint            `gorm:"uniqueIndex;not null" json:"user_id"`    // 用户ID
	ContactNumber  string          `gorm:"type:varchar(40)" json:"contact_number"` // 联系电话
	SavedAddresses AddressList     `gorm:"type:json" json:"saved_addresses"`       // 常用地址（最新在前，最多 5 条）
	ActiveLocation AddressSnapshot `gorm:"type:json" json:"active_location"`       // 当前收货位置
	CreatedAt      time.Time       `json:"created_at"`                             // 创建时间
	UpdatedAt      time.Time       `gorm:"index" json:"updated_at"`                // 更新时间
}

// TableName 指定表名
func (UserPreference) TableName() string {
	return "user_preferences"
}

// ToCart 转换为偏好值对象
func (p *UserPreference) ToCart() cart.Preferences {
	if p == nil {
		return cart.Preferences{SavedAddresses: []cart.Address{}}
	}
	addresses := []cart.Address(p.SavedAddresses)
	if addresses == nil {
		addresses = []cart.Address{}
	}
	return cart.Preferences{ContactNumber: p.ContactNumber, SavedAddresses: addresses}
}
