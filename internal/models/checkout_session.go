package models

import (
	"time"
)

// CheckoutSession 结算会话（每个用户同时只有一个进行中的会话）
type CheckoutSession struct {
	ID             uint            `gorm:"primarykey" json:"-"`                           // 主键
	UserID         uint            `gorm:"uniqueIndex;not null" json:"user_id"`           // 用户ID
	Step           int             `gorm:"not null;default:1" json:"step"`                // 当前步骤（1-4）
	Aborted        bool            `gorm:"not null;default:false" json:"aborted"`         // 是否因空购物车退出
	Address        AddressSnapshot `gorm:"type:json" json:"address"`                      // 地址快照
	SelectedSlotID *uint           `json:"selected_slot_id"`                              // 已选配送时段
	PaymentMethod  string          `gorm:"type:varchar(40)" json:"payment_method"`        // 支付方式
	Submitting     bool            `gorm:"not null;default:false" json:"submitting"`      // 是否提交中
	LastError      string          `gorm:"type:varchar(500)" json:"last_error,omitempty"` // 最近一次下单错误
	OrderNo        string          `gorm:"type:varchar(40)" json:"order_no,omitempty"`    // 确认后的订单号
	IdempotencyKey string          `gorm:"type:varchar(80)" json:"idempotency_key"`       // 当前提交尝试的幂等键
	ExpiresAt      time.Time       `gorm:"index" json:"expires_at"`                       // 过期时间
	CreatedAt      time.Time       `json:"created_at"`                                    // 创建时间
	UpdatedAt      time.Time       `gorm:"index" json:"updated_at"`                       // 更新时间
}

// TableName 指定表名
func (CheckoutSession) TableName() string {
	return "checkout_sessions"
}
