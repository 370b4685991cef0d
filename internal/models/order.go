package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID                  uint            `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo             string          `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	UserID              uint            `gorm:"index;not null" json:"user_id"`                             // 用户ID
	IdempotencyKey      *string         `gorm:"uniqueIndex;type:varchar(80)" json:"-"`                     // 幂等键
	Status              string          `gorm:"index;not null" json:"status"`                              // 订单状态
	Currency            string          `gorm:"not null" json:"currency"`                                  // 币种
	SubtotalAmount      Money           `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`     // 商品小计
	DeliveryFee         Money           `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_fee"` // 配送费
	DiscountAmount      Money           `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`     // 优惠金额
	TotalAmount         Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total"`        // 实付金额
	PaymentMethod       string          `gorm:"type:varchar(40);not null" json:"payment_method"`           // 支付方式
	DeliverySlotID      uint            `gorm:"index" json:"delivery_slot_id"`                             // 配送时段
	DeliverySlotDisplay string          `gorm:"type:varchar(120)" json:"delivery_slot_display"`            // 配送时段快照
	ShippingAddress     AddressSnapshot `gorm:"type:json" json:"shipping_address"`                         // 收货地址快照
	ContactNumber       string          `gorm:"type:varchar(40)" json:"contact_number"`                    // 联系电话
	ConfirmedAt         *time.Time      `gorm:"index" json:"confirmed_at"`                                 // 确认通知时间
	CanceledAt          *time.Time      `gorm:"index" json:"canceled_at"`                                  // 取消时间
	CreatedAt           time.Time       `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt           time.Time       `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"-"`                                            // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
