package cart

import (
	"github.com/shopspring/decimal"
)

// LineItem 购物车行项目
type LineItem struct {
	ProductID      uint                   `json:"product_id"`
	Name           string                 `json:"name"`
	ImageRef       string                 `json:"image_ref"`
	UnitPrice      decimal.Decimal        `json:"unit_price"`
	Quantity       int                    `json:"quantity"`
	SourceMetadata map[string]interface{} `json:"source_metadata,omitempty"`
}

// LineTotal 行小计
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Address 收货地址，以 Pincode 作为去重标识
type Address struct {
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Pincode   string `json:"pincode" validate:"required"`
	IsDefault bool   `json:"is_default"`
}

// Preferences 用户偏好
type Preferences struct {
	ContactNumber  string    `json:"contact_number"`
	SavedAddresses []Address `json:"saved_addresses"`
}

// PreferencesPatch 偏好局部更新，nil 字段保持不变
type PreferencesPatch struct {
	ContactNumber  *string   `json:"contact_number"`
	SavedAddresses []Address `json:"saved_addresses"`
}

// DeliverySlot 配送时段
type DeliverySlot struct {
	ID        uint   `json:"id"`
	Display   string `json:"display"`
	Available bool   `json:"available"`
}

// Summary 订单金额汇总（派生值）
type Summary struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
}
