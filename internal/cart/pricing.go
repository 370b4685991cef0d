package cart

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PricingPolicy 配送费与折扣规则
type PricingPolicy struct {
	// FreeDeliveryThreshold 小计达到该值免配送费
	FreeDeliveryThreshold decimal.Decimal
	DeliveryFee           decimal.Decimal
	// DiscountPercent 按小计百分比折扣，0 表示无折扣
	DiscountPercent decimal.Decimal
	// DiscountCap 折扣上限，0 表示不封顶
	DiscountCap decimal.Decimal
}

// Summarize 计算金额汇总，纯函数
func Summarize(items []LineItem, policy PricingPolicy) Summary {
	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
		count += item.Quantity
	}
	subtotal = subtotal.Round(2)

	fee := decimal.Zero
	if count > 0 && subtotal.LessThan(policy.FreeDeliveryThreshold) {
		fee = policy.DeliveryFee.Round(2)
	}

	discount := decimal.Zero
	if policy.DiscountPercent.IsPositive() {
		discount = subtotal.Mul(policy.DiscountPercent).Div(hundred).Round(2)
		if policy.DiscountCap.IsPositive() && discount.GreaterThan(policy.DiscountCap) {
			discount = policy.DiscountCap.Round(2)
		}
	}

	total := subtotal.Add(fee).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Summary{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Discount:    discount,
		Total:       total.Round(2),
		ItemCount:   count,
	}
}
