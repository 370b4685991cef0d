package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestSummarizeFreeDeliveryScenario(t *testing.T) {
	policy := PricingPolicy{FreeDeliveryThreshold: d("999"), DeliveryFee: d("49")}
	summary := Summarize([]LineItem{salmon(2)}, policy)

	if !summary.Subtotal.Equal(d("1000")) {
		t.Fatalf("subtotal want 1000 got %s", summary.Subtotal)
	}
	if !summary.DeliveryFee.IsZero() || !summary.Discount.IsZero() {
		t.Fatalf("fee/discount want 0 got %s/%s", summary.DeliveryFee, summary.Discount)
	}
	if !summary.Total.Equal(d("1000")) {
		t.Fatalf("total want 1000 got %s", summary.Total)
	}
}

func TestSummarizeTotalIdentityAndNonNegative(t *testing.T) {
	cases := []struct {
		name   string
		items  []LineItem
		policy PricingPolicy
	}{
		{name: "fee applies", items: []LineItem{salmon(1)}, policy: PricingPolicy{FreeDeliveryThreshold: d("999"), DeliveryFee: d("49")}},
		{name: "percent discount", items: []LineItem{salmon(3)}, policy: PricingPolicy{DiscountPercent: d("10")}},
		{name: "capped discount", items: []LineItem{salmon(3)}, policy: PricingPolicy{DiscountPercent: d("50"), DiscountCap: d("100")}},
		{name: "discount beyond subtotal", items: []LineItem{salmon(1)}, policy: PricingPolicy{DiscountPercent: d("250")}},
		{name: "empty cart", items: nil, policy: PricingPolicy{FreeDeliveryThreshold: d("999"), DeliveryFee: d("49")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first := Summarize(tc.items, tc.policy)
			second := Summarize(tc.items, tc.policy)
			if !first.Total.Equal(second.Total) || !first.Subtotal.Equal(second.Subtotal) {
				t.Fatalf("summary not idempotent: %+v vs %+v", first, second)
			}
			if first.Total.IsNegative() {
				t.Fatalf("total must be >= 0, got %s", first.Total)
			}
			raw := first.Subtotal.Add(first.DeliveryFee).Sub(first.Discount)
			if raw.IsPositive() && !first.Total.Equal(raw) {
				t.Fatalf("total want %s got %s", raw, first.Total)
			}
		})
	}
}

func TestSummarizeCapsDiscount(t *testing.T) {
	summary := Summarize([]LineItem{salmon(3)}, PricingPolicy{DiscountPercent: d("50"), DiscountCap: d("100")})
	if !summary.Discount.Equal(d("100")) {
		t.Fatalf("discount want 100 got %s", summary.Discount)
	}
	if !summary.Total.Equal(d("1400")) {
		t.Fatalf("total want 1400 got %s", summary.Total)
	}
}
