package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tidecart/internal/cart"
	"github.com/tidecart/internal/config"
	"github.com/tidecart/internal/models"
)

func TestCartAddMergesAndClamps(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	first, err := f.carts.Add(ctx, AddCartItemInput{UserID: f.user.ID, ProductID: f.salmon.ID, Quantity: 6})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if first.Clamped || first.Item.Quantity != 6 {
		t.Fatalf("unexpected first mutation: %+v", first)
	}
	second, err := f.carts.Add(ctx, AddCartItemInput{UserID: f.user.ID, ProductID: f.salmon.ID, Quantity: 7})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !second.Clamped || second.Item.Quantity != 10 || second.MaxQuantity != 10 {
		t.Fatalf("quantity should clamp to 10, got %+v", second)
	}
	if len(second.Cart.Items) != 1 {
		t.Fatalf("same product should merge into one line, got %d", len(second.Cart.Items))
	}
	if got := countRows(t, f.db, &models.CartItem{}); got != 1 {
		t.Fatalf("cart rows want 1 got %d", got)
	}
	if !second.Cart.Summary.Subtotal.Equal(mustDecimal(t, "4500")) || !second.Cart.Summary.DeliveryFee.IsZero() {
		t.Fatalf("unexpected summary: %+v", second.Cart.Summary)
	}
}

func TestCartAddRejectsUnavailableProduct(t *testing.T) {
	f := newStoreFixture(t)
	if err := f.db.Model(&models.Product{}).Where("id = ?", f.prawns.ID).Update("in_stock", false).Error; err != nil {
		t.Fatalf("mark out of stock failed: %v", err)
	}
	ctx := context.Background()
	if _, err := f.carts.Add(ctx, AddCartItemInput{UserID: f.user.ID, ProductID: f.prawns.ID, Quantity: 1}); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("want ErrProductNotAvailable got %v", err)
	}
	if _, err := f.carts.Add(ctx, AddCartItemInput{UserID: f.user.ID, ProductID: 999, Quantity: 1}); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("want ErrProductNotAvailable got %v", err)
	}
	if _, err := f.carts.Add(ctx, AddCartItemInput{UserID: f.user.ID, ProductID: f.salmon.ID, Quantity: 0}); !errors.Is(err, ErrInvalidCartItem) {
		t.Fatalf("want ErrInvalidCartItem got %v", err)
	}
}

func TestCartSetQuantityZeroRemovesLine(t *testing.T) {
	f := newStoreFixture(t)
	addToCart(t, f, f.salmon.ID, 2)
	addToCart(t, f, f.prawns.ID, 1)

	mutation, err := f.carts.SetQuantity(f.user.ID, f.salmon.ID, 0)
	if err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if mutation.Item != nil || len(mutation.Cart.Items) != 1 || mutation.Cart.Items[0].ProductID != f.prawns.ID {
		t.Fatalf("salmon line should be removed: %+v", mutation.Cart.Items)
	}
	if _, err := f.carts.SetQuantity(f.user.ID, 999, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestCartDropsInactiveProducts(t *testing.T) {
	f := newStoreFixture(t)
	addToCart(t, f, f.salmon.ID, 1)
	addToCart(t, f, f.prawns.ID, 1)
	if err := f.db.Model(&models.Product{}).Where("id = ?", f.prawns.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	view, err := f.carts.View(f.user.ID)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].ProductID != f.salmon.ID {
		t.Fatalf("inactive product should be dropped: %+v", view.Items)
	}
}

func TestPricingPolicyFromConfig(t *testing.T) {
	policy := PricingPolicyFromConfig(config.CartConfig{
		FreeDeliveryThreshold: "999",
		DeliveryFee:           "not-a-number",
		DiscountPercent:       10,
		DiscountCap:           "50",
	})
	if !policy.DeliveryFee.IsZero() {
		t.Fatalf("invalid delivery fee should fall back to zero, got %s", policy.DeliveryFee)
	}
	summary := cart.Summarize([]cart.LineItem{{ProductID: 1, UnitPrice: mustDecimal(t, "1000"), Quantity: 1}}, policy)
	if !summary.Discount.Equal(mustDecimal(t, "50")) || !summary.Total.Equal(mustDecimal(t, "950")) {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
