package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tidecart/internal/cart"
	"github.com/tidecart/internal/models"
)

func placeOrderInput(t *testing.T, f *storeFixture, slotID uint, key string) PlaceOrderInput {
	t.Helper()
	if _, err := f.carts.Add(context.Background(), AddCartItemInput{UserID: f.user.ID, ProductID: f.salmon.ID, Quantity: 2}); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
	items, err := f.carts.Items(f.user.ID)
	if err != nil {
		t.Fatalf("load cart items failed: %v", err)
	}
	return PlaceOrderInput{
		UserID:         f.user.ID,
		Items:          items,
		Summary:        f.carts.Summarize(items),
		Currency:       "INR",
		Address:        sampleAddress("682001"),
		SlotID:         slotID,
		PaymentMethod:  "UPI",
		ContactNumber:  "9876543210",
		IdempotencyKey: key,
	}
}

func TestPlaceOrderConfirmsInlineWithoutQueue(t *testing.T) {
	f := newStoreFixture(t)
	input := placeOrderInput(t, f, f.slot.ID, "order-key-1")

	order, replayed, err := f.orders.PlaceOrder(context.Background(), input)
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if replayed {
		t.Fatalf("first submit should not be a replay")
	}
	if order.TotalAmount.String() != "949.00" {
		t.Fatalf("total want 949.00 got %s", order.TotalAmount.String())
	}
	if order.DeliverySlotDisplay != f.slot.Display {
		t.Fatalf("slot display want %s got %s", f.slot.Display, order.DeliverySlotDisplay)
	}
	if n := countRows(t, f.db, &models.CartItem{}); n != 0 {
		t.Fatalf("cart should be cleared, rows=%d", n)
	}

	var stored models.Order
	if err := f.db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if stored.Status != "confirmed" || stored.ConfirmedAt == nil {
		t.Fatalf("order should be confirmed inline, got status %s", stored.Status)
	}
	var slot models.DeliverySlot
	_ = f.db.First(&slot, f.slot.ID).Error
	if slot.Booked != 1 {
		t.Fatalf("slot booked want 1 got %d", slot.Booked)
	}
}

func TestPlaceOrderReplaysIdempotencyKey(t *testing.T) {
	f := newStoreFixture(t)
	first, _, err := f.orders.PlaceOrder(context.Background(), placeOrderInput(t, f, f.slot.ID, "order-key-2"))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	second, replayed, err := f.orders.PlaceOrder(context.Background(), placeOrderInput(t, f, f.slot.ID, "order-key-2"))
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !replayed || second.OrderNo != first.OrderNo {
		t.Fatalf("replay want order %s got %s replayed=%v", first.OrderNo, second.OrderNo, replayed)
	}
	if n := countRows(t, f.db, &models.Order{}); n != 1 {
		t.Fatalf("replay must not create another order, rows=%d", n)
	}

	other := &models.User{Email: "ravi@example.com", PasswordHash: "x", Status: "active"}
	if err := f.db.Create(other).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if _, err := f.orders.FindByIdempotencyKey(other.ID, "order-key-2"); !errors.Is(err, ErrIdempotencyConflict) {
		t.Fatalf("foreign key want ErrIdempotencyConflict got %v", err)
	}
}

func TestPlaceOrderFullSlotKeepsCart(t *testing.T) {
	f := newStoreFixture(t)
	input := placeOrderInput(t, f, f.fullSlot.ID, "order-key-3")

	if _, _, err := f.orders.PlaceOrder(context.Background(), input); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("want ErrSlotUnavailable got %v", err)
	}
	if n := countRows(t, f.db, &models.Order{}); n != 0 {
		t.Fatalf("no order should be written, rows=%d", n)
	}
	if n := countRows(t, f.db, &models.CartItem{}); n != 1 {
		t.Fatalf("cart should be untouched, rows=%d", n)
	}
}

func TestPlaceOrderCanceledContextRollsBack(t *testing.T) {
	f := newStoreFixture(t)
	input := placeOrderInput(t, f, f.slot.ID, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := f.orders.PlaceOrder(ctx, input); !errors.Is(err, ErrCheckoutCanceled) {
		t.Fatalf("want ErrCheckoutCanceled got %v", err)
	}
	if n := countRows(t, f.db, &models.CartItem{}); n != 1 {
		t.Fatalf("cart should be untouched, rows=%d", n)
	}
	if n := countRows(t, f.db, &models.Order{}); n != 0 {
		t.Fatalf("no order should be written, rows=%d", n)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newStoreFixture(t)
	_, _, err := f.orders.PlaceOrder(context.Background(), PlaceOrderInput{UserID: f.user.ID, Items: []cart.LineItem{}})
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty got %v", err)
	}
}
