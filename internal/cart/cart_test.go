package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func salmon(qty int) LineItem {
	return LineItem{ProductID: 1, Name: "Atlantic Salmon", UnitPrice: decimal.NewFromInt(500), Quantity: qty}
}

func TestAddMergesByProduct(t *testing.T) {
	c := New(0)
	if _, _, err := c.Add(salmon(0), 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, _, err := c.Add(salmon(0), 3); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if len(c.Items) != 1 {
		t.Fatalf("line count want 1 got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 5 {
		t.Fatalf("quantity want 5 got %d", c.Items[0].Quantity)
	}
}

func TestAddIsAssociative(t *testing.T) {
	cases := []struct {
		a, b, max int
	}{
		{1, 1, 0},
		{3, 4, 0},
		{2, 5, 10},
		{7, 6, 10},
		{10, 1, 10},
	}
	for _, tc := range cases {
		split := New(tc.max)
		_, _, _ = split.Add(salmon(0), tc.a)
		_, _, _ = split.Add(salmon(0), tc.b)

		single := New(tc.max)
		_, _, _ = single.Add(salmon(0), tc.a+tc.b)

		if split.Items[0].Quantity != single.Items[0].Quantity {
			t.Fatalf("a=%d b=%d max=%d: split %d single %d", tc.a, tc.b, tc.max, split.Items[0].Quantity, single.Items[0].Quantity)
		}
	}
}

func TestAddClampsToLineLimit(t *testing.T) {
	c := New(10)
	line, clamped, err := c.Add(salmon(0), 12)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !clamped || line.Quantity != 10 {
		t.Fatalf("want clamped to 10, got %d clamped=%v", line.Quantity, clamped)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	c := New(0)
	if _, _, err := c.Add(salmon(0), 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("want ErrInvalidQuantity got %v", err)
	}
	if _, _, err := c.Add(LineItem{Name: "no id"}, 1); !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("want ErrInvalidItem got %v", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("cart should stay empty")
	}
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	c := New(0, salmon(2), LineItem{ProductID: 2, Name: "Tiger Prawns", UnitPrice: decimal.NewFromInt(300), Quantity: 1})
	if _, err := c.SetQuantity(1, 0); err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if _, ok := c.Find(1); ok {
		t.Fatalf("line should be removed")
	}
	if err := c.Increment(2, -1); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("cart should be empty, got %d lines", len(c.Items))
	}
	if _, err := c.SetQuantity(9, 1); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("want ErrItemNotFound got %v", err)
	}
}

func TestValidateSlot(t *testing.T) {
	slots := []DeliverySlot{
		{ID: 1, Display: "Today 7-9 AM", Available: true},
		{ID: 2, Display: "Today 6-8 PM", Available: false},
	}
	if res := ValidateSlot(slots, 1); !res.Valid() {
		t.Fatalf("slot 1 should be valid: %v", res.Err)
	}
	if res := ValidateSlot(slots, 2); !errors.Is(res.Err, ErrSlotUnavailable) {
		t.Fatalf("want ErrSlotUnavailable got %v", res.Err)
	}
	if res := ValidateSlot(slots, 3); !errors.Is(res.Err, ErrSlotNotFound) {
		t.Fatalf("want ErrSlotNotFound got %v", res.Err)
	}
}
