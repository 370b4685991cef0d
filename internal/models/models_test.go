package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/tidecart/internal/cart"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func TestPreferenceAddressColumnsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	addr := cart.Address{Name: "Meera", Phone: "900", Address: "Dock 4", City: "Goa", State: "Goa", Pincode: "403001", IsDefault: true}
	pref := UserPreference{
		UserID:         7,
		ContactNumber:  "900",
		SavedAddresses: AddressList{addr},
		ActiveLocation: NewAddressSnapshot(&addr),
	}
	if err := db.Create(&pref).Error; err != nil {
		t.Fatalf("create preference failed: %v", err)
	}

	var loaded UserPreference
	if err := db.Where("user_id = ?", 7).First(&loaded).Error; err != nil {
		t.Fatalf("load preference failed: %v", err)
	}
	if len(loaded.SavedAddresses) != 1 || loaded.SavedAddresses[0].Pincode != "403001" {
		t.Fatalf("saved addresses mismatch: %+v", loaded.SavedAddresses)
	}
	if loaded.ActiveLocation.Ptr() == nil || loaded.ActiveLocation.Ptr().City != "Goa" {
		t.Fatalf("active location mismatch: %+v", loaded.ActiveLocation)
	}
}

func TestEmptyAddressSnapshotIsNull(t *testing.T) {
	raw, err := json.Marshal(CheckoutSession{Step: 1})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]interface{}
	_ = json.Unmarshal(raw, &decoded)
	if decoded["address"] != nil {
		t.Fatalf("empty snapshot want null got %v", decoded["address"])
	}
}

func TestMoneyJSON(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.RequireFromString("499.5"))
	raw, _ := json.Marshal(m)
	if string(raw) != `"499.50"` {
		t.Fatalf("money json want \"499.50\" got %s", raw)
	}
	var parsed Money
	if err := json.Unmarshal([]byte(`12.345`), &parsed); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if parsed.String() != "12.35" {
		t.Fatalf("want 12.35 got %s", parsed.String())
	}
}
