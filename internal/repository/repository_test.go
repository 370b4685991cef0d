package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tidecart/internal/cart"
	"github.com/tidecart/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestCartUpsertKeepsOneRowPerProduct(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewCartRepository(db)

	if err := repo.Upsert(&models.CartItem{UserID: 1, ProductID: 9, Quantity: 2}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := repo.Upsert(&models.CartItem{UserID: 1, ProductID: 9, Quantity: 5}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	items, err := repo.ListByUser(1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 5 {
		t.Fatalf("want single row with quantity 5 got %+v", items)
	}

	if err := repo.DeleteByUserAndProduct(1, 9); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := repo.Upsert(&models.CartItem{UserID: 1, ProductID: 9, Quantity: 1}); err != nil {
		t.Fatalf("re-add after delete failed: %v", err)
	}
}

func TestOrderIdempotencyKeyLookup(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	key := "idem-1"
	order := &models.Order{
		OrderNo:        "TC1",
		UserID:         3,
		IdempotencyKey: &key,
		Status:         "placed",
		Currency:       "INR",
		PaymentMethod:  "UPI",
	}
	items := []models.OrderItem{{ProductID: 1, Name: "Pomfret", Quantity: 2}}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	found, err := repo.GetByIdempotencyKey(key)
	if err != nil || found == nil {
		t.Fatalf("lookup by key failed: %v", err)
	}
	if found.OrderNo != "TC1" || len(found.Items) != 1 {
		t.Fatalf("unexpected order: %+v", found)
	}
	if missing, _ := repo.GetByIdempotencyKey(""); missing != nil {
		t.Fatalf("empty key should not match")
	}

	dup := &models.Order{OrderNo: "TC2", UserID: 3, IdempotencyKey: &key, Status: "placed", Currency: "INR", PaymentMethod: "UPI"}
	if err := repo.Create(dup, nil); err == nil {
		t.Fatalf("duplicate idempotency key should violate unique index")
	}

	affected, err := repo.MarkConfirmed(order.ID, time.Now())
	if err != nil || affected != 1 {
		t.Fatalf("first confirm want 1 got %d err %v", affected, err)
	}
	affected, _ = repo.MarkConfirmed(order.ID, time.Now())
	if affected != 0 {
		t.Fatalf("second confirm should be noop got %d", affected)
	}
	confirmed, _ := repo.GetByID(order.ID)
	if confirmed.Status != "confirmed" || confirmed.ConfirmedAt == nil {
		t.Fatalf("confirmed order want status confirmed got %s", confirmed.Status)
	}
}

func TestPreferenceSaveUpserts(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewPreferenceRepository(db)
	pref := &models.UserPreference{
		UserID:         5,
		ContactNumber:  "9000000000",
		SavedAddresses: models.AddressList{{Name: "A", Pincode: "600001"}},
	}
	if err := repo.Save(pref); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	pref2 := &models.UserPreference{
		UserID:         5,
		ContactNumber:  "9111111111",
		SavedAddresses: models.AddressList{{Name: "B", Pincode: "600002"}, {Name: "A", Pincode: "600001"}},
		ActiveLocation: models.NewAddressSnapshot(&cart.Address{Name: "B", Pincode: "600002"}),
	}
	if err := repo.Save(pref2); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	got, err := repo.GetByUser(5)
	if err != nil || got == nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ContactNumber != "9111111111" || len(got.SavedAddresses) != 2 {
		t.Fatalf("unexpected preference: %+v", got)
	}
	if got.ActiveLocation.Ptr() == nil || got.ActiveLocation.Pincode != "600002" {
		t.Fatalf("active location not stored")
	}
}

func TestCheckoutSessionSweep(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewCheckoutSessionRepository(db)
	now := time.Now()
	if err := repo.Save(&models.CheckoutSession{UserID: 1, Step: 2, ExpiresAt: now.Add(-time.Minute)}); err != nil {
		t.Fatalf("save expired failed: %v", err)
	}
	if err := repo.Save(&models.CheckoutSession{UserID: 2, Step: 1, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("save live failed: %v", err)
	}
	if err := repo.Save(&models.CheckoutSession{UserID: 2, Step: 3, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("resave failed: %v", err)
	}
	live, _ := repo.GetByUser(2)
	if live == nil || live.Step != 3 {
		t.Fatalf("upsert should update step, got %+v", live)
	}

	deleted, err := repo.DeleteExpired(now)
	if err != nil || deleted != 1 {
		t.Fatalf("delete expired want 1 got %d err %v", deleted, err)
	}
	if gone, _ := repo.GetByUser(1); gone != nil {
		t.Fatalf("expired session should be gone")
	}
}

func TestCatalogListActiveOrdering(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewCategoryRepository(db)
	for _, c := range []models.Category{
		{Slug: "fish", Name: "Fish", IsActive: true, SortOrder: 1},
		{Slug: "crab", Name: "Crab", IsActive: true, SortOrder: 3},
		{Slug: "hidden", Name: "Hidden", IsActive: true, SortOrder: 9},
	} {
		if err := repo.Create(&c); err != nil {
			t.Fatalf("create category failed: %v", err)
		}
	}
	if err := db.Model(&models.Category{}).Where("slug = ?", "hidden").Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	rows, total, err := repo.List(CatalogListFilter{OnlyActive: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || rows[0].Slug != "crab" || rows[1].Slug != "fish" {
		t.Fatalf("unexpected order: %+v", rows)
	}
	searched, _, _ := repo.List(CatalogListFilter{Search: "cra"})
	if len(searched) != 1 {
		t.Fatalf("search want 1 got %d", len(searched))
	}
}

func TestDeliverySlotIncrementBooked(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewDeliverySlotRepository(db)
	slot := &models.DeliverySlot{Display: "6-8 PM", Capacity: 1, Available: true, IsActive: true}
	if err := repo.Create(slot); err != nil {
		t.Fatalf("create slot failed: %v", err)
	}
	if n, err := repo.IncrementBooked(slot.ID); err != nil || n != 1 {
		t.Fatalf("first booking want 1 got %d err %v", n, err)
	}
	if n, _ := repo.IncrementBooked(slot.ID); n != 0 {
		t.Fatalf("over capacity booking want 0 got %d", n)
	}
}

func TestProductListFiltersByTag(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewProductRepository(db)
	for _, p := range []models.Product{
		{Slug: "pomfret", Name: "Silver Pomfret", PriceAmount: models.NewMoneyFromString("540"), Tags: models.StringArray{"whole", "cleaned"}, IsActive: true},
		{Slug: "prawns", Name: "Tiger Prawns", PriceAmount: models.NewMoneyFromString("620"), Tags: models.StringArray{"deveined"}, IsActive: true},
	} {
		if err := repo.Create(&p); err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	rows, total, err := repo.List(ProductListFilter{Tag: "cleaned"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || rows[0].Slug != "pomfret" {
		t.Fatalf("tag filter want pomfret got %+v", rows)
	}
	searched, _, _ := repo.List(ProductListFilter{CatalogListFilter: CatalogListFilter{Search: "tiger"}})
	if len(searched) != 1 || searched[0].Slug != "prawns" {
		t.Fatalf("search want prawns got %+v", searched)
	}
}
