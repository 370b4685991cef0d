package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tidecart/internal/cache"
	"github.com/tidecart/internal/cart"
	"github.com/tidecart/internal/config"
	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type storeFixture struct {
	db          *gorm.DB
	cfg         *config.Config
	carts       *CartService
	prefs       *PreferenceService
	slots       *DeliverySlotService
	orders      *OrderService
	checkout    *CheckoutService
	sessionRepo repository.CheckoutSessionRepository
	locker      *cache.LocalLocker
	user        *models.User
	salmon      *models.Product
	prawns      *models.Product
	slot        *models.DeliverySlot
	fullSlot    *models.DeliverySlot
}

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()
	db := openServiceTestDB(t)
	cfg := &config.Config{
		UserJWT:  config.JWTConfig{SecretKey: "test-user-secret", ExpireHours: 1},
		JWT:      config.JWTConfig{SecretKey: "test-admin-secret", ExpireHours: 1},
		Security: config.SecurityConfig{PasswordMinLen: 8},
		Cart: config.CartConfig{
			Currency:              "INR",
			MaxQuantityPerLine:    10,
			FreeDeliveryThreshold: "999",
			DeliveryFee:           "49",
		},
		Checkout: config.CheckoutConfig{
			SessionTTLMinutes: 30,
			LockTTLSeconds:    30,
			PaymentMethods:    []string{"UPI", "CARD", "COD"},
			SubmitTimeoutMS:   5000,
		},
	}

	user := &models.User{Email: "meera@example.com", PasswordHash: "x", Status: "active"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	category := &models.Category{Slug: "fish", Name: "Fish", IsActive: true}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	salmon := &models.Product{
		CategoryID:  category.ID,
		Slug:        "salmon",
		Name:        "Salmon",
		PriceAmount: models.NewMoneyFromString("450"),
		Unit:        "500g",
		InStock:     true,
		IsActive:    true,
	}
	prawns := &models.Product{
		CategoryID:  category.ID,
		Slug:        "tiger-prawns",
		Name:        "Tiger Prawns",
		PriceAmount: models.NewMoneyFromString("620"),
		Unit:        "500g",
		InStock:     true,
		IsActive:    true,
	}
	for _, p := range []*models.Product{salmon, prawns} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}
	slot := &models.DeliverySlot{Display: "Tomorrow 7-9 AM", Available: true, IsActive: true}
	fullSlot := &models.DeliverySlot{Display: "Tomorrow 9-11 AM", Available: true, IsActive: true, Capacity: 1, Booked: 1}
	for _, s := range []*models.DeliverySlot{slot, fullSlot} {
		if err := db.Create(s).Error; err != nil {
			t.Fatalf("create slot failed: %v", err)
		}
	}

	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	slotRepo := repository.NewDeliverySlotRepository(db)
	sessionRepo := repository.NewCheckoutSessionRepository(db)

	carts := NewCartService(cfg.Cart, cartRepo, productRepo)
	prefs := NewPreferenceService(repository.NewPreferenceRepository(db), repository.NewUserRepository(db))
	slots := NewDeliverySlotService(slotRepo)
	orders := NewOrderService(db, repository.NewOrderRepository(db), cartRepo, slotRepo, nil)
	locker := cache.NewLocalLocker()
	checkoutService := NewCheckoutService(cfg.Checkout, sessionRepo, carts, prefs, slots, orders, locker)

	return &storeFixture{
		db:          db,
		cfg:         cfg,
		carts:       carts,
		prefs:       prefs,
		slots:       slots,
		orders:      orders,
		checkout:    checkoutService,
		sessionRepo: sessionRepo,
		locker:      locker,
		user:        user,
		salmon:      salmon,
		prawns:      prawns,
		slot:        slot,
		fullSlot:    fullSlot,
	}
}

func sampleAddress(pincode string) cart.Address {
	return cart.Address{
		Name:    "Meera Nair",
		Phone:   "9876543210",
		Address: "12 Marine Drive",
		City:    "Kochi",
		State:   "Kerala",
		Pincode: pincode,
	}
}

func mustDecimal(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse decimal %q failed: %v", raw, err)
	}
	return d
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return count
}
