package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tidecart/internal/config"
	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/provider"
	"github.com/tidecart/internal/queue"
	"github.com/tidecart/internal/repository"
	"github.com/tidecart/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{
		Cart:     config.CartConfig{Currency: "INR", MaxQuantityPerLine: 10},
		Checkout: config.CheckoutConfig{SessionTTLMinutes: 30, LockTTLSeconds: 30, PaymentMethods: []string{"UPI"}},
	}
	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)
	slotRepo := repository.NewDeliverySlotRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)

	c := &provider.Container{Config: cfg}
	c.CheckoutSessionRepo = repository.NewCheckoutSessionRepository(db)
	c.OrderService = service.NewOrderService(db, orderRepo, cartRepo, slotRepo, nil)
	c.CartService = service.NewCartService(cfg.Cart, cartRepo, productRepo)
	c.PreferenceService = service.NewPreferenceService(repository.NewPreferenceRepository(db), userRepo)
	c.DeliverySlotService = service.NewDeliverySlotService(slotRepo)
	c.CheckoutService = service.NewCheckoutService(
		cfg.Checkout,
		c.CheckoutSessionRepo,
		c.CartService,
		c.PreferenceService,
		c.DeliverySlotService,
		c.OrderService,
		nil,
	)
	return NewConsumer(c), db
}

func TestHandleOrderConfirmedRejectsBadPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)
	err := consumer.handleOrderConfirmed(context.Background(), asynq.NewTask(queue.TaskOrderConfirmed, []byte("{not-json")))
	if err == nil || !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("want SkipRetry error, got %v", err)
	}
}

func TestHandleOrderConfirmedSkipsInvalidOrMissingOrder(t *testing.T) {
	consumer, _ := setupConsumerTest(t)
	for _, payload := range []queue.OrderConfirmedPayload{
		{OrderID: 0, OrderNo: "TC-EMPTY"},
		{OrderID: 404, OrderNo: "TC-MISSING"},
	} {
		task, err := queue.NewOrderConfirmedTask(payload)
		if err != nil {
			t.Fatalf("build task failed: %v", err)
		}
		if err := consumer.handleOrderConfirmed(context.Background(), task); err != nil {
			t.Fatalf("order %d should be skipped, got %v", payload.OrderID, err)
		}
	}
}

func TestHandleOrderConfirmedMarksOrder(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	order := &models.Order{
		OrderNo:       "TC202610190001",
		UserID:        7,
		Status:        "placed",
		Currency:      "INR",
		PaymentMethod: "UPI",
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	task, err := queue.NewOrderConfirmedTask(queue.OrderConfirmedPayload{OrderID: order.ID, OrderNo: order.OrderNo, UserID: 7})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	// 重复投递不应报错
	for i := 0; i < 2; i++ {
		if err := consumer.handleOrderConfirmed(context.Background(), task); err != nil {
			t.Fatalf("handle order confirmed failed: %v", err)
		}
	}

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.ConfirmedAt == nil {
		t.Fatalf("expected confirmed_at to be set")
	}
}

func TestHandleCheckoutSweep(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	now := time.Now()
	sessions := []models.CheckoutSession{
		{UserID: 1, Step: 2, ExpiresAt: now.Add(-time.Hour)},
		{UserID: 2, Step: 3, Submitting: true, ExpiresAt: now.Add(time.Hour)},
		{UserID: 3, Step: 1, ExpiresAt: now.Add(time.Hour)},
	}
	for i := range sessions {
		if err := db.Create(&sessions[i]).Error; err != nil {
			t.Fatalf("create session failed: %v", err)
		}
	}
	if err := db.Model(&models.CheckoutSession{}).Where("user_id = ?", 2).
		UpdateColumn("updated_at", now.Add(-time.Hour)).Error; err != nil {
		t.Fatalf("age session failed: %v", err)
	}

	task, err := queue.NewCheckoutSweepTask(queue.CheckoutSweepPayload{Reason: "test"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCheckoutSweep(context.Background(), task); err != nil {
		t.Fatalf("handle checkout sweep failed: %v", err)
	}

	var remaining int64
	if err := db.Model(&models.CheckoutSession{}).Count(&remaining).Error; err != nil {
		t.Fatalf("count sessions failed: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("remaining sessions want 2 got %d", remaining)
	}
	var released models.CheckoutSession
	if err := db.Where("user_id = ?", 2).First(&released).Error; err != nil {
		t.Fatalf("reload session failed: %v", err)
	}
	if released.Submitting {
		t.Fatalf("expected stale submission to be released")
	}
}

func TestHandleCheckoutSweepRejectsBadPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)
	err := consumer.handleCheckoutSweep(context.Background(), asynq.NewTask(queue.TaskCheckoutSweep, []byte("[")))
	if err == nil || !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("want SkipRetry error, got %v", err)
	}
}
