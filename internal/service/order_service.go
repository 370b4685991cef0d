package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/tidecart/internal/cart"
	"github.com/tidecart/internal/constants"
	"github.com/tidecart/internal/logger"
	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/queue"
	"github.com/tidecart/internal/repository"

	"gorm.io/gorm"
)

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	UserID         uint
	Items          []cart.LineItem
	Summary        cart.Summary
	Currency       string
	Address        cart.Address
	SlotID         uint
	PaymentMethod  string
	ContactNumber  string
	IdempotencyKey string
}

// OrderService 订单服务
type OrderService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	slotRepo    repository.DeliverySlotRepository
	queueClient *queue.Client
}

// NewOrderService 创建订单服务，db 为空时使用全局连接
func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, cartRepo repository.CartRepository, slotRepo repository.DeliverySlotRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		db:          db,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		slotRepo:    slotRepo,
		queueClient: queueClient,
	}
}

// FindByIdempotencyKey 查找幂等键已生成的订单
func (s *OrderService) FindByIdempotencyKey(userID uint, key string) (*models.Order, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	order, err := s.orderRepo.GetByIdempotencyKey(key)
	if err != nil || order == nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrIdempotencyConflict
	}
	return order, nil
}

// PlaceOrder 事务内占用时段、写入订单并清空购物车；ctx 取消时整体回滚
func (s *OrderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, bool, error) {
	if len(input.Items) == 0 {
		return nil, false, ErrCartEmpty
	}
	if existing, err := s.FindByIdempotencyKey(input.UserID, input.IdempotencyKey); err != nil || existing != nil {
		return existing, existing != nil, err
	}

	now := time.Now()
	order := &models.Order{
		OrderNo:         generateOrderNo(),
		UserID:          input.UserID,
		Status:          constants.OrderStatusPlaced,
		Currency:        input.Currency,
		SubtotalAmount:  models.NewMoneyFromDecimal(input.Summary.Subtotal),
		DeliveryFee:     models.NewMoneyFromDecimal(input.Summary.DeliveryFee),
		DiscountAmount:  models.NewMoneyFromDecimal(input.Summary.Discount),
		TotalAmount:     models.NewMoneyFromDecimal(input.Summary.Total),
		PaymentMethod:   input.PaymentMethod,
		DeliverySlotID:  input.SlotID,
		ShippingAddress: models.NewAddressSnapshot(&input.Address),
		ContactNumber:   input.ContactNumber,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		order.IdempotencyKey = &key
	}
	items := buildOrderItems(input.Items, now)

	err := s.conn().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slotRepo := s.slotRepo.WithTx(tx)
		slot, err := slotRepo.GetByID(input.SlotID)
		if err != nil {
			return err
		}
		if slot == nil || !slot.IsSelectable(now) {
			return ErrSlotUnavailable
		}
		affected, err := slotRepo.IncrementBooked(input.SlotID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrSlotUnavailable
		}
		order.DeliverySlotDisplay = slot.Display

		if err := s.orderRepo.WithTx(tx).Create(order, items); err != nil {
			return err
		}
		if err := s.cartRepo.WithTx(tx).ClearByUser(input.UserID); err != nil {
			return err
		}
		return ctx.Err()
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrCheckoutCanceled, ctxErr)
		}
		if order.IdempotencyKey != nil {
			if existing, findErr := s.FindByIdempotencyKey(input.UserID, *order.IdempotencyKey); findErr == nil && existing != nil {
				return existing, true, nil
			}
		}
		return nil, false, err
	}

	s.enqueueConfirmed(ctx, order)
	return order, false, nil
}

// ListByUser 用户订单列表
func (s *OrderService) ListByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// ListAdmin 后台订单列表
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetByOrderNo 用户订单详情
func (s *OrderService) GetByOrderNo(userID uint, orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNoAndUser(strings.TrimSpace(orderNo), userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Confirm 处理下单确认（异步任务），重复执行无副作用
func (s *OrderService) Confirm(ctx context.Context, orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	affected, err := s.orderRepo.MarkConfirmed(order.ID, time.Now())
	if err != nil {
		return err
	}
	if affected == 0 {
		logger.FromContext(ctx).Debugw("order_confirm_skip_already_confirmed", "order_no", order.OrderNo)
		return nil
	}
	logger.FromContext(ctx).Infow("order_confirmed",
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"total", order.TotalAmount.String(),
		"payment_method", order.PaymentMethod,
		"slot", order.DeliverySlotDisplay,
	)
	return nil
}

func (s *OrderService) enqueueConfirmed(ctx context.Context, order *models.Order) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		if err := s.Confirm(ctx, order.ID); err != nil {
			logger.FromContext(ctx).Warnw("order_confirm_inline_failed", "order_no", order.OrderNo, "error", err)
		}
		return
	}
	payload := queue.OrderConfirmedPayload{OrderID: order.ID, OrderNo: order.OrderNo, UserID: order.UserID}
	if err := s.queueClient.EnqueueOrderConfirmed(payload); err != nil {
		logger.FromContext(ctx).Warnw("order_confirm_enqueue_failed", "order_no", order.OrderNo, "error", err)
	}
}

func (s *OrderService) conn() *gorm.DB {
	if s.db != nil {
		return s.db
	}
	return models.DB
}

func buildOrderItems(lines []cart.LineItem, now time.Time) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ProductID:      line.ProductID,
			Name:           line.Name,
			ImageRef:       line.ImageRef,
			UnitPrice:      models.NewMoneyFromDecimal(line.UnitPrice),
			Quantity:       line.Quantity,
			TotalPrice:     models.NewMoneyFromDecimal(line.LineTotal()),
			SourceMetadata: models.JSON(line.SourceMetadata),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return items
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("TC%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
