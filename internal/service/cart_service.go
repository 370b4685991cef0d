package service

import (
	"context"

	"github.com/tidecart/internal/cart"
	"github.com/tidecart/internal/config"
	"github.com/tidecart/internal/logger"
	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/repository"

	"github.com/shopspring/decimal"
)

// CartView 购物车视图（用于响应）
type CartView struct {
	Items    []cart.LineItem `json:"items"`
	Summary  cart.Summary    `json:"summary"`
	Currency string          `json:"currency"`
}

// AddCartItemInput 加购输入
type AddCartItemInput struct {
	UserID         uint
	ProductID      uint
	Quantity       int
	SourceMetadata map[string]interface{}
}

// CartMutation 购物车变更结果，Clamped 表示数量被单行上限截断
type CartMutation struct {
	Item        *cart.LineItem `json:"item,omitempty"`
	Clamped     bool           `json:"clamped"`
	MaxQuantity int            `json:"max_quantity,omitempty"`
	Cart        *CartView      `json:"cart"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	policy      cart.PricingPolicy
	maxQuantity int
	currency    string
}

// NewCartService 创建购物车服务
func NewCartService(cfg config.CartConfig, cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	currency := cfg.Currency
	if currency == "" {
		currency = "INR"
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		policy:      PricingPolicyFromConfig(cfg),
		maxQuantity: cfg.MaxQuantityPerLine,
		currency:    currency,
	}
}

// PricingPolicyFromConfig 从配置构建计价规则，非法金额按 0 处理
func PricingPolicyFromConfig(cfg config.CartConfig) cart.PricingPolicy {
	return cart.PricingPolicy{
		FreeDeliveryThreshold: decimalOrZero(cfg.FreeDeliveryThreshold),
		DeliveryFee:           decimalOrZero(cfg.DeliveryFee),
		DiscountPercent:       decimal.NewFromFloat(cfg.DiscountPercent),
		DiscountCap:           decimalOrZero(cfg.DiscountCap),
	}
}

// Currency 结算币种
func (s *CartService) Currency() string {
	return s.currency
}

// Summarize 计算金额汇总
func (s *CartService) Summarize(items []cart.LineItem) cart.Summary {
	return cart.Summarize(items, s.policy)
}

// View 获取用户购物车与金额汇总
func (s *CartService) View(userID uint) (*CartView, error) {
	c, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	return s.view(c), nil
}

// Items 获取用户购物车行项目
func (s *CartService) Items(userID uint) ([]cart.LineItem, error) {
	c, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	return c.Snapshot(), nil
}

// Add 加购：同一商品合并数量
func (s *CartService) Add(ctx context.Context, input AddCartItemInput) (*CartMutation, error) {
	if input.UserID == 0 || input.ProductID == 0 {
		return nil, ErrInvalidCartItem
	}
	if err := guardError(cart.ValidateQuantity(input.Quantity)); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive || !product.InStock {
		return nil, ErrProductNotAvailable
	}

	c, err := s.load(input.UserID)
	if err != nil {
		return nil, err
	}
	line, clamped, err := c.Add(lineFromProduct(product, input.SourceMetadata), input.Quantity)
	if err != nil {
		return nil, mapDomainError(err)
	}
	if err := s.persist(input.UserID, line); err != nil {
		return nil, err
	}
	if clamped {
		logger.FromContext(ctx).Infow("cart_quantity_clamped",
			"user_id", input.UserID,
			"product_id", input.ProductID,
			"max_quantity", s.maxQuantity,
		)
	}
	return &CartMutation{Item: &line, Clamped: clamped, MaxQuantity: s.maxQuantity, Cart: s.view(c)}, nil
}

// SetQuantity 设置数量，0 或负数移除该行
func (s *CartService) SetQuantity(userID, productID uint, quantity int) (*CartMutation, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrInvalidCartItem
	}
	c, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	clamped, err := c.SetQuantity(productID, quantity)
	if err != nil {
		return nil, mapDomainError(err)
	}
	line, ok := c.Find(productID)
	if !ok {
		if err := s.cartRepo.DeleteByUserAndProduct(userID, productID); err != nil {
			return nil, err
		}
		return &CartMutation{Cart: s.view(c)}, nil
	}
	if err := s.persist(userID, line); err != nil {
		return nil, err
	}
	return &CartMutation{Item: &line, Clamped: clamped, MaxQuantity: s.maxQuantity, Cart: s.view(c)}, nil
}

// Remove 删除购物车项
func (s *CartService) Remove(userID, productID uint) (*CartView, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrInvalidCartItem
	}
	if err := s.cartRepo.DeleteByUserAndProduct(userID, productID); err != nil {
		return nil, err
	}
	return s.View(userID)
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	if userID == 0 {
		return ErrInvalidCartItem
	}
	return s.cartRepo.ClearByUser(userID)
}

// load 读取购物车，已下架或已删除的商品会被移出
func (s *CartService) load(userID uint) (*cart.Cart, error) {
	if userID == 0 {
		return nil, ErrInvalidCartItem
	}
	rows, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	items := make([]cart.LineItem, 0, len(rows))
	for _, row := range rows {
		product := row.Product
		if product == nil || product.ID == 0 {
			p, err := s.productRepo.GetByID(row.ProductID)
			if err != nil {
				return nil, err
			}
			product = p
		}
		if product == nil || !product.IsActive {
			if err := s.cartRepo.DeleteByUserAndProduct(userID, row.ProductID); err != nil {
				logger.Warnw("cart_drop_inactive_failed", "user_id", userID, "product_id", row.ProductID, "error", err)
			}
			continue
		}
		line := lineFromProduct(product, row.SourceMetadata)
		line.Quantity = row.Quantity
		items = append(items, line)
	}
	return cart.New(s.maxQuantity, items...), nil
}

func (s *CartService) persist(userID uint, line cart.LineItem) error {
	return s.cartRepo.Upsert(&models.CartItem{
		UserID:         userID,
		ProductID:      line.ProductID,
		Quantity:       line.Quantity,
		SourceMetadata: models.JSON(line.SourceMetadata),
	})
}

func (s *CartService) view(c *cart.Cart) *CartView {
	items := c.Snapshot()
	if items == nil {
		items = []cart.LineItem{}
	}
	return &CartView{Items: items, Summary: s.Summarize(items), Currency: s.currency}
}

func lineFromProduct(product *models.Product, metadata map[string]interface{}) cart.LineItem {
	return cart.LineItem{
		ProductID:      product.ID,
		Name:           product.Name,
		ImageRef:       product.PrimaryImage(),
		UnitPrice:      product.PriceAmount.Decimal,
		SourceMetadata: metadata,
	}
}

func decimalOrZero(raw string) decimal.Decimal {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return value
}
