package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidecart/internal/cache"
	"github.com/tidecart/internal/cart"
	"github.com/tidecart/internal/checkout"
	"github.com/tidecart/internal/config"
	"github.com/tidecart/internal/logger"
	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/repository"

	"github.com/google/uuid"
)

// CheckoutResult 下单结果
type CheckoutResult struct {
	Success  bool   `json:"success"`
	OrderID  uint   `json:"order_id,omitempty"`
	OrderNo  string `json:"order_no,omitempty"`
	Error    string `json:"error,omitempty"`
	Replayed bool   `json:"replayed,omitempty"`
}

// CheckoutInput 直接下单输入
type CheckoutInput struct {
	UserID         uint
	PaymentMethod  string
	IdempotencyKey string
	Address        *cart.Address
	SlotID         uint
}

// CheckoutView 结算向导视图
type CheckoutView struct {
	State          checkout.State      `json:"state"`
	StepName       string              `json:"step_name"`
	Cart           *CartView           `json:"cart"`
	DeliverySlots  []cart.DeliverySlot `json:"delivery_slots"`
	PaymentMethods []string            `json:"payment_methods"`
	Result         *CheckoutResult     `json:"result,omitempty"`
}

// CheckoutService 结算服务：持久化向导状态，串行化同一用户的下单
type CheckoutService struct {
	cfg          config.CheckoutConfig
	wizard       checkout.Wizard
	sessionRepo  repository.CheckoutSessionRepository
	cartService  *CartService
	prefService  *PreferenceService
	slotService  *DeliverySlotService
	orderService *OrderService
	locker       cache.Locker
	now          func() time.Time
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	cfg config.CheckoutConfig,
	sessionRepo repository.CheckoutSessionRepository,
	cartService *CartService,
	prefService *PreferenceService,
	slotService *DeliverySlotService,
	orderService *OrderService,
	locker cache.Locker,
) *CheckoutService {
	methods := make([]string, 0, len(cfg.PaymentMethods))
	for _, method := range cfg.PaymentMethods {
		if method = strings.ToUpper(strings.TrimSpace(method)); method != "" {
			methods = append(methods, method)
		}
	}
	if locker == nil {
		locker = cache.NewLocalLocker()
	}
	return &CheckoutService{
		cfg:          cfg,
		wizard:       checkout.Wizard{PaymentMethods: methods},
		sessionRepo:  sessionRepo,
		cartService:  cartService,
		prefService:  prefService,
		slotService:  slotService,
		orderService: orderService,
		locker:       locker,
		now:          time.Now,
	}
}

// Get 获取当前结算状态，购物车为空时标记中止
func (s *CheckoutService) Get(ctx context.Context, userID uint) (*CheckoutView, error) {
	items, state, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	guarded, guardErr := s.wizard.Guard(state, items)
	if guarded.Aborted != state.Aborted {
		if err := s.save(userID, guarded, ""); err != nil {
			return nil, err
		}
		logger.FromContext(ctx).Infow("checkout_aborted_empty_cart", "user_id", userID, "step", state.Step.String())
	}
	view, err := s.view(userID, guarded, items)
	if err != nil {
		return nil, err
	}
	return view, mapDomainError(guardErr)
}

// SubmitAddress 地址步骤：校验通过后写入常用地址并进入配送时段
func (s *CheckoutService) SubmitAddress(ctx context.Context, userID uint, addr cart.Address) (*CheckoutView, error) {
	items, state, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	next, res := s.wizard.SubmitAddress(state, addr, items)
	if !res.Valid() {
		return s.reject(ctx, userID, state, next, items, res)
	}
	if err := s.prefService.RememberAddress(userID, *next.Address); err != nil {
		return nil, err
	}
	return s.commit(userID, next, items)
}

// SelectSlot 配送步骤：选择可用时段
func (s *CheckoutService) SelectSlot(ctx context.Context, userID, slotID uint) (*CheckoutView, error) {
	items, state, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	slots, err := s.slotService.ListPublic(s.now())
	if err != nil {
		return nil, err
	}
	next, res := s.wizard.SelectSlot(state, slots, slotID, items)
	if !res.Valid() {
		return s.reject(ctx, userID, state, next, items, res)
	}
	return s.commit(userID, next, items)
}

// ContinueToPayment 配送步骤 -> 支付步骤
func (s *CheckoutService) ContinueToPayment(ctx context.Context, userID uint) (*CheckoutView, error) {
	items, state, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	slots, err := s.slotService.ListPublic(s.now())
	if err != nil {
		return nil, err
	}
	next, res := s.wizard.ContinueToPayment(state, slots, items)
	if !res.Valid() {
		return s.reject(ctx, userID, state, next, items, res)
	}
	return s.commit(userID, next, items)
}

// Back 返回上一步
func (s *CheckoutService) Back(_ context.Context, userID uint) (*CheckoutView, error) {
	items, state, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	next, err := s.wizard.Back(state)
	if err != nil {
		view, viewErr := s.view(userID, state, items)
		if viewErr != nil {
			return nil, viewErr
		}
		return view, mapDomainError(err)
	}
	return s.commit(userID, next, items)
}

// Reset 重新开始结算流程
func (s *CheckoutService) Reset(_ context.Context, userID uint) (*CheckoutView, error) {
	items, err := s.cartService.Items(userID)
	if err != nil {
		return nil, err
	}
	return s.commit(userID, checkout.NewState(), items)
}

// SubmitPayment 支付步骤：同一用户同时只允许一个提交；失败停留在支付步骤，购物车保持不变
func (s *CheckoutService) SubmitPayment(ctx context.Context, userID uint, method, idempotencyKey string) (*CheckoutView, error) {
	log := logger.FromContext(ctx)
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if replay, err := s.replay(userID, idempotencyKey); err != nil || replay != nil {
		if err != nil {
			return nil, err
		}
		items, state, loadErr := s.load(userID)
		if loadErr != nil {
			return nil, loadErr
		}
		view, viewErr := s.view(userID, state, items)
		if viewErr != nil {
			return nil, viewErr
		}
		view.Result = replay
		return view, nil
	}

	release, ok, err := s.locker.Acquire(ctx, checkoutLockKey(userID), s.cfg.LockTTL())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCheckoutInFlight
	}
	defer release()

	items, state, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	// 持锁期间残留的提交中标记来自中断的请求
	state.Submitting = false

	next, res := s.wizard.BeginPayment(state, method, items)
	if !res.Valid() {
		return s.reject(ctx, userID, state, next, items, res)
	}
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	if err := s.save(userID, next, idempotencyKey); err != nil {
		return nil, err
	}

	slotID := uint(0)
	if next.SelectedSlotID != nil {
		slotID = *next.SelectedSlotID
	}
	result, submitErr := s.Checkout(ctx, CheckoutInput{
		UserID:         userID,
		PaymentMethod:  next.PaymentMethod,
		IdempotencyKey: idempotencyKey,
		Address:        next.Address,
		SlotID:         slotID,
	})
	next = s.wizard.CompletePayment(next, result.OrderNo, publicCheckoutError(submitErr))
	if err := s.save(userID, next, idempotencyKey); err != nil {
		log.Errorw("checkout_session_save_failed", "user_id", userID, "order_no", result.OrderNo, "error", err)
	}
	if submitErr != nil {
		log.Warnw("checkout_submit_failed", "user_id", userID, "payment_method", next.PaymentMethod, "error", submitErr)
	} else {
		log.Infow("checkout_submit_succeeded", "user_id", userID, "order_no", result.OrderNo, "replayed", result.Replayed)
	}

	view, err := s.view(userID, next, nil)
	if err != nil {
		return nil, err
	}
	view.Result = result
	return view, submitErr
}

// Checkout 下单：成功后清空购物车；失败时购物车不变并返回错误描述
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if replay, err := s.replay(input.UserID, input.IdempotencyKey); err != nil || replay != nil {
		if err != nil {
			return &CheckoutResult{Error: publicCheckoutError(err).Error()}, err
		}
		return replay, nil
	}
	fail := func(err error) (*CheckoutResult, error) {
		return &CheckoutResult{Error: publicCheckoutError(err).Error()}, err
	}

	if input.Address == nil {
		return fail(&ValidationError{Err: ErrAddressInvalid, Fields: []string{"address"}})
	}
	if err := guardError(checkout.ValidateAddress(*input.Address)); err != nil {
		return fail(err)
	}
	if input.SlotID == 0 {
		return fail(&ValidationError{Err: ErrSlotRequired, Fields: []string{"slot_id"}})
	}
	if err := guardError(checkout.ValidatePaymentMethod(input.PaymentMethod, s.wizard.PaymentMethods)); err != nil {
		return fail(err)
	}
	items, err := s.cartService.Items(input.UserID)
	if err != nil {
		return fail(err)
	}
	if err := guardError(cart.ValidateNotEmpty(items)); err != nil {
		return fail(err)
	}

	contact, err := s.prefService.ContactNumber(input.UserID)
	if err != nil {
		return fail(err)
	}
	if contact == "" {
		contact = input.Address.Phone
	}

	submitCtx, cancel := context.WithTimeout(ctx, s.cfg.SubmitTimeout())
	defer cancel()
	order, replayed, err := s.orderService.PlaceOrder(submitCtx, PlaceOrderInput{
		UserID:         input.UserID,
		Items:          items,
		Summary:        s.cartService.Summarize(items),
		Currency:       s.cartService.Currency(),
		Address:        checkout.NormalizeAddress(*input.Address),
		SlotID:         input.SlotID,
		PaymentMethod:  strings.ToUpper(strings.TrimSpace(input.PaymentMethod)),
		ContactNumber:  contact,
		IdempotencyKey: input.IdempotencyKey,
	})
	if err != nil {
		if !errors.Is(err, ErrCheckoutCanceled) && !errors.Is(err, ErrSlotUnavailable) &&
			!errors.Is(err, ErrCartEmpty) && !errors.Is(err, ErrIdempotencyConflict) {
			logger.FromContext(ctx).Errorw("checkout_place_order_failed", "user_id", input.UserID, "slot_id", input.SlotID, "error", err)
			err = fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
		}
		return fail(err)
	}
	return &CheckoutResult{Success: true, OrderID: order.ID, OrderNo: order.OrderNo, Replayed: replayed}, nil
}

// Sweep 清理过期会话并释放残留的提交标记
func (s *CheckoutService) Sweep(ctx context.Context) (int64, int64, error) {
	now := s.now()
	deleted, err := s.sessionRepo.DeleteExpired(now)
	if err != nil {
		return 0, 0, err
	}
	released, err := s.sessionRepo.ReleaseStaleSubmissions(now.Add(-s.cfg.LockTTL()))
	if err != nil {
		return deleted, 0, err
	}
	logger.FromContext(ctx).Infow("checkout_sweep_done", "deleted", deleted, "released", released)
	return deleted, released, nil
}

func (s *CheckoutService) replay(userID uint, key string) (*CheckoutResult, error) {
	if key == "" {
		return nil, nil
	}
	order, err := s.orderService.FindByIdempotencyKey(userID, key)
	if err != nil || order == nil {
		return nil, err
	}
	return &CheckoutResult{Success: true, OrderID: order.ID, OrderNo: order.OrderNo, Replayed: true}, nil
}

// reject 校验失败：空购物车导致的中止需要落库，其余情况状态不变
func (s *CheckoutService) reject(ctx context.Context, userID uint, state, next checkout.State, items []cart.LineItem, res cart.ValidationResult) (*CheckoutView, error) {
	current := state
	if next.Aborted && !state.Aborted {
		if err := s.save(userID, next, ""); err != nil {
			return nil, err
		}
		logger.FromContext(ctx).Infow("checkout_aborted_empty_cart", "user_id", userID, "step", state.Step.String())
		current = next
	}
	view, err := s.view(userID, current, items)
	if err != nil {
		return nil, err
	}
	return view, guardError(res)
}

func (s *CheckoutService) commit(userID uint, state checkout.State, items []cart.LineItem) (*CheckoutView, error) {
	if err := s.save(userID, state, ""); err != nil {
		return nil, err
	}
	return s.view(userID, state, items)
}

func (s *CheckoutService) load(userID uint) ([]cart.LineItem, checkout.State, error) {
	if userID == 0 {
		return nil, checkout.State{}, ErrInvalidCartItem
	}
	items, err := s.cartService.Items(userID)
	if err != nil {
		return nil, checkout.State{}, err
	}
	session, err := s.sessionRepo.GetByUser(userID)
	if err != nil {
		return nil, checkout.State{}, err
	}
	if session == nil || !session.ExpiresAt.After(s.now()) {
		return items, checkout.NewState(), nil
	}
	return items, s.wizard.Resume(stateFromSession(session), items), nil
}

func (s *CheckoutService) save(userID uint, state checkout.State, idempotencyKey string) error {
	now := s.now()
	session := &models.CheckoutSession{
		UserID:         userID,
		Step:           int(state.Step),
		Aborted:        state.Aborted,
		Address:        models.NewAddressSnapshot(state.Address),
		SelectedSlotID: state.SelectedSlotID,
		PaymentMethod:  state.PaymentMethod,
		Submitting:     state.Submitting,
		LastError:      truncate(state.LastError, 500),
		OrderNo:        state.OrderNo,
		IdempotencyKey: idempotencyKey,
		ExpiresAt:      now.Add(s.cfg.SessionTTL()),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return s.sessionRepo.Save(session)
}

func (s *CheckoutService) view(userID uint, state checkout.State, items []cart.LineItem) (*CheckoutView, error) {
	if items == nil {
		loaded, err := s.cartService.Items(userID)
		if err != nil {
			return nil, err
		}
		items = loaded
	}
	if items == nil {
		items = []cart.LineItem{}
	}
	slots, err := s.slotService.ListPublic(s.now())
	if err != nil {
		return nil, err
	}
	return &CheckoutView{
		State:          state,
		StepName:       state.Step.String(),
		Cart:           &CartView{Items: items, Summary: s.cartService.Summarize(items), Currency: s.cartService.Currency()},
		DeliverySlots:  slots,
		PaymentMethods: s.wizard.PaymentMethods,
	}, nil
}

func stateFromSession(session *models.CheckoutSession) checkout.State {
	state := checkout.State{
		Step:           checkout.Step(session.Step),
		Aborted:        session.Aborted,
		Address:        session.Address.Ptr(),
		SelectedSlotID: session.SelectedSlotID,
		PaymentMethod:  session.PaymentMethod,
		Submitting:     session.Submitting,
		LastError:      session.LastError,
		OrderNo:        session.OrderNo,
	}
	if !state.Step.Valid() {
		return checkout.NewState()
	}
	return state
}

func checkoutLockKey(userID uint) string {
	return fmt.Sprintf("checkout:lock:%d", userID)
}

// truncate 按字符截断，避免切断多字节字符
func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
