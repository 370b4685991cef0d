package checkout

import (
	"strings"

	"github.com/tidecart/internal/cart"
)

// State 结算向导状态
type State struct {
	Step           Step          `json:"step"`
	Aborted        bool          `json:"aborted"`
	Address        *cart.Address `json:"address,omitempty"`
	SelectedSlotID *uint         `json:"selected_slot_id,omitempty"`
	PaymentMethod  string        `json:"payment_method,omitempty"`
	Submitting     bool          `json:"submitting"`
	LastError      string        `json:"last_error,omitempty"`
	OrderNo        string        `json:"order_no,omitempty"`
}

// NewState 初始状态
func NewState() State {
	return State{Step: StepAddress}
}

// Wizard 四步结算状态机：地址 -> 配送时段 -> 支付 -> 确认
// 所有转换都是纯函数；校验失败时状态不变，空购物车时返回已中止的状态
type Wizard struct {
	PaymentMethods []string
}

// Guard 空购物车守卫：非确认步骤下购物车为空则退出流程
func (w Wizard) Guard(state State, items []cart.LineItem) (State, error) {
	if state.Step.Terminal() {
		return state, nil
	}
	if state.Aborted {
		return state, ErrAborted
	}
	if res := cart.ValidateNotEmpty(items); !res.Valid() {
		state.Aborted = true
		state.Submitting = false
		return state, ErrAborted
	}
	return state, nil
}

// SubmitAddress 地址步骤提交
func (w Wizard) SubmitAddress(state State, addr cart.Address, items []cart.LineItem) (State, cart.ValidationResult) {
	next, err := w.require(state, items, StepAddress)
	if err != nil {
		return next, cart.Fail(err)
	}
	res := ValidateAddress(addr)
	if !res.Valid() {
		return state, res
	}
	normalized := NormalizeAddress(addr)
	next.Address = &normalized
	next.Step = StepDelivery
	next.LastError = ""
	return next, cart.Pass()
}

// Resume 已中止或已下单的会话在购物车重新有商品时从地址步骤重新开始
func (w Wizard) Resume(state State, items []cart.LineItem) State {
	if !state.Aborted && !state.Step.Terminal() {
		return state
	}
	if res := cart.ValidateNotEmpty(items); !res.Valid() {
		return state
	}
	return NewState()
}

// SelectSlot 选择配送时段，仅接受可用时段
func (w Wizard) SelectSlot(state State, slots []cart.DeliverySlot, slotID uint, items []cart.LineItem) (State, cart.ValidationResult) {
	next, err := w.require(state, items, StepDelivery)
	if err != nil {
		return next, cart.Fail(err)
	}
	if res := cart.ValidateSlot(slots, slotID); !res.Valid() {
		return state, res
	}
	id := slotID
	next.SelectedSlotID = &id
	return next, cart.Pass()
}

// CanContinueToPayment 时段已选且仍可用
func (w Wizard) CanContinueToPayment(state State, slots []cart.DeliverySlot) cart.ValidationResult {
	if state.Step != StepDelivery {
		return cart.Fail(ErrStepInvalid)
	}
	if state.SelectedSlotID == nil {
		return cart.Fail(cart.ErrSlotNotSelected, "slot_id")
	}
	return cart.ValidateSlot(slots, *state.SelectedSlotID)
}

// ContinueToPayment 配送时段 -> 支付
func (w Wizard) ContinueToPayment(state State, slots []cart.DeliverySlot, items []cart.LineItem) (State, cart.ValidationResult) {
	next, err := w.require(state, items, StepDelivery)
	if err != nil {
		return next, cart.Fail(err)
	}
	if res := w.CanContinueToPayment(next, slots); !res.Valid() {
		return state, res
	}
	next.Step = StepPayment
	return next, cart.Pass()
}

// BeginPayment 校验支付并标记提交中；返回的状态需在下单结束后交给 CompletePayment
func (w Wizard) BeginPayment(state State, method string, items []cart.LineItem) (State, cart.ValidationResult) {
	next, err := w.require(state, items, StepPayment)
	if err != nil {
		return next, cart.Fail(err)
	}
	if next.Submitting {
		return state, cart.Fail(ErrSubmitting)
	}
	if res := ValidatePaymentMethod(method, w.PaymentMethods); !res.Valid() {
		return state, res
	}
	next.PaymentMethod = strings.ToUpper(strings.TrimSpace(method))
	next.Submitting = true
	next.LastError = ""
	return next, cart.Pass()
}

// CompletePayment 下单结束：成功进入确认页，失败停留在支付步骤并记录错误
func (w Wizard) CompletePayment(state State, orderNo string, submitErr error) State {
	state.Submitting = false
	if state.Step != StepPayment {
		return state
	}
	if submitErr != nil {
		state.LastError = submitErr.Error()
		return state
	}
	state.OrderNo = orderNo
	state.LastError = ""
	state.Step = StepConfirmation
	return state
}

// Back 返回上一步（仅配送与支付步骤）
func (w Wizard) Back(state State) (State, error) {
	if state.Aborted {
		return state, ErrAborted
	}
	if state.Submitting {
		return state, ErrSubmitting
	}
	switch state.Step {
	case StepDelivery:
		state.Step = StepAddress
	case StepPayment:
		state.Step = StepDelivery
	case StepConfirmation:
		return state, ErrCompleted
	default:
		return state, ErrStepInvalid
	}
	state.LastError = ""
	return state, nil
}

func (w Wizard) require(state State, items []cart.LineItem, step Step) (State, error) {
	if state.Step.Terminal() {
		return state, ErrCompleted
	}
	next, err := w.Guard(state, items)
	if err != nil {
		return next, err
	}
	if next.Step != step {
		return next, ErrStepInvalid
	}
	return next, nil
}
