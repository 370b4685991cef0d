package queue

import (
	"encoding/json"

	"github.com/tidecart/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmed 下单成功后的确认通知任务
	TaskOrderConfirmed = constants.TaskOrderConfirmed
	// TaskCheckoutSweep 过期结算会话清理任务
	TaskCheckoutSweep = constants.TaskCheckoutSweep
)

// OrderConfirmedPayload 订单确认任务载荷
type OrderConfirmedPayload struct {
	OrderID uint   `json:"order_id"`
	OrderNo string `json:"order_no"`
	UserID  uint   `json:"user_id"`
}

// CheckoutSweepPayload 会话清理任务载荷
type CheckoutSweepPayload struct {
	Reason string `json:"reason,omitempty"`
}

// NewOrderConfirmedTask 创建订单确认任务
func NewOrderConfirmedTask(payload OrderConfirmedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmed, body), nil
}

// NewCheckoutSweepTask 创建会话清理任务
func NewCheckoutSweepTask(payload CheckoutSweepPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCheckoutSweep, body), nil
}
