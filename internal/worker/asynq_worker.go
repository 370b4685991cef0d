package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidecart/internal/logger"
	"github.com/tidecart/internal/provider"
	"github.com/tidecart/internal/queue"
	"github.com/tidecart/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmed, c.handleOrderConfirmed)
	mux.HandleFunc(queue.TaskCheckoutSweep, c.handleCheckoutSweep)
}

func (c *Consumer) handleOrderConfirmed(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_order_confirmed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderConfirmedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirmed_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_confirmed_skip_invalid_payload", "order_no", payload.OrderNo)
		return nil
	}
	if c.OrderService == nil {
		logger.Warnw("worker_order_confirmed_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	log := logger.SW("order_id", payload.OrderID, "order_no", payload.OrderNo)
	if err := c.OrderService.Confirm(logger.WithContext(ctx, log), payload.OrderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			log.Debugw("worker_order_confirmed_skip_order_not_found")
			return nil
		}
		log.Warnw("worker_order_confirmed_failed", "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleCheckoutSweep(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_checkout_sweep_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CheckoutSweepPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Warnw("worker_checkout_sweep_unmarshal_failed", "error", err)
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
	}
	if c.CheckoutService == nil {
		logger.Warnw("worker_checkout_sweep_skip_service_nil")
		return nil
	}
	ctx = logger.WithContext(ctx, logger.SW("reason", payload.Reason))
	if _, _, err := c.CheckoutService.Sweep(ctx); err != nil {
		logger.Warnw("worker_checkout_sweep_failed", "reason", payload.Reason, "error", err)
		return err
	}
	return nil
}
