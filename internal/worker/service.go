package worker

import (
	"context"
	"errors"
	"strings"

	"github.com/tidecart/internal/config"
	"github.com/tidecart/internal/logger"
	"github.com/tidecart/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultSweepCron = "@every 10m"

// Service 异步队列服务（消费者 + 定时清理调度）
type Service struct {
	name      string
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	consumer  *Consumer
	sweepCron string
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:      "worker",
		server:    server,
		scheduler: asynq.NewScheduler(opt, &asynq.SchedulerOpts{Logger: logger.SW("component", "asynq_scheduler")}),
		mux:       mux,
		consumer:  consumer,
		sweepCron: resolveSweepCron(cfg.SweepIntervalCron),
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务，阻塞直到消费者退出
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.scheduler != nil {
		if err := s.registerSchedules(); err != nil {
			return err
		}
		if err := s.scheduler.Start(); err != nil {
			return err
		}
		logger.Infow("worker_scheduler_started", "sweep_cron", s.sweepCron)
	}
	go func() {
		<-ctx.Done()
		_ = s.Stop(context.Background())
	}()
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	if s.scheduler != nil {
		s.scheduler.Shutdown()
	}
	s.server.Shutdown()
	return nil
}

func (s *Service) registerSchedules() error {
	task, err := queue.NewCheckoutSweepTask(queue.CheckoutSweepPayload{Reason: "scheduled"})
	if err != nil {
		return err
	}
	entryID, err := s.scheduler.Register(s.sweepCron, task, asynq.Queue(queue.DefaultQueue), asynq.MaxRetry(1))
	if err != nil {
		logger.Errorw("worker_schedule_register_failed", "task", queue.TaskCheckoutSweep, "cron", s.sweepCron, "error", err)
		return err
	}
	logger.Debugw("worker_schedule_registered", "task", queue.TaskCheckoutSweep, "entry_id", entryID)
	return nil
}

func resolveSweepCron(spec string) string {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return defaultSweepCron
	}
	return spec
}
