package app

import (
	"errors"

	"github.com/tidecart/internal/cache"
	"github.com/tidecart/internal/config"
	"github.com/tidecart/internal/logger"
	"github.com/tidecart/internal/provider"
	"github.com/tidecart/internal/router"
	"github.com/tidecart/internal/worker"
)

// BuildRunner 按模式组装 HTTP 与 Worker 服务
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, nil, err
	}

	container := provider.NewContainer(cfg)

	var services []Service
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Addr(), engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		switch {
		case cfg.Queue.Enabled:
			workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
			if err != nil {
				return nil, nil, err
			}
			services = append(services, workerService)
		case mode == ModeWorker:
			return nil, nil, errors.New("worker mode requires queue.enabled=true")
		default:
			// 队列关闭时订单确认同步执行，定时清理不可用
			logger.Warnw("app_worker_skipped", "reason", "queue_disabled")
		}
	}

	if len(services) == 0 {
		return nil, nil, errors.New("no services initialized (check mode and config)")
	}
	return NewRunner(services...), container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer func() {
		if container.QueueClient != nil {
			_ = container.QueueClient.Close()
		}
		_ = cache.Close()
	}()

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
