package app

import (
	"errors"
	"net"

	"github.com/ram-us/internal/config"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/provider"
	"github.com/ram-us/internal/router"
	"github.com/ram-us/internal/worker"
)

func runsHTTP(mode string) bool {
	return mode == ModeAll || mode == ModeAPI
}

// runsWorker all 模式下队列关闭时跳过 worker；worker 模式强制要求队列
func runsWorker(mode string, queueEnabled bool) bool {
	return mode == ModeWorker || (mode == ModeAll && queueEnabled)
}

// BuildRunner 按模式组装 HTTP 与 worker 服务
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	container := provider.NewContainer(cfg)

	var services []Service
	if runsHTTP(mode) {
		services = append(services, NewHTTPService(cfg.Server, router.SetupRouter(cfg, container)))
	}
	if runsWorker(mode, cfg.Queue.Enabled) {
		svc, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	} else if mode == ModeAll {
		logger.Warnw("app_worker_skipped", "reason", "queue disabled")
	}
	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return NewRunner(services...), nil
}

// Run 校验模式后运行直到收到退出信号
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	if err := ValidateMode(opts.Mode); err != nil {
		return err
	}
	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	opts.Logger.Infow("app_start",
		"addr", net.JoinHostPort(opts.Config.Server.Host, opts.Config.Server.Port),
		"mode", opts.Mode,
		"services", len(runner.Services()),
	)
	return RunWithOptions(runner, opts)
}
