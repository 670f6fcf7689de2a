package worker

import (
	"context"
	"errors"
	"time"

	"github.com/ram-us/internal/config"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/metrics"
	"github.com/ram-us/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	sweepInterval = time.Minute
	sweepBatch    = 100
	sweepJob      = "order:expired_sweep"
)

var errWorkerNotReady = errors.New("worker not initialized")

// expiredOrderCanceler 批量取消过期待支付订单
type expiredOrderCanceler interface {
	CancelExpiredOrders(ctx context.Context, now time.Time, limit int) (int, error)
}

// Service asynq 消费服务，附带过期订单兜底扫描
type Service struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	sweeper *sweeper
}

// NewService 队列未启用时返回错误，调用方应跳过 worker
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	svc := &Service{
		server: asynq.NewServer(queue.BuildServerConfig(cfg)),
		mux:    mux,
	}
	if consumer.Container != nil && consumer.OrderService != nil {
		svc.sweeper = newSweeper(consumer.OrderService, consumer.Metrics, sweepInterval)
	}
	return svc, nil
}

// Name 服务名称
func (s *Service) Name() string { return "worker" }

// Start 阻塞运行直至 Shutdown
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errWorkerNotReady
	}
	if s.sweeper != nil {
		go s.sweeper.run(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 等待进行中的任务结束
func (s *Service) Stop(context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}

// sweeper 兜底取消延迟任务丢失的过期订单
type sweeper struct {
	orders   expiredOrderCanceler
	metrics  *metrics.Metrics
	interval time.Duration
	now      func() time.Time
}

func newSweeper(orders expiredOrderCanceler, m *metrics.Metrics, interval time.Duration) *sweeper {
	return &sweeper{orders: orders, metrics: m, interval: interval, now: time.Now}
}

func (w *sweeper) run(ctx context.Context) {
	w.once(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.once(ctx)
		}
	}
}

func (w *sweeper) once(ctx context.Context) int {
	start := w.now()
	canceled, err := w.orders.CancelExpiredOrders(ctx, start, sweepBatch)
	w.metrics.ObserveJob(sweepJob, w.now().Sub(start), err)
	if err != nil {
		logger.Warnw("worker_expired_order_sweep_failed", "error", err)
		return 0
	}
	if canceled > 0 {
		logger.Infow("worker_expired_order_sweep_done", "canceled", canceled)
	}
	return canceled
}
