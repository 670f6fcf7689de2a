package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/provider"
	"github.com/ram-us/internal/queue"
	"github.com/ram-us/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 处理 queue 包定义的异步任务
type Consumer struct {
	*provider.Container
}

// NewConsumer 基于服务容器创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

type taskHandler func(context.Context, *asynq.Task) error

// Register 挂载全部任务处理器，每个处理器都记录耗时指标
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		return
	}
	for name, handle := range map[string]taskHandler{
		queue.TaskOrderStatusNotify:        c.handleOrderStatusNotify,
		queue.TaskOrderTimeoutCancel:       c.handleOrderTimeoutCancel,
		queue.TaskSellerSubscriptionExpire: c.handleSellerSubscriptionExpire,
	} {
		mux.HandleFunc(name, c.observe(name, handle))
	}
}

func (c *Consumer) observe(job string, next taskHandler) taskHandler {
	return func(ctx context.Context, task *asynq.Task) error {
		start := time.Now()
		err := next(ctx, task)
		if c != nil && c.Container != nil {
			c.Metrics.ObserveJob(job, time.Since(start), err)
		}
		return err
	}
}

// decodePayload 载荷损坏时不再重试
func decodePayload[P any](task *asynq.Task) (P, error) {
	var payload P
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payload_invalid", "task", task.Type(), "error", err)
		return payload, fmt.Errorf("decode %s: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return payload, nil
}

// ignorable 业务对象已不存在，任务视为完成
func ignorable(err error) bool {
	return errors.Is(err, service.ErrOrderNotFound) || errors.Is(err, service.ErrSellerNotFound)
}

func (c *Consumer) handleOrderStatusNotify(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	payload, err := decodePayload[queue.OrderStatusNotifyPayload](task)
	if err != nil || payload.OrderID == 0 || c.NotificationService == nil {
		return err
	}
	err = c.NotificationService.SendOrderStatus(ctx, payload.OrderID, payload.Status)
	if err != nil && !ignorable(err) {
		logger.Warnw("worker_order_notify_failed", "order_id", payload.OrderID, "status", payload.Status, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderTimeoutCancel(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	payload, err := decodePayload[queue.OrderTimeoutCancelPayload](task)
	if err != nil || payload.OrderID == 0 || c.OrderService == nil {
		return err
	}
	order, err := c.OrderService.CancelExpiredOrder(ctx, payload.OrderID)
	switch {
	case err == nil:
		if order != nil && order.Status == constants.OrderStatusCanceled {
			logger.Infow("worker_order_timeout_canceled", "order_id", payload.OrderID)
		}
		return nil
	case ignorable(err):
		return nil
	case errors.Is(err, service.ErrOrderFetchFailed):
		// 周期清扫会再处理
		logger.Warnw("worker_order_timeout_fetch_failed", "order_id", payload.OrderID, "error", err)
		return nil
	default:
		logger.Warnw("worker_order_timeout_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
}

func (c *Consumer) handleSellerSubscriptionExpire(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	payload, err := decodePayload[queue.SellerSubscriptionExpirePayload](task)
	if err != nil || payload.SellerID == 0 || c.SellerService == nil {
		return err
	}
	err = c.SellerService.HandleSubscriptionExpired(ctx, payload.SellerID)
	if err != nil && !ignorable(err) {
		logger.Warnw("worker_subscription_expire_failed", "seller_id", payload.SellerID, "error", err)
		return err
	}
	return nil
}
