package queue

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ram-us/internal/config"
	"github.com/ram-us/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue 通知、订阅等普通任务队列
const DefaultQueue = constants.QueueDefault

const defaultConcurrency = 10

// Client 投递异步任务；队列未启用时投递为空操作
type Client struct {
	inner *asynq.Client
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{inner: asynq.NewClient(RedisOpt(cfg))}, nil
}

// Enabled 队列是否可用
func (c *Client) Enabled() bool {
	return c != nil && c.inner != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.inner.Close()
}

// EnqueueOrderStatusNotify 投递订单状态通知，最多重试 3 次
func (c *Client) EnqueueOrderStatusNotify(payload OrderStatusNotifyPayload, opts ...asynq.Option) error {
	base := []asynq.Option{asynq.Queue(DefaultQueue), asynq.MaxRetry(3)}
	return c.enqueue(TaskOrderStatusNotify, payload, append(base, opts...)...)
}

// EnqueueOrderTimeoutCancel 投递超时取消；同一订单只保留一个任务
func (c *Client) EnqueueOrderTimeoutCancel(payload OrderTimeoutCancelPayload, delay time.Duration) error {
	return c.enqueue(TaskOrderTimeoutCancel, payload,
		asynq.Queue(constants.QueueCritical),
		asynq.ProcessIn(nonNegative(delay)),
		asynq.TaskID("order-timeout:"+strconv.FormatUint(uint64(payload.OrderID), 10)),
	)
}

// EnqueueSellerSubscriptionExpire 投递订阅到期检查；续期会再投一次，到期时以库内时间为准
func (c *Client) EnqueueSellerSubscriptionExpire(payload SellerSubscriptionExpirePayload, delay time.Duration) error {
	return c.enqueue(TaskSellerSubscriptionExpire, payload,
		asynq.Queue(DefaultQueue),
		asynq.ProcessIn(nonNegative(delay)),
	)
}

func (c *Client) enqueue(taskType string, payload interface{}, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := newTask(taskType, payload)
	if err != nil {
		return err
	}
	if _, err := c.inner.Enqueue(task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

// BuildServerConfig worker 端连接与并发配置，critical 队列优先
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{constants.QueueCritical: 6, DefaultQueue: 3},
	}
	if cfg != nil && cfg.Concurrency > 0 {
		serverCfg.Concurrency = cfg.Concurrency
	}
	if cfg != nil && len(cfg.Queues) > 0 {
		serverCfg.Queues = cfg.Queues
	}
	return RedisOpt(cfg), serverCfg
}

// RedisOpt 队列 Redis 连接参数，默认 127.0.0.1:6379
func RedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host, port := strings.TrimSpace(cfg.Host), "6379"
	if host == "" {
		host = "127.0.0.1"
	}
	if cfg.Port > 0 {
		port = strconv.Itoa(cfg.Port)
	}
	opt.Addr = net.JoinHostPort(host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
