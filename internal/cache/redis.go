package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ram-us/internal/config"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix 未配置前缀时的 key 命名空间
const DefaultPrefix = "ramus"

const pingTimeout = 3 * time.Second

type backend struct {
	client *redis.Client
	prefix string
}

var current atomic.Pointer[backend]

// InitRedis 连接 Redis；未启用或连不上时缓存保持关闭，调用方回退到数据库
func InitRedis(cfg *config.RedisConfig) error {
	current.Store(nil)
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis ping: %w", err)
	}
	use(client, cfg.Prefix)
	return nil
}

func use(client *redis.Client, prefix string) {
	if client == nil {
		current.Store(nil)
		return
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	current.Store(&backend{client: client, prefix: prefix})
}

func redisAddr(host string, port int) string {
	host = strings.TrimSpace(host)
	if host == "" {
		host = "127.0.0.1"
	}
	if port <= 0 {
		port = 6379
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Enabled 缓存是否可用
func Enabled() bool {
	return current.Load() != nil
}

// Client 原始客户端，未启用返回 nil
func Client() *redis.Client {
	if b := current.Load(); b != nil {
		return b.client
	}
	return nil
}

// Prefix 当前 key 前缀
func Prefix() string {
	if b := current.Load(); b != nil {
		return b.prefix
	}
	return DefaultPrefix
}

// GetJSON 读取并解码，未命中返回 false
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, hit, err := GetBytes(ctx, key)
	if err != nil || !hit {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cache %s: %w", key, err)
	}
	return true, nil
}

// SetJSON 编码后写入
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return SetBytes(ctx, key, payload, ttl)
}

// GetBytes 读取原始值
func GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	b := current.Load()
	if b == nil {
		return nil, false, nil
	}
	val, err := b.client.Get(ctx, b.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return val, true, nil
}

// SetBytes 写入原始值，ttl 为 0 表示不过期
func SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	b := current.Load()
	if b == nil {
		return nil
	}
	return b.client.Set(ctx, b.key(key), value, ttl).Err()
}

// Del 删除
func Del(ctx context.Context, key string) error {
	b := current.Load()
	if b == nil {
		return nil
	}
	return b.client.Del(ctx, b.key(key)).Err()
}

func (b *backend) key(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return b.prefix
	}
	return b.prefix + ":" + key
}
