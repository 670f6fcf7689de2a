package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ram-us/internal/config"
	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/i18n"
	"github.com/ram-us/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// ThrottleKeyFunc 从请求中提取限流主体
type ThrottleKeyFunc func(*gin.Context) string

// Throttle 固定窗口限流：Window 内最多 Limit 次，超出后封禁 Block
type Throttle struct {
	Scope  string
	Window time.Duration
	Limit  int
	Block  time.Duration
	MsgKey string
}

func newThrottle(prefix, scope string, cfg config.LoginRateLimitConfig, msgKey string) Throttle {
	return Throttle{
		Scope:  prefix + ":rate:" + scope,
		Window: time.Duration(cfg.WindowSeconds) * time.Second,
		Limit:  cfg.MaxAttempts,
		Block:  time.Duration(cfg.BlockSeconds) * time.Second,
		MsgKey: msgKey,
	}
}

func (t Throttle) enabled() bool {
	return t.Window >= time.Second && t.Limit > 0
}

// retryAfter 超限后提示的等待秒数，至少 1 秒
func (t Throttle) retryAfter(ttl int64) int {
	if ttl > 0 {
		return int(ttl)
	}
	if w := int(t.Window / time.Second); w > 0 {
		return w
	}
	return 1
}

// throttleCounter 计数一次，返回窗口内次数与剩余秒数
type throttleCounter interface {
	Hit(ctx context.Context, key string, rule Throttle) (count int64, ttl int64, err error)
}

var errThrottleReply = errors.New("unexpected throttle reply")

var throttleScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local block = tonumber(ARGV[3])
if n == tonumber(ARGV[2]) + 1 and block > 0 then
	redis.call("EXPIRE", KEYS[1], block)
end
return {n, redis.call("TTL", KEYS[1])}
`)

type redisCounter struct {
	client redis.Scripter
}

func (r redisCounter) Hit(ctx context.Context, key string, rule Throttle) (int64, int64, error) {
	reply, err := throttleScript.Run(ctx, r.client, []string{key},
		int64(rule.Window/time.Second), rule.Limit, int64(rule.Block/time.Second)).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(reply) != 2 {
		return 0, 0, errThrottleReply
	}
	return reply[0], reply[1], nil
}

// RateLimitMiddleware Redis 限流；未配置 Redis 或规则为空时放行
func RateLimitMiddleware(client *redis.Client, rule Throttle, keyOf ThrottleKeyFunc) gin.HandlerFunc {
	if client == nil {
		return throttleMiddleware(nil, rule, keyOf)
	}
	return throttleMiddleware(redisCounter{client: client}, rule, keyOf)
}

func throttleMiddleware(counter throttleCounter, rule Throttle, keyOf ThrottleKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || !rule.enabled() {
			c.Next()
			return
		}
		subject := ""
		if keyOf != nil {
			subject = strings.TrimSpace(keyOf(c))
		}
		if subject == "" {
			subject = c.ClientIP()
		}

		count, ttl, err := counter.Hit(c.Request.Context(), rule.Scope+":"+subject, rule)
		if err != nil {
			logger.Warnw("throttle_unavailable", "scope", rule.Scope, "request_id", getRequestID(c), "error", err)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable"))
			c.Abort()
			return
		}
		if count <= int64(rule.Limit) {
			c.Next()
			return
		}

		msgKey := rule.MsgKey
		if msgKey == "" {
			msgKey = "error.rate_limited"
		}
		response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(i18n.ResolveLocale(c), msgKey, rule.retryAfter(ttl)))
		c.Abort()
	}
}

// KeyByIP 按客户端 IP
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByUserOrIP 已登录买家按用户，匿名按 IP
func KeyByUserOrIP(c *gin.Context) string {
	if uid, ok := c.Get("user_id"); ok {
		if id, ok := uid.(uint); ok && id > 0 {
			return "user:" + strconv.FormatUint(uint64(id), 10)
		}
	}
	return c.ClientIP()
}

// KeyByIPAndJSONField 登录名 + IP，读取后恢复请求体
func KeyByIPAndJSONField(field string) ThrottleKeyFunc {
	return func(c *gin.Context) string {
		name := strings.ToLower(peekJSONString(c, field))
		if name == "" {
			return c.ClientIP()
		}
		return name + "|" + c.ClientIP()
	}
}

func peekJSONString(c *gin.Context, field string) string {
	if c.Request == nil || c.Request.Body == nil {
		return ""
	}
	raw, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	var value string
	if err := json.Unmarshal(fields[field], &value); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
