package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ram-us/internal/config"
	"github.com/ram-us/internal/i18n"

	"github.com/gin-gonic/gin"
)

type fakeCounter struct {
	hits map[string]int64
	ttl  int64
	err  error
}

func (f *fakeCounter) Hit(_ context.Context, key string, _ Throttle) (int64, int64, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	if f.hits == nil {
		f.hits = map[string]int64{}
	}
	f.hits[key]++
	return f.hits[key], f.ttl, nil
}

func throttledEngine(counter throttleCounter, rule Throttle) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/telegram", throttleMiddleware(counter, rule, KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestThrottleBlocksAfterLimit(t *testing.T) {
	rule := newThrottle("ramus", "telegram_login", config.LoginRateLimitConfig{WindowSeconds: 60, MaxAttempts: 2, BlockSeconds: 300}, "error.login_too_many")
	counter := &fakeCounter{ttl: 290}
	r := throttledEngine(counter, rule)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/telegram", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("attempt %d should pass, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/telegram", nil))
	body := decodeEnvelope(t, w)
	if body.StatusCode != 429 || body.Msg != i18n.Sprintf(i18n.DefaultLocale, "error.login_too_many", 290) {
		t.Fatalf("unexpected throttled response %+v", body)
	}
	if _, ok := counter.hits["ramus:rate:telegram_login:192.0.2.1"]; !ok {
		t.Fatalf("counter key should be scoped, got %v", counter.hits)
	}
}

func TestThrottleCounterFailure(t *testing.T) {
	rule := Throttle{Scope: "s", Window: time.Minute, Limit: 1}
	r := throttledEngine(&fakeCounter{err: errors.New("redis down")}, rule)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/telegram", nil))
	if body := decodeEnvelope(t, w); body.StatusCode != 500 {
		t.Fatalf("expected internal error, got %+v", body)
	}
}

func TestThrottleDisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(nil, Throttle{Window: time.Minute, Limit: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status want 204 got %d", w.Code)
	}

	counter := &fakeCounter{}
	r = throttledEngine(counter, Throttle{Scope: "s"})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/auth/telegram", nil))
	if len(counter.hits) != 0 {
		t.Fatalf("empty rule must not count, got %v", counter.hits)
	}
}

func TestRetryAfter(t *testing.T) {
	rule := Throttle{Window: 45 * time.Second}
	if got := rule.retryAfter(12); got != 12 {
		t.Fatalf("ttl should win, got %d", got)
	}
	if got := rule.retryAfter(-1); got != 45 {
		t.Fatalf("window fallback want 45 got %d", got)
	}
	if got := (Throttle{}).retryAfter(0); got != 1 {
		t.Fatalf("minimum wait want 1 got %d", got)
	}
}

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"username":" Manager "}`))
	c.Request.RemoteAddr = "1.2.3.4:5678"

	if key := KeyByIPAndJSONField("username")(c); key != "manager|1.2.3.4" {
		t.Fatalf("key want manager|1.2.3.4 got %s", key)
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !strings.Contains(string(body), " Manager ") {
		t.Fatalf("request body should be restored, got %q err=%v", body, err)
	}

	c.Request = httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"username":42}`))
	c.Request.RemoteAddr = "1.2.3.4:5678"
	if key := KeyByIPAndJSONField("username")(c); key != "1.2.3.4" {
		t.Fatalf("non-string field should fall back to ip, got %s", key)
	}
}

func TestKeyByUserOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/me/chat", nil)
	c.Request.RemoteAddr = "5.6.7.8:1234"

	if key := KeyByUserOrIP(c); key != "5.6.7.8" {
		t.Fatalf("anonymous key want 5.6.7.8 got %s", key)
	}
	c.Set("user_id", uint(42))
	if key := KeyByUserOrIP(c); key != "user:42" {
		t.Fatalf("user key want user:42 got %s", key)
	}
}
