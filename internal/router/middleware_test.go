package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ram-us/internal/config"
	"github.com/ram-us/internal/i18n"
	"github.com/ram-us/internal/metrics"
	"github.com/ram-us/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type envelopeBody struct {
	StatusCode int    `json:"status_code"`
	Msg        string `json:"msg"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var body envelopeBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return body
}

func TestResolveAllowedOriginForMiniApp(t *testing.T) {
	allowed := []string{"https://web.telegram.org", "https://ram-us.ru"}
	if got := resolveAllowedOrigin("https://web.telegram.org", allowed, true); got != "https://web.telegram.org" {
		t.Fatalf("telegram origin should be echoed, got %q", got)
	}
	if got := resolveAllowedOrigin("https://evil.example", allowed, true); got != "" {
		t.Fatalf("unknown origin must be rejected, got %q", got)
	}
	if got := resolveAllowedOrigin("https://ram-us.ru", []string{"*"}, false); got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"https://web.telegram.org"}}))
	r.POST("/api/v1/me/cart/items", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/me/cart/items", nil)
	req.Header.Set("Origin", "https://web.telegram.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://web.telegram.org" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestRequestIDMiddlewareEchoesOrGenerates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, getRequestID(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)
	if w.Header().Get(requestIDHeader) != "req-123" || w.Body.String() != "req-123" {
		t.Fatalf("request id should be propagated, header=%q body=%q", w.Header().Get(requestIDHeader), w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if generated := w.Header().Get(requestIDHeader); generated == "" || generated != w.Body.String() {
		t.Fatalf("generated request id mismatch, header=%q body=%q", generated, w.Body.String())
	}
}

func TestAdminJWTMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware("", nil))
	r.GET("/admin/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
	if body := decodeEnvelope(t, w); body.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", body.StatusCode)
	}
}

func TestUserJWTMiddlewareRejectsBadTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(UserJWTAuthMiddleware("buyer-secret", &service.UserAuthService{}))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, service.UserJWTClaims{UserID: 1}).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	cases := []struct {
		name   string
		header string
		key    string
	}{
		{"missing", "", "error.auth_header_missing"},
		{"not bearer", "Token abc", "error.auth_header_invalid"},
		{"forged", "Bearer " + forged, "error.token_invalid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			body := decodeEnvelope(t, w)
			if body.StatusCode != 401 || body.Msg != i18n.T(i18n.DefaultLocale, tc.key) {
				t.Fatalf("unexpected response %+v", body)
			}
		})
	}
}

func TestMetricsMiddlewareNoop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MetricsMiddleware(metrics.New(nil)))
	r.GET("/api/v1/public/products/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/public/products/5", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("metrics middleware must not alter response, got %d", w.Code)
	}
}

func TestIsActiveUserStatus(t *testing.T) {
	if !isActiveUserStatus(" Active ") || isActiveUserStatus("disabled") {
		t.Fatalf("unexpected active status check")
	}
}
