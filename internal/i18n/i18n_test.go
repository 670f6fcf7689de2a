package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		header string
		query  string
		want   string
	}{
		{header: "en-US,en;q=0.9", want: LocaleEN},
		{header: "ru-RU", want: LocaleRU},
		{header: "de-DE", want: LocaleRU},
		{header: "ru", query: "en", want: LocaleEN},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?lang="+tc.query, nil)
		c.Request.Header.Set("Accept-Language", tc.header)
		if got := ResolveLocale(c); got != tc.want {
			t.Fatalf("header %q query %q want %s got %s", tc.header, tc.query, tc.want, got)
		}
	}
}

func TestTranslateFallbacks(t *testing.T) {
	if got := T(LocaleEN, "error.cart_empty"); got != "Cart is empty" {
		t.Fatalf("unexpected en message %q", got)
	}
	if got := T("fr", "error.cart_empty"); got != "Корзина пуста" {
		t.Fatalf("unknown locale should fall back to ru, got %q", got)
	}
	if got := T(LocaleRU, "error.unknown_key"); got != "error.unknown_key" {
		t.Fatalf("missing key should return key, got %q", got)
	}
	if got := Sprintf(LocaleEN, "error.password_min_length", 8); got != "Password must be at least 8 characters" {
		t.Fatalf("unexpected formatted message %q", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalog[LocaleRU] {
		if _, ok := catalog[LocaleEN][key]; !ok {
			t.Fatalf("en catalog misses %s", key)
		}
	}
	if len(catalog[LocaleRU]) != len(catalog[LocaleEN]) {
		t.Fatalf("catalog sizes differ")
	}
}
