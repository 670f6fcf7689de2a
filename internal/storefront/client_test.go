package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientDecodesEnvelopeAndPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/public/products" || r.URL.Query().Get("category_id") != "7" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status_code": 0,
			"msg":         "success",
			"data":        []map[string]interface{}{{"id": 1, "name": "Фильтр", "price_rub": "450.00"}},
			"pagination":  map[string]interface{}{"page": 2, "page_size": 10, "total": 11},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/api/v1", time.Second)
	page, err := NewCatalog(client).Browse(context.Background(), ProductQuery{Page: 2, PageSize: 10, CategoryID: 7})
	if err != nil {
		t.Fatalf("browse failed: %v", err)
	}
	if page.Total != 11 || len(page.Items) != 1 || page.Items[0].PriceRub.StringFixed(2) != "450.00" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestClientBusinessError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tkn" {
			t.Errorf("missing bearer token")
		}
		_, _ = w.Write([]byte(`{"status_code":404,"msg":"not found","data":null}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if _, err := client.ToggleFavorite(context.Background(), 1); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	client.SetToken("tkn")
	_, err := client.ToggleFavorite(context.Background(), 1)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 {
		t.Fatalf("expected APIError 404, got %v", err)
	}
}
