package yookassa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCreateAndGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "shop" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/payments":
			if r.Header.Get("Idempotence-Key") != "pay-1" {
				t.Errorf("missing idempotence key")
			}
			var body map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&body)
			amount := body["amount"].(map[string]interface{})
			if amount["value"] != "1500.00" || amount["currency"] != "RUB" {
				t.Errorf("unexpected amount %+v", amount)
			}
			_, _ = w.Write([]byte(`{"id":"2d1b","status":"pending","paid":false,"amount":{"value":"1500.00","currency":"RUB"},"confirmation":{"type":"redirect","confirmation_url":"https://yoomoney.ru/checkout/2d1b"}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/payments/2d1b":
			_, _ = w.Write([]byte(`{"id":"2d1b","status":"succeeded","paid":true,"amount":{"value":"1500.00","currency":"RUB"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, ShopID: "shop", SecretKey: "secret", ReturnURL: "https://t.me/ramus_bot", Timeout: time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	created, err := client.CreatePayment(context.Background(), CreateInput{Amount: "1500.00", Description: "Заказ RU1", IdempotenceKey: "pay-1"})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if created.ID != "2d1b" || created.ConfirmationURL() != "https://yoomoney.ru/checkout/2d1b" {
		t.Fatalf("unexpected payment %+v", created)
	}
	fetched, err := client.GetPayment(context.Background(), "2d1b")
	if err != nil || fetched.Status != StatusSucceeded || !fetched.Paid {
		t.Fatalf("unexpected fetched payment %+v err=%v", fetched, err)
	}
}

func TestCreatePaymentGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","code":"invalid_request","description":"amount is invalid"}`))
	}))
	defer srv.Close()

	client, _ := NewClient(Config{BaseURL: srv.URL, ShopID: "shop", SecretKey: "secret"})
	if _, err := client.CreatePayment(context.Background(), CreateInput{Amount: "0", IdempotenceKey: "k"}); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if _, err := NewClient(Config{}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestParseNotification(t *testing.T) {
	n, err := ParseNotification([]byte(`{"type":"notification","event":"payment.succeeded","object":{"id":"2d1b","status":"succeeded","paid":true}}`))
	if err != nil || n.Event != EventPaymentSucceeded || n.Object.ID != "2d1b" {
		t.Fatalf("unexpected notification %+v err=%v", n, err)
	}
	if _, err := ParseNotification([]byte(`{"event":"payment.succeeded","object":{}}`)); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected ErrResponseInvalid, got %v", err)
	}
}
