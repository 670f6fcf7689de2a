package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBotSendMessage(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	bot := NewBot("TOKEN", srv.URL, time.Second)
	if err := bot.SendMessage(context.Background(), 42, "Заказ RU1 отправлен"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if got["chat_id"].(float64) != 42 || got["text"] != "Заказ RU1 отправлен" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestBotErrors(t *testing.T) {
	if err := NewBot("", "", 0).SendMessage(context.Background(), 1, "x"); !errors.Is(err, ErrBotDisabled) {
		t.Fatalf("expected ErrBotDisabled, got %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"Forbidden: bot was blocked by the user"}`))
	}))
	defer srv.Close()
	if err := NewBot("T", srv.URL, time.Second).SendMessage(context.Background(), 1, "x"); !errors.Is(err, ErrBotRequestFailed) {
		t.Fatalf("expected ErrBotRequestFailed, got %v", err)
	}
}
