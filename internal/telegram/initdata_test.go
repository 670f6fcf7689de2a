package telegram

import (
	"errors"
	"net/url"
	"strconv"
	"testing"
	"time"
)

const testBotToken = "123456:TEST-token"

func buildInitData(t *testing.T, authDate time.Time, user string) string {
	t.Helper()
	values := url.Values{}
	values.Set("query_id", "AAH")
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	values.Set("user", user)
	values.Set("hash", SignInitData(values, testBotToken))
	return values.Encode()
}

func TestValidateInitData(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	raw := buildInitData(t, now.Add(-time.Minute), `{"id":777,"first_name":"Иван","username":"ivan","language_code":"ru"}`)

	data, err := ValidateInitData(raw, testBotToken, time.Hour, now)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if data.User.ID != 777 || data.User.Username != "ivan" || data.QueryID != "AAH" {
		t.Fatalf("unexpected init data %+v", data)
	}
}

func TestValidateInitDataRejectsTampering(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	raw := buildInitData(t, now, `{"id":777}`)
	values, _ := url.ParseQuery(raw)
	values.Set("user", `{"id":1}`)

	if _, err := ValidateInitData(values.Encode(), testBotToken, time.Hour, now); !errors.Is(err, ErrHashMismatch) {
		t.Fatalf("expected ErrHashMismatch, got %v", err)
	}
	if _, err := ValidateInitData(raw, "other:token", time.Hour, now); !errors.Is(err, ErrHashMismatch) {
		t.Fatalf("expected ErrHashMismatch for other bot, got %v", err)
	}
}

func TestValidateInitDataExpired(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	raw := buildInitData(t, now.Add(-2*time.Hour), `{"id":777}`)

	if _, err := ValidateInitData(raw, testBotToken, time.Hour, now); !errors.Is(err, ErrInitDataExpired) {
		t.Fatalf("expected ErrInitDataExpired, got %v", err)
	}
	if _, err := ValidateInitData(raw, testBotToken, 0, now); err != nil {
		t.Fatalf("max age 0 should skip freshness check: %v", err)
	}
}
