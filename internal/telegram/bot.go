package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrBotDisabled      = errors.New("telegram bot is not configured")
	ErrBotRequestFailed = errors.New("telegram bot request failed")
)

const defaultBotAPIBaseURL = "https://api.telegram.org"

// Bot Telegram Bot API 客户端（仅用于推送通知）
type Bot struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewBot 创建 Bot 客户端
func NewBot(token, baseURL string, timeout time.Duration) *Bot {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBotAPIBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Bot{
		token:      strings.TrimSpace(token),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled 是否已配置 Token
func (b *Bot) Enabled() bool {
	return b != nil && b.token != ""
}

// SendMessage 发送文本消息
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	if !b.Enabled() {
		return ErrBotDisabled
	}
	payload, err := json.Marshal(map[string]interface{}{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	})
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", b.baseURL, b.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBotRequestFailed, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("%w: http status %d", ErrBotRequestFailed, resp.StatusCode)
	}
	if !result.OK {
		return fmt.Errorf("%w: %s", ErrBotRequestFailed, result.Description)
	}
	return nil
}
