package yookassa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("yookassa config invalid")
	ErrRequestFailed   = errors.New("yookassa request failed")
	ErrResponseInvalid = errors.New("yookassa response invalid")
)

// 支付状态
const (
	StatusPending           = "pending"
	StatusWaitingForCapture = "waiting_for_capture"
	StatusSucceeded         = "succeeded"
	StatusCanceled          = "canceled"
)

// 通知事件
const (
	EventPaymentSucceeded         = "payment.succeeded"
	EventPaymentWaitingForCapture = "payment.waiting_for_capture"
	EventPaymentCanceled          = "payment.canceled"
)

const DefaultBaseURL = "https://api.yookassa.ru/v3"

// Config 商户配置
type Config struct {
	BaseURL   string
	ShopID    string
	SecretKey string
	ReturnURL string
	Timeout   time.Duration
}

// Amount 金额，value 为两位小数字符串
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Payment 支付对象
type Payment struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Paid         bool              `json:"paid"`
	Amount       Amount            `json:"amount"`
	Description  string            `json:"description"`
	Metadata     map[string]string `json:"metadata"`
	CreatedAt    time.Time         `json:"created_at"`
	Confirmation *struct {
		Type            string `json:"type"`
		ConfirmationURL string `json:"confirmation_url"`
	} `json:"confirmation,omitempty"`
	CancellationDetails *struct {
		Party  string `json:"party"`
		Reason string `json:"reason"`
	} `json:"cancellation_details,omitempty"`
}

// ConfirmationURL 跳转支付地址
func (p *Payment) ConfirmationURL() string {
	if p == nil || p.Confirmation == nil {
		return ""
	}
	return p.Confirmation.ConfirmationURL
}

// CreateInput 创建支付输入
type CreateInput struct {
	Amount         string
	Description    string
	IdempotenceKey string
	ReturnURL      string
	Metadata       map[string]string
}

// Notification 异步通知
type Notification struct {
	Type   string  `json:"type"`
	Event  string  `json:"event"`
	Object Payment `json:"object"`
}

// Client YooKassa API 客户端
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient 创建客户端
func NewClient(cfg Config) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.ShopID = strings.TrimSpace(cfg.ShopID)
	cfg.SecretKey = strings.TrimSpace(cfg.SecretKey)
	if cfg.ShopID == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: shop_id and secret_key are required", ErrConfigInvalid)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}}, nil
}

// CreatePayment 创建一次性支付（自动确认收款，redirect 方式）
func (c *Client) CreatePayment(ctx context.Context, input CreateInput) (*Payment, error) {
	if strings.TrimSpace(input.Amount) == "" || strings.TrimSpace(input.IdempotenceKey) == "" {
		return nil, fmt.Errorf("%w: amount and idempotence key are required", ErrConfigInvalid)
	}
	returnURL := input.ReturnURL
	if returnURL == "" {
		returnURL = c.cfg.ReturnURL
	}
	body := map[string]interface{}{
		"amount":       Amount{Value: input.Amount, Currency: "RUB"},
		"capture":      true,
		"confirmation": map[string]string{"type": "redirect", "return_url": returnURL},
		"description":  truncate(input.Description, 128),
	}
	if len(input.Metadata) > 0 {
		body["metadata"] = input.Metadata
	}
	var payment Payment
	if err := c.do(ctx, http.MethodPost, "/payments", input.IdempotenceKey, body, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPayment 查询支付
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, fmt.Errorf("%w: payment id is required", ErrConfigInvalid)
	}
	var payment Payment
	if err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(paymentID), "", nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// ParseNotification 解析异步通知
func ParseNotification(body []byte) (*Notification, error) {
	if len(body) == 0 {
		return nil, ErrResponseInvalid
	}
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if n.Object.ID == "" {
		return nil, fmt.Errorf("%w: payment id is missing", ErrResponseInvalid)
	}
	return &n, nil
}

func (c *Client) do(ctx context.Context, method, path, idempotenceKey string, body interface{}, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.cfg.ShopID, c.cfg.SecretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotenceKey != "" {
		req.Header.Set("Idempotence-Key", idempotenceKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		return fmt.Errorf("%w: http status %d %s %s", ErrRequestFailed, resp.StatusCode, apiErr.Code, apiErr.Description)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return nil
}

func truncate(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit])
}
