package cdek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("cdek config invalid")
	ErrAuthFailed      = errors.New("cdek auth failed")
	ErrRequestFailed   = errors.New("cdek request failed")
	ErrResponseInvalid = errors.New("cdek response invalid")
)

const (
	DefaultBaseURL = "https://api.cdek.ru"
	// tokenRefreshSkew 提前刷新 Token 的余量
	tokenRefreshSkew = 60 * time.Second
)

// Config CDEK v2 接入配置
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	FromCityCode int
	Timeout      time.Duration
}

// City 城市
type City struct {
	Code        int    `json:"code"`
	City        string `json:"city"`
	Region      string `json:"region"`
	CountryCode string `json:"country_code"`
	Country     string `json:"country"`
}

// Tariff 运费报价
type Tariff struct {
	TariffCode        int     `json:"tariff_code"`
	TariffName        string  `json:"tariff_name"`
	TariffDescription string  `json:"tariff_description"`
	DeliveryMode      int     `json:"delivery_mode"`
	DeliverySum       float64 `json:"delivery_sum"`
	PeriodMin         int     `json:"period_min"`
	PeriodMax         int     `json:"period_max"`
}

// DeliveryPoint 自提点
type DeliveryPoint struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	WorkTime string `json:"work_time"`
	Location struct {
		CityCode    int     `json:"city_code"`
		Address     string  `json:"address"`
		AddressFull string  `json:"address_full"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
	} `json:"location"`
}

// Client CDEK v2 客户端，OAuth Token 缓存至过期前
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
	now         func() time.Time
}

// NewClient 创建客户端
func NewClient(cfg Config) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", ErrConfigInvalid)
	}
	if cfg.FromCityCode <= 0 {
		return nil, fmt.Errorf("%w: from_city_code is required", ErrConfigInvalid)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}, nil
}

// SearchCities 按名称搜索俄罗斯城市
func (c *Client) SearchCities(ctx context.Context, query string, size int) ([]City, error) {
	values := url.Values{}
	values.Set("city", strings.TrimSpace(query))
	values.Set("country_codes", "RU")
	if size > 0 {
		values.Set("size", strconv.Itoa(size))
	}
	var out []City
	if err := c.call(ctx, http.MethodGet, "/v2/location/cities?"+values.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CalculateTariffs 计算发往目标城市的全部可用运费
func (c *Client) CalculateTariffs(ctx context.Context, toCityCode, weightGrams int) ([]Tariff, error) {
	body := map[string]interface{}{
		"from_location": map[string]int{"code": c.cfg.FromCityCode},
		"to_location":   map[string]int{"code": toCityCode},
		"packages":      []map[string]int{{"weight": weightGrams}},
	}
	var out struct {
		TariffCodes []Tariff `json:"tariff_codes"`
		Errors      []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := c.call(ctx, http.MethodPost, "/v2/calculator/tarifflist", body, &out); err != nil {
		return nil, err
	}
	if len(out.TariffCodes) == 0 && len(out.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrResponseInvalid, out.Errors[0].Message)
	}
	return out.TariffCodes, nil
}

// ListDeliveryPoints 列出城市内的自提点与快递柜
func (c *Client) ListDeliveryPoints(ctx context.Context, cityCode int) ([]DeliveryPoint, error) {
	values := url.Values{}
	values.Set("city_code", strconv.Itoa(cityCode))
	var out []DeliveryPoint
	if err := c.call(ctx, http.MethodGet, "/v2/deliverypoints?"+values.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, method, path string, body interface{}, dest interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}
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
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
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
	if resp.StatusCode == http.StatusUnauthorized {
		c.resetToken()
		return fmt.Errorf("%w: http status %d", ErrAuthFailed, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: http status %d", ErrRequestFailed, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return nil
}

// token 返回缓存的 Token，过期前 tokenRefreshSkew 内重新申请
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && c.now().Add(tokenRefreshSkew).Before(c.expiresAt) {
		return c.accessToken, nil
	}

	values := url.Values{}
	values.Set("grant_type", "client_credentials")
	values.Set("client_id", c.cfg.ClientID)
	values.Set("client_secret", c.cfg.ClientSecret)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v2/oauth/token", strings.NewReader(values.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: http status %d", ErrAuthFailed, resp.StatusCode)
	}
	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.AccessToken == "" {
		return "", fmt.Errorf("%w: token response invalid", ErrAuthFailed)
	}
	c.accessToken = out.AccessToken
	c.expiresAt = c.now().Add(time.Duration(out.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

func (c *Client) resetToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = ""
	c.expiresAt = time.Time{}
}
