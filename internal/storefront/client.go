package storefront

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
	ErrRequestFailed   = errors.New("storefront api request failed")
	ErrResponseInvalid = errors.New("storefront api response invalid")
	ErrUnauthenticated = errors.New("storefront api token is missing")
)

// APIError 后端返回的业务错误
type APIError struct {
	StatusCode int
	Msg        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Msg)
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
		Total    int64 `json:"total"`
	} `json:"pagination,omitempty"`
}

// Client Mini-App 后端 REST 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient 创建客户端，baseURL 形如 https://api.example.ru/api/v1
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken 设置用户 Token
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

// Token 当前 Token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// LoginResult Telegram 登录结果
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginTelegram 用 initData 换取用户 Token 并保存
func (c *Client) LoginTelegram(ctx context.Context, initData string) (*LoginResult, error) {
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/telegram", map[string]string{"init_data": initData}, false, &result, nil); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// ListCategories 实现 CatalogAPI
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.do(ctx, http.MethodGet, "/public/categories", nil, false, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProducts 实现 CatalogAPI
func (c *Client) ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(query.Page))
	values.Set("page_size", strconv.Itoa(query.PageSize))
	if query.CategoryID != 0 {
		values.Set("category_id", strconv.FormatUint(uint64(query.CategoryID), 10))
	}
	setIfNotEmpty(values, "search", query.Search)
	setIfNotEmpty(values, "brand", query.Brand)
	setIfNotEmpty(values, "min_price", query.MinPrice)
	setIfNotEmpty(values, "max_price", query.MaxPrice)
	setIfNotEmpty(values, "sort", query.Sort)
	if query.InStock {
		values.Set("in_stock", "true")
	}
	page := &ProductPage{Page: query.Page, PageSize: query.PageSize}
	var items []Product
	if err := c.do(ctx, http.MethodGet, "/public/products?"+values.Encode(), nil, false, &items, page); err != nil {
		return nil, err
	}
	page.Items = items
	return page, nil
}

// GetProduct 商品详情
func (c *Client) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var out Product
	path := "/public/products/" + strconv.FormatUint(uint64(id), 10)
	if err := c.do(ctx, http.MethodGet, path, nil, false, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFavorites 实现 FavoritesAPI
func (c *Client) ListFavorites(ctx context.Context) ([]uint, error) {
	var out struct {
		ProductIDs []uint `json:"product_ids"`
	}
	if err := c.do(ctx, http.MethodGet, "/me/favorites", nil, true, &out, nil); err != nil {
		return nil, err
	}
	return out.ProductIDs, nil
}

// ToggleFavorite 实现 FavoritesAPI
func (c *Client) ToggleFavorite(ctx context.Context, productID uint) (bool, error) {
	var out struct {
		Favorite bool `json:"favorite"`
	}
	path := fmt.Sprintf("/me/favorites/%d/toggle", productID)
	if err := c.do(ctx, http.MethodPost, path, nil, true, &out, nil); err != nil {
		return false, err
	}
	return out.Favorite, nil
}

// SearchCities 实现 ShippingAPI
func (c *Client) SearchCities(ctx context.Context, query string) ([]City, error) {
	var out []City
	if err := c.do(ctx, http.MethodGet, "/shipping/cities?q="+url.QueryEscape(query), nil, false, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// CalculateTariffs 实现 ShippingAPI
func (c *Client) CalculateTariffs(ctx context.Context, req TariffRequest) ([]Tariff, error) {
	var out []Tariff
	if err := c.do(ctx, http.MethodPost, "/shipping/tariffs", req, false, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPickupPoints 实现 ShippingAPI
func (c *Client) ListPickupPoints(ctx context.Context, cityCode int) ([]PickupPoint, error) {
	var out []PickupPoint
	path := "/shipping/pvz?city_code=" + strconv.Itoa(cityCode)
	if err := c.do(ctx, http.MethodGet, path, nil, false, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrder 实现 OrderAPI
func (c *Client) CreateOrder(ctx context.Context, draft OrderDraft) (*OrderReceipt, error) {
	var out OrderReceipt
	if err := c.do(ctx, http.MethodPost, "/me/orders", draft, true, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// PayOrder 实现 OrderAPI
func (c *Client) PayOrder(ctx context.Context, orderNo string) (*PaymentRedirect, error) {
	var out PaymentRedirect
	path := "/me/orders/" + url.PathEscape(orderNo) + "/pay"
	if err := c.do(ctx, http.MethodPost, path, nil, true, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, auth bool, dest interface{}, page *ProductPage) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		token := c.Token()
		if token == "" {
			return ErrUnauthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
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
		return fmt.Errorf("%w: http status %d", ErrRequestFailed, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if env.StatusCode != 0 {
		return &APIError{StatusCode: env.StatusCode, Msg: env.Msg}
	}
	if page != nil && env.Pagination != nil {
		page.Page = env.Pagination.Page
		page.PageSize = env.Pagination.PageSize
		page.Total = env.Pagination.Total
	}
	if dest == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return nil
}

func setIfNotEmpty(values url.Values, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		values.Set(key, v)
	}
}
