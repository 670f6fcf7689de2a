package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	handlershared "github.com/ram-us/internal/http/handlers/shared"
	"github.com/ram-us/internal/i18n"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/provider"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/service"
	"github.com/ram-us/internal/storefront"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupOrderHandlerTest(t *testing.T) (*gin.Engine, *provider.Container, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handlershared.RegisterValidators()

	dsn := fmt.Sprintf("file:public_order_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	c := &provider.Container{ProductRepo: productRepo, OrderRepo: orderRepo}
	c.CartService = service.NewCartService(storefront.NewMemoryStorage(), productRepo, 50)
	c.OrderService = service.NewOrderService(service.OrderServiceOptions{
		OrderRepo:     orderRepo,
		ProductRepo:   productRepo,
		CartService:   c.CartService,
		ExpireMinutes: 30,
		MaxItems:      50,
		PickupAddress: "Москва, ул. Складская, 1",
	})

	h := New(c)
	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		ctx.Set("user_id", uint(11))
		ctx.Next()
	})
	r.POST("/me/orders", h.CreateOrder)
	return r, c, db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) *models.Product {
	t.Helper()
	price, _ := models.NewMoneyFromString("1200.00")
	product := &models.Product{
		CategoryID: 1,
		Name:       "Фильтр масляный",
		PartNumber: "OF-210",
		PriceRub:   price,
		Stock:      stock,
		IsActive:   true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func postOrder(t *testing.T, r http.Handler, body string) envelope {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/me/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected http status %d", w.Code)
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return env
}

func TestCreateOrderRejectsInvalidPhone(t *testing.T) {
	r, _, db := setupOrderHandlerTest(t)
	product := seedProduct(t, db, 5)

	body := fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":1}],"phone":"12345","delivery_mode":"pickup"}`, product.ID)
	env := postOrder(t, r, body)
	if env.StatusCode != 400 || env.Msg != i18n.T(i18n.LocaleRU, "error.phone_invalid") {
		t.Fatalf("expected phone error, got %+v", env)
	}
	var count int64
	db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("no order should be created, got %d", count)
	}
}

func TestCreateOrderPickupClearsOrderedCartLines(t *testing.T) {
	r, c, db := setupOrderHandlerTest(t)
	product := seedProduct(t, db, 5)
	other := seedProduct(t, db, 5)
	ctx := t.Context()
	if _, err := c.CartService.AddItem(ctx, 11, product.ID, 2); err != nil {
		t.Fatalf("add cart item failed: %v", err)
	}
	if _, err := c.CartService.AddItem(ctx, 11, other.ID, 1); err != nil {
		t.Fatalf("add cart item failed: %v", err)
	}

	body := fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":2}],"contact_name":"Иван","phone":"8 (999) 123-45-67","delivery_mode":"pickup"}`, product.ID)
	env := postOrder(t, r, body)
	if env.StatusCode != 0 {
		t.Fatalf("expected success, got %+v", env)
	}
	var receipt storefront.OrderReceipt
	if err := json.Unmarshal(env.Data, &receipt); err != nil {
		t.Fatalf("decode receipt failed: %v", err)
	}
	if receipt.OrderNo == "" || receipt.TotalAmount.StringFixed(2) != "2400.00" || !receipt.DeliveryCost.IsZero() {
		t.Fatalf("unexpected receipt %+v", receipt)
	}

	var stored models.Product
	db.First(&stored, product.ID)
	if stored.Stock != 3 {
		t.Fatalf("expected stock 3, got %d", stored.Stock)
	}
	items := c.CartService.Store(ctx, 11).Items()
	if len(items) != 1 || items[0].ID != other.ID {
		t.Fatalf("only ordered lines should leave the cart, got %+v", items)
	}
}

func TestCreateOrderRejectsUnknownDeliveryMode(t *testing.T) {
	r, _, db := setupOrderHandlerTest(t)
	product := seedProduct(t, db, 5)

	body := fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":1}],"phone":"+79991234567","delivery_mode":"drone"}`, product.ID)
	if env := postOrder(t, r, body); env.StatusCode != 400 {
		t.Fatalf("expected bad request, got %+v", env)
	}
}
