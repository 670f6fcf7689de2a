package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/payment/yookassa"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/storefront"

	"gorm.io/gorm"
)

type gatewayStub struct {
	created   []yookassa.CreateInput
	remote    map[string]*yookassa.Payment
	createErr error
}

func newGatewayStub() *gatewayStub {
	return &gatewayStub{remote: make(map[string]*yookassa.Payment)}
}

func (g *gatewayStub) CreatePayment(_ context.Context, input yookassa.CreateInput) (*yookassa.Payment, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, input)
	id := fmt.Sprintf("yk-%d", len(g.created))
	p := &yookassa.Payment{
		ID:     id,
		Status: yookassa.StatusPending,
		Amount: yookassa.Amount{Value: input.Amount, Currency: "RUB"},
	}
	p.Confirmation = &struct {
		Type            string `json:"type"`
		ConfirmationURL string `json:"confirmation_url"`
	}{Type: "redirect", ConfirmationURL: "https://pay.test/" + id}
	g.remote[id] = p
	return p, nil
}

func (g *gatewayStub) GetPayment(_ context.Context, id string) (*yookassa.Payment, error) {
	p, ok := g.remote[id]
	if !ok {
		return nil, yookassa.ErrRequestFailed
	}
	return p, nil
}

type paymentTestEnv struct {
	payments *PaymentService
	orders   *OrderService
	sellers  *SellerService
	gateway  *gatewayStub
	db       *gorm.DB
}

func setupPaymentServiceTest(t *testing.T) *paymentTestEnv {
	t.Helper()
	orders, _, db := setupOrderServiceTest(t)
	sellers := NewSellerService(repository.NewSellerRepository(db), nil, nil, mustMoney(t, "990.00"), 30)
	gateway := newGatewayStub()
	payments := NewPaymentService(repository.NewPaymentRepository(db), orders, sellers, gateway, nil)
	return &paymentTestEnv{payments: payments, orders: orders, sellers: sellers, gateway: gateway, db: db}
}

func webhookBody(id, event string) []byte {
	return []byte(fmt.Sprintf(`{"type":"notification","event":%q,"object":{"id":%q,"status":"pending"}}`, event, id))
}

func TestPayOrderAndWebhookMarksPaid(t *testing.T) {
	env := setupPaymentServiceTest(t)
	ctx := context.Background()
	product := createTestProduct(t, env.db, "radiator", "7450.00", 3)
	order, err := env.orders.CreateOrder(ctx, 7, pickupDraft(storefront.OrderDraftItem{ProductID: product.ID, Quantity: 1}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	redirect, err := env.payments.PayOrder(ctx, 7, order.OrderNo)
	if err != nil {
		t.Fatalf("pay order failed: %v", err)
	}
	if redirect.ConfirmationURL != "https://pay.test/yk-1" {
		t.Fatalf("unexpected confirmation url: %s", redirect.ConfirmationURL)
	}
	if len(env.gateway.created) != 1 || env.gateway.created[0].Amount != "7450.00" || env.gateway.created[0].IdempotenceKey == "" {
		t.Fatalf("unexpected gateway input: %+v", env.gateway.created)
	}

	again, err := env.payments.PayOrder(ctx, 7, order.OrderNo)
	if err != nil {
		t.Fatalf("second pay failed: %v", err)
	}
	if again.PaymentID != redirect.PaymentID || len(env.gateway.created) != 1 {
		t.Fatalf("pending payment must be reused, got %+v", again)
	}

	env.gateway.remote["yk-1"].Status = yookassa.StatusSucceeded
	env.gateway.remote["yk-1"].Paid = true
	if err := env.payments.HandleWebhook(ctx, webhookBody("yk-1", yookassa.EventPaymentSucceeded)); err != nil {
		t.Fatalf("webhook failed: %v", err)
	}
	paid, err := env.orders.GetOrderByUserOrderNo(order.OrderNo, 7)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if paid.Status != constants.OrderStatusPaid || paid.PaidAt == nil {
		t.Fatalf("expected paid order, got %+v", paid)
	}
	if err := env.payments.HandleWebhook(ctx, webhookBody("yk-1", yookassa.EventPaymentSucceeded)); err != nil {
		t.Fatalf("repeated webhook must be a no-op, got %v", err)
	}
	if _, err := env.payments.PayOrder(ctx, 7, order.OrderNo); !errors.Is(err, ErrPaymentAlreadyPaid) {
		t.Fatalf("expected ErrPaymentAlreadyPaid, got %v", err)
	}
}

func TestHandleWebhookRejectsUnknownAndMismatchedPayments(t *testing.T) {
	env := setupPaymentServiceTest(t)
	ctx := context.Background()

	if err := env.payments.HandleWebhook(ctx, []byte(`{}`)); !errors.Is(err, ErrPaymentInvalid) {
		t.Fatalf("expected ErrPaymentInvalid, got %v", err)
	}
	if err := env.payments.HandleWebhook(ctx, webhookBody("nope", yookassa.EventPaymentSucceeded)); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}

	product := createTestProduct(t, env.db, "mirror", "1000.00", 3)
	order, err := env.orders.CreateOrder(ctx, 7, pickupDraft(storefront.OrderDraftItem{ProductID: product.ID, Quantity: 1}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := env.payments.PayOrder(ctx, 7, order.OrderNo); err != nil {
		t.Fatalf("pay order failed: %v", err)
	}
	env.gateway.remote["yk-1"].Status = yookassa.StatusSucceeded
	env.gateway.remote["yk-1"].Amount.Value = "1.00"
	if err := env.payments.HandleWebhook(ctx, webhookBody("yk-1", yookassa.EventPaymentSucceeded)); !errors.Is(err, ErrPaymentInvalid) {
		t.Fatalf("expected amount mismatch to be rejected, got %v", err)
	}
	kept, _ := env.orders.GetOrderByUserOrderNo(order.OrderNo, 7)
	if kept.Status != constants.OrderStatusPendingPayment {
		t.Fatalf("order must stay pending, got %s", kept.Status)
	}
}

func TestPayOrderGatewayFailure(t *testing.T) {
	env := setupPaymentServiceTest(t)
	ctx := context.Background()
	product := createTestProduct(t, env.db, "glass", "500.00", 3)
	order, err := env.orders.CreateOrder(ctx, 7, pickupDraft(storefront.OrderDraftItem{ProductID: product.ID, Quantity: 1}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	env.gateway.createErr = yookassa.ErrRequestFailed
	if _, err := env.payments.PayOrder(ctx, 7, order.OrderNo); !errors.Is(err, ErrPaymentFailed) {
		t.Fatalf("expected ErrPaymentFailed, got %v", err)
	}
	var payment models.Payment
	if err := env.db.Order("id DESC").First(&payment).Error; err != nil {
		t.Fatalf("load payment failed: %v", err)
	}
	if payment.Status != constants.PaymentStatusFailed {
		t.Fatalf("expected failed payment record, got %s", payment.Status)
	}
}

func TestPaySellerSubscriptionExtendsUntil(t *testing.T) {
	env := setupPaymentServiceTest(t)
	ctx := context.Background()
	seller, err := env.sellers.Apply(9, SellerApplyInput{ShopName: "Разборка", Phone: "+7 999 000-11-22"})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if _, err := env.payments.PaySellerSubscription(ctx, 9); !errors.Is(err, ErrSellerNotApproved) {
		t.Fatalf("expected ErrSellerNotApproved, got %v", err)
	}
	if _, err := env.sellers.UpdateStatus(seller.ID, constants.SellerStatusApproved, ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	redirect, err := env.payments.PaySellerSubscription(ctx, 9)
	if err != nil {
		t.Fatalf("pay subscription failed: %v", err)
	}
	if redirect.ConfirmationURL == "" || env.gateway.created[0].Amount != "990.00" {
		t.Fatalf("unexpected subscription payment: %+v / %+v", redirect, env.gateway.created)
	}

	env.gateway.remote["yk-1"].Status = yookassa.StatusSucceeded
	if err := env.payments.HandleWebhook(ctx, webhookBody("yk-1", yookassa.EventPaymentSucceeded)); err != nil {
		t.Fatalf("webhook failed: %v", err)
	}
	updated, err := env.sellers.GetByUser(9)
	if err != nil {
		t.Fatalf("reload seller failed: %v", err)
	}
	if !updated.SubscriptionActive(time.Now().Add(29 * 24 * time.Hour)) {
		t.Fatalf("expected subscription extended by 30 days, got %v", updated.SubscriptionUntil)
	}
}
