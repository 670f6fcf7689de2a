package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/ram-us/internal/constants"

	"go.uber.org/goleak"
)

type orderAPIStub struct {
	createErr error
	payErr    error
	drafts    []OrderDraft
	paid      []string
}

func (s *orderAPIStub) CreateOrder(_ context.Context, draft OrderDraft) (*OrderReceipt, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.drafts = append(s.drafts, draft)
	return &OrderReceipt{OrderNo: "RU0001", Status: constants.OrderStatusPendingPayment}, nil
}

func (s *orderAPIStub) PayOrder(_ context.Context, orderNo string) (*PaymentRedirect, error) {
	if s.payErr != nil {
		return nil, s.payErr
	}
	s.paid = append(s.paid, orderNo)
	return &PaymentRedirect{PaymentID: 1, ConfirmationURL: "https://pay.example/confirm"}, nil
}

func newCheckoutFixture(t *testing.T, orders OrderAPI) (*Checkout, *CartStore, *DeliveryResolver) {
	t.Helper()
	cart := NewCartStore(NewMemoryStorage(), "cart", nil)
	cart.Hydrate(context.Background())
	api := &shippingAPIStub{
		tariffs: map[int][]Tariff{44: {tariff(t, 136, "склад-склад", "300")}},
		points:  map[int][]PickupPoint{44: {{Code: "MSK1"}}},
	}
	delivery := NewDeliveryResolver(api, cart.TotalItems, nil)
	t.Cleanup(delivery.Close)
	return NewCheckout(cart, delivery, orders, nil), cart, delivery
}

func TestCheckoutValidate(t *testing.T) {
	defer goleak.VerifyNone(t)

	checkout, cart, delivery := newCheckoutFixture(t, &orderAPIStub{})
	contact := Contact{Name: "Иван", Phone: "+7 (999) 123-45-67"}

	if err := checkout.Validate(contact); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
	cart.AddItem(context.Background(), CartItem{ID: 42, PriceRub: mustMoney(t, "100")})

	if err := checkout.Validate(Contact{Phone: "999"}); !errors.Is(err, ErrPhoneInvalid) {
		t.Fatalf("expected ErrPhoneInvalid, got %v", err)
	}
	if err := checkout.Validate(contact); !errors.Is(err, ErrCityRequired) {
		t.Fatalf("expected ErrCityRequired, got %v", err)
	}

	delivery.SetMode(context.Background(), constants.DeliveryModePickup)
	if err := checkout.Validate(contact); err != nil {
		t.Fatalf("pickup mode needs no city: %v", err)
	}

	delivery.SetMode(context.Background(), constants.DeliveryModePvz)
	delivery.SelectCity(context.Background(), moscow)
	if err := checkout.Validate(contact); err != nil {
		t.Fatalf("pvz with auto-selected point should be ready: %v", err)
	}

	delivery.SetMode(context.Background(), constants.DeliveryModeCourier)
	if err := checkout.Validate(Contact{Phone: contact.Phone, Address: "   "}); !errors.Is(err, ErrAddressRequired) {
		t.Fatalf("expected ErrAddressRequired, got %v", err)
	}
	contact.Address = "Москва, ул. Ленина, 1"
	if err := checkout.Validate(contact); err != nil {
		t.Fatalf("courier with address should be ready: %v", err)
	}
}

func TestCheckoutSubmitSuccessClearsCart(t *testing.T) {
	defer goleak.VerifyNone(t)

	orders := &orderAPIStub{}
	checkout, cart, delivery := newCheckoutFixture(t, orders)
	cart.AddItem(context.Background(), CartItem{ID: 42, PriceRub: mustMoney(t, "100"), Quantity: 2})
	delivery.SelectCity(context.Background(), moscow)

	result, err := checkout.Submit(context.Background(), Contact{Name: "Иван", Phone: "89991234567"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Degraded || result.Payment == nil {
		t.Fatalf("expected paid result, got %+v", result)
	}
	if !cart.IsEmpty() {
		t.Fatalf("cart should be cleared after order creation")
	}
	draft := orders.drafts[0]
	if draft.Phone != "79991234567" || draft.PvzCode != "MSK1" || draft.TariffCode != 136 || draft.CityCode != 44 {
		t.Fatalf("unexpected draft %+v", draft)
	}
	if len(draft.Items) != 1 || draft.Items[0].Quantity != 2 {
		t.Fatalf("unexpected draft items %+v", draft.Items)
	}
}

func TestCheckoutPaymentFailureIsDegraded(t *testing.T) {
	defer goleak.VerifyNone(t)

	orders := &orderAPIStub{payErr: errors.New("gateway timeout")}
	checkout, cart, delivery := newCheckoutFixture(t, orders)
	cart.AddItem(context.Background(), CartItem{ID: 42, PriceRub: mustMoney(t, "100")})
	delivery.SetMode(context.Background(), constants.DeliveryModePickup)

	result, err := checkout.Submit(context.Background(), Contact{Phone: "+79991234567"})
	if err != nil {
		t.Fatalf("payment failure must not fail submit: %v", err)
	}
	if !result.Degraded || result.Message != DegradedPaymentMessage || result.Order.OrderNo != "RU0001" {
		t.Fatalf("unexpected degraded result %+v", result)
	}
	if orders.drafts[0].CityCode != 0 {
		t.Fatalf("pickup draft must not carry a city")
	}
}

func TestCheckoutCreateFailureKeepsCart(t *testing.T) {
	defer goleak.VerifyNone(t)

	orders := &orderAPIStub{createErr: errors.New("500")}
	checkout, cart, delivery := newCheckoutFixture(t, orders)
	cart.AddItem(context.Background(), CartItem{ID: 42, PriceRub: mustMoney(t, "100")})
	delivery.SetMode(context.Background(), constants.DeliveryModePickup)

	if _, err := checkout.Submit(context.Background(), Contact{Phone: "+79991234567"}); err == nil {
		t.Fatalf("expected create error")
	}
	if cart.IsEmpty() {
		t.Fatalf("cart must survive failed order creation")
	}
}
