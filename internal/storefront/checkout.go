package storefront

import (
	"context"
	"errors"
	"strings"

	"github.com/ram-us/internal/constants"

	"go.uber.org/zap"
)

// DegradedPaymentMessage 支付发起失败但订单已创建时给用户的提示
const DegradedPaymentMessage = "Заказ оформлен, менеджер свяжется с вами"

var (
	ErrCartEmpty           = errors.New("cart is empty")
	ErrPhoneInvalid        = errors.New("phone must contain 11 digits")
	ErrCityRequired        = errors.New("delivery city is required")
	ErrPickupPointRequired = errors.New("pickup point is required")
	ErrAddressRequired     = errors.New("courier address is required")
	ErrDeliveryModeInvalid = errors.New("delivery mode is invalid")
)

// OrderAPI 下单与支付远端接口
type OrderAPI interface {
	CreateOrder(ctx context.Context, draft OrderDraft) (*OrderReceipt, error)
	PayOrder(ctx context.Context, orderNo string) (*PaymentRedirect, error)
}

// Contact 联系信息表单
type Contact struct {
	Name    string
	Phone   string
	Address string
	Comment string
}

// SubmitResult 提交结果；Degraded 表示订单已创建但支付未能发起
type SubmitResult struct {
	Order    *OrderReceipt
	Payment  *PaymentRedirect
	Degraded bool
	Message  string
}

// Checkout 结算流程：购物车 + 配送选择 + 联系信息
type Checkout struct {
	cart     *CartStore
	delivery *DeliveryResolver
	orders   OrderAPI
	log      *zap.SugaredLogger
}

// NewCheckout 创建结算流程
func NewCheckout(cart *CartStore, delivery *DeliveryResolver, orders OrderAPI, log *zap.SugaredLogger) *Checkout {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Checkout{cart: cart, delivery: delivery, orders: orders, log: log}
}

// Validate 校验是否可以提交
func (c *Checkout) Validate(contact Contact) error {
	if c.cart.IsEmpty() {
		return ErrCartEmpty
	}
	if !IsValidPhone(contact.Phone) {
		return ErrPhoneInvalid
	}
	sel := c.delivery.Selection()
	switch sel.Mode {
	case constants.DeliveryModePickup:
		return nil
	case constants.DeliveryModeCourier:
		if sel.City == nil {
			return ErrCityRequired
		}
		if strings.TrimSpace(contact.Address) == "" {
			return ErrAddressRequired
		}
		return nil
	case constants.DeliveryModePvz:
		if sel.City == nil {
			return ErrCityRequired
		}
		if sel.Point == nil {
			return ErrPickupPointRequired
		}
		return nil
	default:
		return ErrDeliveryModeInvalid
	}
}

// BuildDraft 组装订单草稿
func (c *Checkout) BuildDraft(contact Contact) OrderDraft {
	items := c.cart.Items()
	draft := OrderDraft{
		Items:       make([]OrderDraftItem, 0, len(items)),
		ContactName: strings.TrimSpace(contact.Name),
		Phone:       NormalizePhone(contact.Phone),
		Comment:     strings.TrimSpace(contact.Comment),
	}
	for _, item := range items {
		draft.Items = append(draft.Items, OrderDraftItem{ProductID: item.ID, Quantity: item.Quantity})
	}
	sel := c.delivery.Selection()
	draft.DeliveryMode = sel.Mode
	if sel.Mode == constants.DeliveryModePickup {
		return draft
	}
	if sel.City != nil {
		draft.CityCode = sel.City.Code
		draft.CityName = sel.City.City
	}
	if sel.Tariff != nil {
		draft.TariffCode = sel.Tariff.Code
	}
	if sel.Mode == constants.DeliveryModeCourier {
		draft.Address = strings.TrimSpace(contact.Address)
	}
	if sel.Mode == constants.DeliveryModePvz && sel.Point != nil {
		draft.PvzCode = sel.Point.Code
	}
	return draft
}

// Submit 创建订单并发起支付；支付失败时订单仍视为已创建。订单创建后清空购物车。
func (c *Checkout) Submit(ctx context.Context, contact Contact) (*SubmitResult, error) {
	if err := c.Validate(contact); err != nil {
		return nil, err
	}
	draft := c.BuildDraft(contact)
	receipt, err := c.orders.CreateOrder(ctx, draft)
	if err != nil {
		c.log.Warnw("checkout_create_order_failed", "error", err)
		return nil, err
	}
	c.cart.Clear(ctx)

	result := &SubmitResult{Order: receipt}
	payment, err := c.orders.PayOrder(ctx, receipt.OrderNo)
	if err != nil {
		c.log.Warnw("checkout_payment_failed", "order_no", receipt.OrderNo, "error", err)
		result.Degraded = true
		result.Message = DegradedPaymentMessage
		return result, nil
	}
	result.Payment = payment
	return result, nil
}
