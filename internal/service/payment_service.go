package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/metrics"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/payment/yookassa"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/storefront"

	"github.com/google/uuid"
)

const currencyRUB = "RUB"

// PaymentGateway 第三方收单接口（YooKassa 实现）
type PaymentGateway interface {
	CreatePayment(ctx context.Context, input yookassa.CreateInput) (*yookassa.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*yookassa.Payment, error)
}

// PaymentService 支付服务
type PaymentService struct {
	repo          repository.PaymentRepository
	orderService  *OrderService
	sellerService *SellerService
	gateway       PaymentGateway
	metrics       *metrics.Metrics
	now           func() time.Time
}

// NewPaymentService 创建支付服务
func NewPaymentService(repo repository.PaymentRepository, orderService *OrderService, sellerService *SellerService, gateway PaymentGateway, m *metrics.Metrics) *PaymentService {
	return &PaymentService{
		repo:          repo,
		orderService:  orderService,
		sellerService: sellerService,
		gateway:       gateway,
		metrics:       m,
		now:           time.Now,
	}
}

// Enabled 是否已配置收单
func (s *PaymentService) Enabled() bool {
	return s != nil && s.gateway != nil
}

// PayOrder 为待支付订单发起支付；存在金额一致的待支付记录时复用其跳转链接
func (s *PaymentService) PayOrder(ctx context.Context, userID uint, orderNo string) (*storefront.PaymentRedirect, error) {
	if !s.Enabled() {
		return nil, ErrPaymentDisabled
	}
	order, err := s.orderService.GetOrderByUserOrderNo(orderNo, userID)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case constants.OrderStatusPendingPayment:
	case constants.OrderStatusCanceled:
		return nil, ErrOrderStatusInvalid
	default:
		return nil, ErrPaymentAlreadyPaid
	}
	if order.ExpiresAt != nil && !order.ExpiresAt.After(s.now()) {
		return nil, ErrOrderStatusInvalid
	}

	existing, err := s.repo.GetLatestPendingByOrder(order.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ConfirmationURL != "" && existing.Amount.Equal(order.TotalAmount) {
		return toPaymentRedirect(existing), nil
	}

	orderID := order.ID
	payment := &models.Payment{
		Purpose: constants.PaymentPurposeOrder,
		OrderID: &orderID,
		UserID:  userID,
		Amount:  order.TotalAmount,
	}
	description := fmt.Sprintf("Заказ %s", order.OrderNo)
	metadata := map[string]string{"order_no": order.OrderNo}
	if err := s.initiate(ctx, payment, description, metadata); err != nil {
		return nil, err
	}
	return toPaymentRedirect(payment), nil
}

// PaySellerSubscription 发起卖家订阅支付
func (s *PaymentService) PaySellerSubscription(ctx context.Context, userID uint) (*storefront.PaymentRedirect, error) {
	if !s.Enabled() {
		return nil, ErrPaymentDisabled
	}
	seller, err := s.sellerService.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if seller.Status != constants.SellerStatusApproved {
		return nil, ErrSellerNotApproved
	}
	fee := s.sellerService.SubscriptionFee()
	if !fee.IsPositive() {
		return nil, ErrPaymentInvalid
	}
	sellerID := seller.ID
	payment := &models.Payment{
		Purpose:  constants.PaymentPurposeSellerSubscription,
		SellerID: &sellerID,
		UserID:   userID,
		Amount:   fee,
	}
	description := fmt.Sprintf("Подписка продавца %s", seller.ShopName)
	metadata := map[string]string{"seller_id": strconv.FormatUint(uint64(seller.ID), 10)}
	if err := s.initiate(ctx, payment, description, metadata); err != nil {
		return nil, err
	}
	return toPaymentRedirect(payment), nil
}

func (s *PaymentService) initiate(ctx context.Context, payment *models.Payment, description string, metadata map[string]string) error {
	payment.Provider = constants.PaymentProviderYooKassa
	payment.Currency = currencyRUB
	payment.Status = constants.PaymentStatusPending
	payment.IdempotenceKey = uuid.NewString()
	if err := s.repo.Create(payment); err != nil {
		return err
	}
	metadata["payment_id"] = strconv.FormatUint(uint64(payment.ID), 10)

	remote, err := s.gateway.CreatePayment(ctx, yookassa.CreateInput{
		Amount:         payment.Amount.String(),
		Description:    description,
		IdempotenceKey: payment.IdempotenceKey,
		Metadata:       metadata,
	})
	s.metrics.ObserveUpstream(constants.PaymentProviderYooKassa, "create_payment", err)
	if err != nil {
		logger.Warnw("payment_create_failed", "payment_id", payment.ID, "purpose", payment.Purpose, "error", err)
		payment.Status = constants.PaymentStatusFailed
		if updateErr := s.repo.Update(payment); updateErr != nil {
			logger.Warnw("payment_mark_failed_error", "payment_id", payment.ID, "error", updateErr)
		}
		return ErrPaymentFailed
	}
	payment.ProviderRef = remote.ID
	payment.ConfirmationURL = remote.ConfirmationURL()
	payment.ProviderPayload = paymentPayload(remote)
	if remote.Status != "" {
		payment.Status = remote.Status
	}
	if err := s.repo.Update(payment); err != nil {
		return err
	}
	logger.Infow("payment_created",
		"payment_id", payment.ID,
		"purpose", payment.Purpose,
		"provider_ref", payment.ProviderRef,
		"amount", payment.Amount.String(),
	)
	return nil
}

// HandleWebhook 处理 YooKassa 通知；以主动查询到的支付状态为准
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte) error {
	if !s.Enabled() {
		return ErrPaymentDisabled
	}
	notification, err := yookassa.ParseNotification(body)
	if err != nil {
		return ErrPaymentInvalid
	}
	payment, err := s.repo.GetByProviderRef(notification.Object.ID)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrPaymentNotFound
	}
	remote, err := s.gateway.GetPayment(ctx, payment.ProviderRef)
	s.metrics.ObserveUpstream(constants.PaymentProviderYooKassa, "get_payment", err)
	if err != nil {
		logger.Warnw("payment_fetch_failed", "payment_id", payment.ID, "event", notification.Event, "error", err)
		return ErrPaymentFailed
	}
	return s.apply(ctx, payment, remote)
}

func (s *PaymentService) apply(ctx context.Context, payment *models.Payment, remote *yookassa.Payment) error {
	if payment.Status == constants.PaymentStatusSucceeded || payment.Status == constants.PaymentStatusCanceled {
		return nil
	}
	switch remote.Status {
	case yookassa.StatusSucceeded:
		if !amountMatches(remote.Amount, payment.Amount) {
			logger.Warnw("payment_amount_mismatch", "payment_id", payment.ID, "expected", payment.Amount.String(), "actual", remote.Amount.Value)
			return ErrPaymentInvalid
		}
		paidAt := s.now()
		payment.Status = constants.PaymentStatusSucceeded
		payment.PaidAt = &paidAt
	case yookassa.StatusCanceled:
		payment.Status = constants.PaymentStatusCanceled
	default:
		return nil
	}
	payment.ProviderPayload = paymentPayload(remote)
	if err := s.repo.Update(payment); err != nil {
		return err
	}
	logger.Infow("payment_status_applied", "payment_id", payment.ID, "purpose", payment.Purpose, "status", payment.Status)
	if payment.Status != constants.PaymentStatusSucceeded {
		return nil
	}

	switch payment.Purpose {
	case constants.PaymentPurposeOrder:
		if payment.OrderID == nil {
			return ErrPaymentInvalid
		}
		if _, err := s.orderService.MarkPaid(ctx, *payment.OrderID, *payment.PaidAt); err != nil && !errors.Is(err, ErrOrderStatusInvalid) {
			return err
		}
	case constants.PaymentPurposeSellerSubscription:
		if payment.SellerID == nil {
			return ErrPaymentInvalid
		}
		if _, err := s.sellerService.ExtendSubscription(ctx, *payment.SellerID); err != nil {
			return err
		}
	}
	return nil
}

// ListForAdmin 管理端支付列表
func (s *PaymentService) ListForAdmin(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.repo.ListAdmin(filter)
}

func toPaymentRedirect(payment *models.Payment) *storefront.PaymentRedirect {
	return &storefront.PaymentRedirect{
		PaymentID:       payment.ID,
		Status:          payment.Status,
		ConfirmationURL: payment.ConfirmationURL,
	}
}

func amountMatches(remote yookassa.Amount, expected models.Money) bool {
	actual, err := models.NewMoneyFromString(remote.Value)
	if err != nil {
		return false
	}
	return actual.Equal(expected)
}

func paymentPayload(remote *yookassa.Payment) models.JSON {
	raw, err := json.Marshal(remote)
	if err != nil {
		return nil
	}
	payload := models.JSON{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	return payload
}
