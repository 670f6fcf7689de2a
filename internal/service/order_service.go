package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/metrics"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/queue"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/storefront"

	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	shipping      *ShippingService
	cartService   *CartService
	notifier      *NotificationService
	queueClient   *queue.Client
	metrics       *metrics.Metrics
	expireMinutes int
	maxItems      int
	pickupAddress string
}

// OrderServiceOptions 订单服务依赖
type OrderServiceOptions struct {
	OrderRepo     repository.OrderRepository
	ProductRepo   repository.ProductRepository
	Shipping      *ShippingService
	CartService   *CartService
	Notifier      *NotificationService
	QueueClient   *queue.Client
	Metrics       *metrics.Metrics
	ExpireMinutes int
	MaxItems      int
	PickupAddress string
}

// NewOrderService 创建订单服务
func NewOrderService(opts OrderServiceOptions) *OrderService {
	return &OrderService{
		orderRepo:     opts.OrderRepo,
		productRepo:   opts.ProductRepo,
		shipping:      opts.Shipping,
		cartService:   opts.CartService,
		notifier:      opts.Notifier,
		queueClient:   opts.QueueClient,
		metrics:       opts.Metrics,
		expireMinutes: opts.ExpireMinutes,
		maxItems:      opts.MaxItems,
		pickupAddress: opts.PickupAddress,
	}
}

var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPendingPayment: {
		constants.OrderStatusPaid:     true,
		constants.OrderStatusCanceled: true,
	},
	constants.OrderStatusPaid: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCanceled:   true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped:  true,
		constants.OrderStatusCanceled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusCompleted: true,
	},
}

func isTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

func isOrderStatusKnown(status string) bool {
	switch status {
	case constants.OrderStatusPendingPayment, constants.OrderStatusPaid, constants.OrderStatusProcessing,
		constants.OrderStatusShipped, constants.OrderStatusCompleted, constants.OrderStatusCanceled:
		return true
	}
	return false
}

// CreateOrder 由订单草稿创建订单；价格以商品当前价格为准，运费以所选资费为准
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, draft storefront.OrderDraft) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrOrderItemInvalid
	}
	items, err := mergeDraftItems(draft.Items)
	if err != nil {
		return nil, err
	}
	if s.maxItems > 0 && len(items) > s.maxItems {
		return nil, ErrCartTooLarge
	}
	if !storefront.IsValidPhone(draft.Phone) {
		return nil, ErrPhoneInvalid
	}
	phone := storefront.NormalizePhone(draft.Phone)

	productIDs := make([]uint, 0, len(items))
	totalQuantity := 0
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
		totalQuantity += item.Quantity
	}
	products, err := s.productRepo.ListByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uint]models.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	now := time.Now()
	orderItems := make([]models.OrderItem, 0, len(items))
	itemsAmount := models.Money{}
	for _, item := range items {
		product, ok := productMap[item.ProductID]
		if !ok || !product.IsActive {
			return nil, ErrProductUnavailable
		}
		if product.Stock < item.Quantity {
			return nil, ErrStockInsufficient
		}
		lineTotal := product.PriceRub.Times(item.Quantity)
		itemsAmount = itemsAmount.Plus(lineTotal)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:  product.ID,
			Name:       product.Name,
			PartNumber: product.PartNumber,
			ImageURL:   product.ImageURL,
			UnitPrice:  product.PriceRub,
			Quantity:   item.Quantity,
			TotalPrice: lineTotal,
			CreatedAt:  now,
		})
	}

	order := &models.Order{
		OrderNo:      generateOrderNo(),
		UserID:       userID,
		Status:       constants.OrderStatusPendingPayment,
		ContactName:  strings.TrimSpace(draft.ContactName),
		Phone:        phone,
		Comment:      strings.TrimSpace(draft.Comment),
		DeliveryMode: strings.TrimSpace(draft.DeliveryMode),
		ItemsAmount:  itemsAmount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.resolveDelivery(ctx, order, draft, storefront.ShipmentWeight(totalQuantity)); err != nil {
		return nil, err
	}
	order.TotalAmount = order.ItemsAmount.Plus(order.DeliveryCost)
	if minutes := s.resolveExpireMinutes(); minutes > 0 {
		expiresAt := now.Add(time.Duration(minutes) * time.Minute)
		order.ExpiresAt = &expiresAt
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		for _, item := range orderItems {
			affected, err := productRepo.DecreaseStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrStockInsufficient
			}
		}
		return s.orderRepo.WithTx(tx).Create(order, orderItems)
	})
	if err != nil {
		if errors.Is(err, ErrStockInsufficient) {
			return nil, err
		}
		logger.Errorw("order_create_failed", "user_id", userID, "error", err)
		return nil, err
	}

	s.metrics.IncOrdersCreated()
	logger.Infow("order_created",
		"order_no", order.OrderNo,
		"user_id", userID,
		"delivery_mode", order.DeliveryMode,
		"total_amount", order.TotalAmount.String(),
	)
	if s.queueClient != nil && order.ExpiresAt != nil {
		if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{OrderID: order.ID}, time.Until(*order.ExpiresAt)); err != nil {
			logger.Warnw("order_enqueue_timeout_cancel_failed", "order_id", order.ID, "error", err)
		}
	}
	if s.cartService != nil {
		store := s.cartService.Store(ctx, userID)
		for _, item := range orderItems {
			store.RemoveItem(ctx, item.ProductID)
		}
	}
	s.notifier.NotifyAdminNewOrder(ctx, order)
	return order, nil
}

func (s *OrderService) resolveDelivery(ctx context.Context, order *models.Order, draft storefront.OrderDraft, weightGrams int) error {
	switch order.DeliveryMode {
	case constants.DeliveryModePickup:
		order.Address = s.pickupAddress
		return nil
	case constants.DeliveryModeCourier, constants.DeliveryModePvz:
	default:
		return ErrDeliveryInvalid
	}
	if draft.CityCode <= 0 {
		return ErrDeliveryInvalid
	}
	order.CityCode = draft.CityCode
	order.CityName = strings.TrimSpace(draft.CityName)

	if order.DeliveryMode == constants.DeliveryModeCourier {
		order.Address = strings.TrimSpace(draft.Address)
		if order.Address == "" {
			return ErrDeliveryInvalid
		}
	} else {
		code := strings.TrimSpace(draft.PvzCode)
		if code == "" {
			return ErrDeliveryInvalid
		}
		order.PvzCode = code
		if s.shipping.Enabled() {
			point, err := s.shipping.ResolvePickupPoint(ctx, draft.CityCode, code)
			if err != nil {
				return err
			}
			order.PvzAddress = point.Address
		}
	}

	// 资费编码为 0 表示由管理员确认运费
	if draft.TariffCode == 0 {
		return nil
	}
	if !s.shipping.Enabled() {
		return ErrShippingUnavailable
	}
	tariff, err := s.shipping.ResolveTariff(ctx, draft.CityCode, weightGrams, draft.TariffCode)
	if err != nil {
		return err
	}
	order.TariffCode = tariff.Code
	order.TariffName = tariff.Name
	order.DeliveryCost = tariff.DeliverySum
	return nil
}

func mergeDraftItems(items []storefront.OrderDraftItem) ([]storefront.OrderDraftItem, error) {
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}
	merged := make([]storefront.OrderDraftItem, 0, len(items))
	index := make(map[uint]int, len(items))
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrOrderItemInvalid
		}
		if idx, ok := index[item.ProductID]; ok {
			merged[idx].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}

func (s *OrderService) resolveExpireMinutes() int {
	if s.expireMinutes < 0 {
		return 0
	}
	if s.expireMinutes == 0 {
		return 30
	}
	return s.expireMinutes
}

// GetOrderByUserOrderNo 获取用户订单详情
func (s *OrderService) GetOrderByUserOrderNo(orderNo string, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNoAndUser(strings.TrimSpace(orderNo), userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUser 用户订单列表
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetOrderForAdmin 管理端订单详情
func (s *OrderService) GetOrderForAdmin(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// CancelOrder 用户取消待支付订单
func (s *OrderService) CancelOrder(ctx context.Context, orderNo string, userID uint) (*models.Order, error) {
	order, err := s.GetOrderByUserOrderNo(orderNo, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusPendingPayment {
		return nil, ErrOrderStatusInvalid
	}
	if err := s.transition(ctx, order, constants.OrderStatusCanceled); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelExpiredOrder 取消超时未支付订单，非待支付或未过期时原样返回
func (s *OrderService) CancelExpiredOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPendingPayment || order.ExpiresAt == nil {
		return order, nil
	}
	if order.ExpiresAt.After(time.Now()) {
		return order, nil
	}
	if err := s.transition(ctx, order, constants.OrderStatusCanceled); err != nil {
		if errors.Is(err, ErrOrderStatusInvalid) {
			return order, nil
		}
		return nil, err
	}
	return order, nil
}

// CancelExpiredOrders 批量取消已过期的待支付订单，返回取消数量
func (s *OrderService) CancelExpiredOrders(ctx context.Context, now time.Time, limit int) (int, error) {
	orders, err := s.orderRepo.ListExpiredPending(now, limit)
	if err != nil {
		return 0, err
	}
	canceled := 0
	for _, item := range orders {
		order, err := s.CancelExpiredOrder(ctx, item.ID)
		if err != nil {
			logger.Warnw("order_cancel_expired_failed", "order_id", item.ID, "error", err)
			continue
		}
		if order != nil && order.Status == constants.OrderStatusCanceled {
			canceled++
		}
	}
	return canceled, nil
}

// UpdateOrderStatus 管理端推进订单状态
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderNo, target string) (*models.Order, error) {
	target = strings.TrimSpace(target)
	if !isOrderStatusKnown(target) {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.GetOrderForAdmin(orderNo)
	if err != nil {
		return nil, err
	}
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrStatusTransitionInvalid
	}
	if err := s.transition(ctx, order, target); err != nil {
		return nil, err
	}
	return order, nil
}

// MarkPaid 支付成功后将订单置为已支付
func (s *OrderService) MarkPaid(ctx context.Context, orderID uint, paidAt time.Time) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPendingPayment {
		return order, nil
	}
	order.PaidAt = &paidAt
	if err := s.transition(ctx, order, constants.OrderStatusPaid); err != nil {
		return nil, err
	}
	return order, nil
}

// transition 条件更新状态，取消时回补库存，成功后通知买家
func (s *OrderService) transition(ctx context.Context, order *models.Order, target string) error {
	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	switch target {
	case constants.OrderStatusPaid:
		paidAt := now
		if order.PaidAt != nil {
			paidAt = *order.PaidAt
		}
		updates["paid_at"] = paidAt
		order.PaidAt = &paidAt
	case constants.OrderStatusCanceled:
		updates["canceled_at"] = now
		order.CanceledAt = &now
	}
	from := order.Status
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.WithTx(tx).UpdateStatus(order.ID, []string{from}, target, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderStatusInvalid
		}
		if target != constants.OrderStatusCanceled {
			return nil
		}
		productRepo := s.productRepo.WithTx(tx)
		for _, item := range order.Items {
			if _, err := productRepo.IncreaseStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderStatusInvalid) {
			return err
		}
		logger.Warnw("order_status_update_failed", "order_no", order.OrderNo, "from", from, "to", target, "error", err)
		return fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}
	order.Status = target
	order.UpdatedAt = now
	logger.Infow("order_status_changed", "order_no", order.OrderNo, "from", from, "to", target)
	s.notifier.EnqueueOrderStatus(ctx, order.ID, target)
	return nil
}

func generateOrderNo() string {
	return fmt.Sprintf("RU%s%s", time.Now().Format("060102150405"), randNumeric(4))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
