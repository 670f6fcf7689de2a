package service

import (
	"context"
	"fmt"

	"github.com/ram-us/internal/i18n"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/queue"
	"github.com/ram-us/internal/repository"
)

// Messenger 消息发送通道（Telegram Bot 实现）
type Messenger interface {
	Enabled() bool
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// NotificationService Telegram 通知服务
type NotificationService struct {
	messenger   Messenger
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
	adminChatID int64
}

// NewNotificationService 创建通知服务
func NewNotificationService(messenger Messenger, orderRepo repository.OrderRepository, userRepo repository.UserRepository, queueClient *queue.Client, adminChatID int64) *NotificationService {
	return &NotificationService{
		messenger:   messenger,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
		adminChatID: adminChatID,
	}
}

func (s *NotificationService) enabled() bool {
	return s != nil && s.messenger != nil && s.messenger.Enabled()
}

// EnqueueOrderStatus 入队订单状态通知；队列不可用时直接发送
func (s *NotificationService) EnqueueOrderStatus(ctx context.Context, orderID uint, status string) {
	if !s.enabled() || orderID == 0 {
		return
	}
	if s.queueClient != nil && s.queueClient.Enabled() {
		err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{OrderID: orderID, Status: status})
		if err == nil {
			return
		}
		logger.Warnw("notify_enqueue_order_status_failed", "order_id", orderID, "status", status, "error", err)
	}
	if err := s.SendOrderStatus(ctx, orderID, status); err != nil {
		logger.Warnw("notify_send_order_status_failed", "order_id", orderID, "status", status, "error", err)
	}
}

// SendOrderStatus 向买家发送订单状态消息
func (s *NotificationService) SendOrderStatus(ctx context.Context, orderID uint, status string) error {
	if !s.enabled() {
		return nil
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if status == "" {
		status = order.Status
	}
	user, err := s.userRepo.GetByID(order.UserID)
	if err != nil {
		return err
	}
	if user == nil || user.TelegramID == 0 {
		logger.Debugw("notify_order_status_skip_no_receiver", "order_id", orderID)
		return nil
	}
	locale := user.LanguageCode
	text := i18n.Sprintf(locale, "notify.order_status", order.OrderNo, i18n.T(locale, "order.status."+status))
	return s.messenger.SendMessage(ctx, user.TelegramID, text)
}

// NotifyAdminNewOrder 通知管理员群有新订单
func (s *NotificationService) NotifyAdminNewOrder(ctx context.Context, order *models.Order) {
	if !s.enabled() || s.adminChatID == 0 || order == nil {
		return
	}
	text := i18n.Sprintf(i18n.DefaultLocale, "notify.new_order", order.OrderNo, order.TotalAmount.String())
	if err := s.messenger.SendMessage(ctx, s.adminChatID, text); err != nil {
		logger.Warnw("notify_admin_new_order_failed", "order_no", order.OrderNo, "error", err)
	}
}

// NotifyUser 向用户发送任意文本
func (s *NotificationService) NotifyUser(ctx context.Context, userID uint, key string) error {
	if !s.enabled() {
		return nil
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil || user.TelegramID == 0 {
		return nil
	}
	if err := s.messenger.SendMessage(ctx, user.TelegramID, i18n.T(user.LanguageCode, key)); err != nil {
		return fmt.Errorf("notify user %d: %w", userID, err)
	}
	return nil
}
