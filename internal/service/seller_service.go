package service

import (
	"context"
	"strings"
	"time"

	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/queue"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/storefront"
)

const defaultSubscriptionDays = 30

// SellerService 二手市场卖家服务
type SellerService struct {
	repo             repository.SellerRepository
	notifier         *NotificationService
	queueClient      *queue.Client
	subscriptionFee  models.Money
	subscriptionDays int
	now              func() time.Time
}

// SellerApplyInput 卖家入驻申请
type SellerApplyInput struct {
	ShopName    string
	Phone       string
	City        string
	Description string
}

// NewSellerService 创建卖家服务
func NewSellerService(repo repository.SellerRepository, notifier *NotificationService, queueClient *queue.Client, subscriptionFee models.Money, subscriptionDays int) *SellerService {
	if subscriptionDays <= 0 {
		subscriptionDays = defaultSubscriptionDays
	}
	return &SellerService{
		repo:             repo,
		notifier:         notifier,
		queueClient:      queueClient,
		subscriptionFee:  subscriptionFee,
		subscriptionDays: subscriptionDays,
		now:              time.Now,
	}
}

var sellerTransitions = map[string]map[string]bool{
	constants.SellerStatusPending: {
		constants.SellerStatusApproved: true,
		constants.SellerStatusRejected: true,
	},
	constants.SellerStatusApproved: {
		constants.SellerStatusBanned: true,
	},
	constants.SellerStatusRejected: {
		constants.SellerStatusApproved: true,
	},
	constants.SellerStatusBanned: {
		constants.SellerStatusApproved: true,
	},
}

// SubscriptionFee 订阅价格
func (s *SellerService) SubscriptionFee() models.Money {
	return s.subscriptionFee
}

// Apply 提交或重新提交入驻申请；已通过或被封禁的卖家不可重复申请
func (s *SellerService) Apply(userID uint, input SellerApplyInput) (*models.Seller, error) {
	shopName := strings.TrimSpace(input.ShopName)
	if userID == 0 || shopName == "" {
		return nil, ErrInvalidInput
	}
	if !storefront.IsValidPhone(input.Phone) {
		return nil, ErrPhoneInvalid
	}
	phone := storefront.NormalizePhone(input.Phone)
	existing, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status != constants.SellerStatusPending && existing.Status != constants.SellerStatusRejected {
			return nil, ErrSellerExists
		}
		existing.ShopName = shopName
		existing.Phone = phone
		existing.City = strings.TrimSpace(input.City)
		existing.Description = strings.TrimSpace(input.Description)
		existing.Status = constants.SellerStatusPending
		existing.RejectReason = ""
		if err := s.repo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	seller := &models.Seller{
		UserID:      userID,
		ShopName:    shopName,
		Phone:       phone,
		City:        strings.TrimSpace(input.City),
		Description: strings.TrimSpace(input.Description),
		Status:      constants.SellerStatusPending,
	}
	if err := s.repo.Create(seller); err != nil {
		return nil, err
	}
	logger.Infow("seller_applied", "seller_id", seller.ID, "user_id", userID)
	return seller, nil
}

// GetByUser 获取当前用户的卖家资料
func (s *SellerService) GetByUser(userID uint) (*models.Seller, error) {
	seller, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, ErrSellerNotFound
	}
	return seller, nil
}

// Get 获取卖家
func (s *SellerService) Get(id uint) (*models.Seller, error) {
	seller, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, ErrSellerNotFound
	}
	return seller, nil
}

// ListForAdmin 管理端卖家列表
func (s *SellerService) ListForAdmin(filter repository.SellerListFilter) ([]models.Seller, int64, error) {
	return s.repo.List(filter)
}

// UpdateStatus 管理端审核卖家
func (s *SellerService) UpdateStatus(id uint, target, reason string) (*models.Seller, error) {
	seller, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	target = strings.TrimSpace(target)
	if !sellerTransitions[seller.Status][target] {
		return nil, ErrStatusTransitionInvalid
	}
	now := s.now()
	from := seller.Status
	seller.Status = target
	seller.ReviewedAt = &now
	if target == constants.SellerStatusApproved {
		seller.RejectReason = ""
	} else {
		seller.RejectReason = strings.TrimSpace(reason)
	}
	if err := s.repo.Update(seller); err != nil {
		return nil, err
	}
	logger.Infow("seller_status_changed", "seller_id", seller.ID, "from", from, "to", target)
	return seller, nil
}

// ExtendSubscription 订阅支付成功后延长有效期，从当前到期时间与现在的较晚者起算
func (s *SellerService) ExtendSubscription(ctx context.Context, sellerID uint) (*models.Seller, error) {
	seller, err := s.Get(sellerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	base := now
	if seller.SubscriptionUntil != nil && seller.SubscriptionUntil.After(now) {
		base = *seller.SubscriptionUntil
	}
	until := base.AddDate(0, 0, s.subscriptionDays)
	seller.SubscriptionUntil = &until
	if err := s.repo.Update(seller); err != nil {
		return nil, err
	}
	logger.Infow("seller_subscription_extended", "seller_id", seller.ID, "until", until)
	if s.queueClient != nil {
		payload := queue.SellerSubscriptionExpirePayload{SellerID: seller.ID}
		if err := s.queueClient.EnqueueSellerSubscriptionExpire(payload, until.Sub(now)); err != nil {
			logger.Warnw("seller_enqueue_subscription_expire_failed", "seller_id", seller.ID, "error", err)
		}
	}
	return seller, nil
}

// HandleSubscriptionExpired 订阅到期任务：若期间已续费则忽略，否则提醒卖家
func (s *SellerService) HandleSubscriptionExpired(ctx context.Context, sellerID uint) error {
	seller, err := s.repo.GetByID(sellerID)
	if err != nil {
		return err
	}
	if seller == nil || seller.SubscriptionActive(s.now()) {
		return nil
	}
	logger.Infow("seller_subscription_expired", "seller_id", seller.ID)
	return s.notifier.NotifyUser(ctx, seller.UserID, "notify.subscription_expired")
}
