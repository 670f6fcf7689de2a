package service

import (
	"strings"
	"time"

	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/repository"
)

const maxListingImages = 10

// ListingService 二手市场商品服务
type ListingService struct {
	repo       repository.ListingRepository
	sellerRepo repository.SellerRepository
	now        func() time.Time
}

// ListingInput 卖家提交的商品信息
type ListingInput struct {
	Title       string
	Description string
	PartNumber  string
	CarMake     string
	CarModel    string
	Condition   string
	PriceRub    string
	Images      []string
}

// NewListingService 创建二手商品服务
func NewListingService(repo repository.ListingRepository, sellerRepo repository.SellerRepository) *ListingService {
	return &ListingService{repo: repo, sellerRepo: sellerRepo, now: time.Now}
}

var listingTransitions = map[string]map[string]bool{
	constants.ListingStatusPending: {
		constants.ListingStatusApproved: true,
		constants.ListingStatusRejected: true,
	},
}

// activeSeller 已审核通过且订阅有效的卖家
func (s *ListingService) activeSeller(userID uint) (*models.Seller, error) {
	seller, err := s.sellerRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, ErrSellerNotFound
	}
	if seller.Status != constants.SellerStatusApproved {
		return nil, ErrSellerNotApproved
	}
	if !seller.SubscriptionActive(s.now()) {
		return nil, ErrSubscriptionInactive
	}
	return seller, nil
}

// Create 卖家发布商品，进入待审核
func (s *ListingService) Create(userID uint, input ListingInput) (*models.Listing, error) {
	seller, err := s.activeSeller(userID)
	if err != nil {
		return nil, err
	}
	listing := &models.Listing{SellerID: seller.ID}
	if err := applyListingInput(listing, input); err != nil {
		return nil, err
	}
	listing.Status = constants.ListingStatusPending
	if err := s.repo.Create(listing); err != nil {
		return nil, err
	}
	logger.Infow("listing_created", "listing_id", listing.ID, "seller_id", seller.ID)
	return listing, nil
}

// Update 卖家修改商品，修改后重新审核
func (s *ListingService) Update(userID, listingID uint, input ListingInput) (*models.Listing, error) {
	seller, err := s.activeSeller(userID)
	if err != nil {
		return nil, err
	}
	listing, err := s.repo.GetByID(listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil || listing.SellerID != seller.ID {
		return nil, ErrListingNotFound
	}
	if err := applyListingInput(listing, input); err != nil {
		return nil, err
	}
	listing.Status = constants.ListingStatusPending
	listing.RejectReason = ""
	if err := s.repo.Update(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// DeleteOwn 卖家删除自己的商品
func (s *ListingService) DeleteOwn(userID, listingID uint) error {
	seller, err := s.sellerRepo.GetByUserID(userID)
	if err != nil {
		return err
	}
	if seller == nil {
		return ErrSellerNotFound
	}
	listing, err := s.repo.GetByID(listingID)
	if err != nil {
		return err
	}
	if listing == nil || listing.SellerID != seller.ID {
		return ErrListingNotFound
	}
	return s.repo.Delete(listing.ID)
}

// ListMine 卖家自己的商品（全部状态）
func (s *ListingService) ListMine(userID uint, page, pageSize int) ([]models.Listing, int64, error) {
	seller, err := s.sellerRepo.GetByUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	if seller == nil {
		return nil, 0, ErrSellerNotFound
	}
	return s.repo.List(repository.ListingListFilter{
		Page:     page,
		PageSize: pageSize,
		SellerID: seller.ID,
	})
}

// ListPublic 公开商品列表，仅审核通过
func (s *ListingService) ListPublic(filter repository.ListingListFilter) ([]models.Listing, int64, error) {
	filter.Status = constants.ListingStatusApproved
	filter.SellerID = 0
	filter.WithSeller = true
	return s.repo.List(filter)
}

// GetPublic 公开商品详情
func (s *ListingService) GetPublic(id uint) (*models.Listing, error) {
	listing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if listing == nil || listing.Status != constants.ListingStatusApproved {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

// ListForAdmin 管理端商品列表
func (s *ListingService) ListForAdmin(filter repository.ListingListFilter) ([]models.Listing, int64, error) {
	filter.WithSeller = true
	return s.repo.List(filter)
}

// UpdateStatus 管理端审核商品
func (s *ListingService) UpdateStatus(id uint, target, reason string) (*models.Listing, error) {
	listing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	target = strings.TrimSpace(target)
	if !listingTransitions[listing.Status][target] {
		return nil, ErrStatusTransitionInvalid
	}
	from := listing.Status
	listing.Status = target
	if target == constants.ListingStatusRejected {
		listing.RejectReason = strings.TrimSpace(reason)
	}
	if err := s.repo.Update(listing); err != nil {
		return nil, err
	}
	logger.Infow("listing_status_changed", "listing_id", listing.ID, "from", from, "to", target)
	return listing, nil
}

// Delete 管理端删除商品
func (s *ListingService) Delete(id uint) error {
	listing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if listing == nil {
		return ErrListingNotFound
	}
	return s.repo.Delete(id)
}

func applyListingInput(listing *models.Listing, input ListingInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return ErrListingInvalid
	}
	condition := strings.TrimSpace(input.Condition)
	if condition == "" {
		condition = constants.ListingConditionUsed
	}
	if condition != constants.ListingConditionNew && condition != constants.ListingConditionUsed {
		return ErrListingInvalid
	}
	price, err := models.NewMoneyFromString(strings.TrimSpace(input.PriceRub))
	if err != nil || !price.IsPositive() {
		return ErrListingInvalid
	}
	images := compactStrings(input.Images)
	if len(images) > maxListingImages {
		return ErrListingInvalid
	}
	listing.Title = title
	listing.Description = strings.TrimSpace(input.Description)
	listing.PartNumber = strings.TrimSpace(input.PartNumber)
	listing.CarMake = strings.TrimSpace(input.CarMake)
	listing.CarModel = strings.TrimSpace(input.CarModel)
	listing.Condition = condition
	listing.PriceRub = price
	listing.Images = models.StringArray(images)
	return nil
}
