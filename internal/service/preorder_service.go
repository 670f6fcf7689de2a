package service

import (
	"strings"
	"time"

	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/storefront"
)

const vinLength = 17

// PreorderService 配件预订服务
type PreorderService struct {
	repo repository.PreorderRepository
}

// PreorderInput 预订请求
type PreorderInput struct {
	PartName   string
	PartNumber string
	VIN        string
	Phone      string
	Comment    string
}

// NewPreorderService 创建预订服务
func NewPreorderService(repo repository.PreorderRepository) *PreorderService {
	return &PreorderService{repo: repo}
}

var preorderTransitions = map[string]map[string]bool{
	constants.PreorderStatusNew: {
		constants.PreorderStatusProcessed: true,
		constants.PreorderStatusClosed:    true,
	},
	constants.PreorderStatusProcessed: {
		constants.PreorderStatusClosed: true,
	},
}

// Create 提交预订请求
func (s *PreorderService) Create(userID uint, input PreorderInput) (*models.Preorder, error) {
	partName := strings.TrimSpace(input.PartName)
	if userID == 0 || partName == "" {
		return nil, ErrPreorderInvalid
	}
	if !storefront.IsValidPhone(input.Phone) {
		return nil, ErrPhoneInvalid
	}
	phone := storefront.NormalizePhone(input.Phone)
	vin := strings.ToUpper(strings.TrimSpace(input.VIN))
	if vin != "" && !isValidVIN(vin) {
		return nil, ErrPreorderInvalid
	}
	preorder := &models.Preorder{
		UserID:     userID,
		PartName:   partName,
		PartNumber: strings.TrimSpace(input.PartNumber),
		VIN:        vin,
		Phone:      phone,
		Comment:    strings.TrimSpace(input.Comment),
		Status:     constants.PreorderStatusNew,
	}
	if err := s.repo.Create(preorder); err != nil {
		return nil, err
	}
	logger.Infow("preorder_created", "preorder_id", preorder.ID, "user_id", userID)
	return preorder, nil
}

// ListMine 用户自己的预订请求
func (s *PreorderService) ListMine(userID uint, page, pageSize int) ([]models.Preorder, int64, error) {
	return s.repo.List(repository.PreorderListFilter{Page: page, PageSize: pageSize, UserID: userID})
}

// ListForAdmin 管理端预订列表
func (s *PreorderService) ListForAdmin(filter repository.PreorderListFilter) ([]models.Preorder, int64, error) {
	return s.repo.List(filter)
}

// UpdateStatus 管理端处理预订请求
func (s *PreorderService) UpdateStatus(id uint, target, note string) (*models.Preorder, error) {
	preorder, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if preorder == nil {
		return nil, ErrPreorderNotFound
	}
	target = strings.TrimSpace(target)
	if !preorderTransitions[preorder.Status][target] {
		return nil, ErrStatusTransitionInvalid
	}
	now := time.Now()
	preorder.Status = target
	if note = strings.TrimSpace(note); note != "" {
		preorder.AdminNote = note
	}
	if preorder.ProcessedAt == nil {
		preorder.ProcessedAt = &now
	}
	if err := s.repo.Update(preorder); err != nil {
		return nil, err
	}
	return preorder, nil
}

// isValidVIN 17 位，不含 I/O/Q
func isValidVIN(vin string) bool {
	if len(vin) != vinLength {
		return false
	}
	for _, r := range vin {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
			if r == 'I' || r == 'O' || r == 'Q' {
				return false
			}
		default:
			return false
		}
	}
	return true
}
