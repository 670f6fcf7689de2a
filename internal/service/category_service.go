package service

import (
	"strings"

	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/storefront"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	ParentID  *uint
	Slug      string
	Name      string
	Icon      string
	SortOrder int
	IsActive  *bool
}

// List 获取分类列表
func (s *CategoryService) List(onlyActive bool) ([]models.Category, error) {
	return s.repo.List(onlyActive)
}

// Tree 获取分类树
func (s *CategoryService) Tree(onlyActive bool) ([]*storefront.CategoryNode, error) {
	categories, err := s.repo.List(onlyActive)
	if err != nil {
		return nil, err
	}
	return storefront.BuildCategoryTree(toStorefrontCategories(categories)), nil
}

// DescendantIDs 返回分类及其全部子孙 ID（含未启用的子分类）
func (s *CategoryService) DescendantIDs(id uint) ([]uint, error) {
	tree, err := s.Tree(false)
	if err != nil {
		return nil, err
	}
	return storefront.DescendantIDs(tree, id), nil
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	if err := s.validate(0, &input); err != nil {
		return nil, err
	}
	category := models.Category{
		ParentID:  input.ParentID,
		Slug:      input.Slug,
		Name:      input.Name,
		Icon:      input.Icon,
		SortOrder: input.SortOrder,
		IsActive:  input.IsActive == nil || *input.IsActive,
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if err := s.validate(id, &input); err != nil {
		return nil, err
	}
	category.ParentID = input.ParentID
	category.Slug = input.Slug
	category.Name = input.Name
	category.Icon = input.Icon
	category.SortOrder = input.SortOrder
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类（存在商品或子分类时拒绝）
func (s *CategoryService) Delete(id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	usage, err := s.repo.Usage(id)
	if err != nil {
		return err
	}
	if usage.InUse() {
		return ErrCategoryInUse
	}
	return s.repo.Delete(id)
}

func (s *CategoryService) validate(id uint, input *CategoryInput) error {
	input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	input.Name = strings.TrimSpace(input.Name)
	input.Icon = strings.TrimSpace(input.Icon)
	if input.Slug == "" || input.Name == "" {
		return ErrInvalidInput
	}
	taken, err := s.repo.SlugTaken(input.Slug, id)
	if err != nil {
		return err
	}
	if taken {
		return ErrCategorySlugExists
	}
	if input.ParentID == nil || *input.ParentID == 0 {
		input.ParentID = nil
		return nil
	}
	parentID := *input.ParentID
	if parentID == id {
		return ErrCategoryParentInvalid
	}
	parent, err := s.repo.GetByID(parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return ErrCategoryParentInvalid
	}
	if id == 0 {
		return nil
	}
	// 父分类不能是自身的子孙
	descendants, err := s.DescendantIDs(id)
	if err != nil {
		return err
	}
	for _, d := range descendants {
		if d == parentID {
			return ErrCategoryParentInvalid
		}
	}
	return nil
}

func toStorefrontCategories(categories []models.Category) []storefront.Category {
	out := make([]storefront.Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, storefront.Category{
			ID:        c.ID,
			ParentID:  c.ParentID,
			Slug:      c.Slug,
			Name:      c.Name,
			Icon:      c.Icon,
			SortOrder: c.SortOrder,
		})
	}
	return out
}
