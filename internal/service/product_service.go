package service

import (
	"strings"

	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品业务服务
type ProductService struct {
	repo            repository.ProductRepository
	categoryService *CategoryService
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryService *CategoryService) *ProductService {
	return &ProductService{
		repo:            repo,
		categoryService: categoryService,
	}
}

// ProductListInput 商品列表查询输入
type ProductListInput struct {
	Page       int
	PageSize   int
	CategoryID uint
	Search     string
	Brand      string
	InStock    bool
	MinPrice   string
	MaxPrice   string
	Sort       string
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID             uint
	Name                   string
	PartNumber             string
	Brand                  string
	Description            string
	PriceRub               string
	ImageURL               string
	Images                 []string
	Compatibility          []string
	IsInstallmentAvailable bool
	Stock                  int
	WeightGrams            int
	IsActive               *bool
	SortOrder              int
}

// ListPublic 前台商品列表（仅上架，分类包含子分类）
func (s *ProductService) ListPublic(input ProductListInput) ([]models.Product, int64, error) {
	filter, err := s.buildFilter(input)
	if err != nil {
		return nil, 0, err
	}
	filter.OnlyActive = true
	return s.repo.List(filter)
}

// ListAdmin 管理端商品列表
func (s *ProductService) ListAdmin(input ProductListInput) ([]models.Product, int64, error) {
	filter, err := s.buildFilter(input)
	if err != nil {
		return nil, 0, err
	}
	filter.WithCategory = true
	return s.repo.List(filter)
}

// Brands 品牌列表
func (s *ProductService) Brands() ([]string, error) {
	return s.repo.ListBrands(true)
}

// GetPublic 前台商品详情
func (s *ProductService) GetPublic(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetAdmin 管理端商品详情
func (s *ProductService) GetAdmin(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	product := &models.Product{IsActive: true}
	if err := s.apply(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.GetAdmin(id)
	if err != nil {
		return nil, err
	}
	product.Category = nil
	if err := s.apply(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	if _, err := s.GetAdmin(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *ProductService) apply(product *models.Product, input ProductInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.CategoryID == 0 || input.Stock < 0 || input.WeightGrams < 0 {
		return ErrProductInvalid
	}
	price, err := models.NewMoneyFromString(strings.TrimSpace(input.PriceRub))
	if err != nil || price.IsNegative() {
		return ErrProductInvalid
	}
	if s.categoryService != nil {
		category, err := s.categoryService.repo.GetByID(input.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return ErrCategoryNotFound
		}
	}
	product.CategoryID = input.CategoryID
	product.Name = name
	product.PartNumber = strings.TrimSpace(input.PartNumber)
	product.Brand = strings.TrimSpace(input.Brand)
	product.Description = strings.TrimSpace(input.Description)
	product.PriceRub = price
	product.ImageURL = strings.TrimSpace(input.ImageURL)
	product.Images = models.StringArray(compactStrings(input.Images))
	product.Compatibility = models.StringArray(compactStrings(input.Compatibility))
	product.IsInstallmentAvailable = input.IsInstallmentAvailable
	product.Stock = input.Stock
	product.WeightGrams = input.WeightGrams
	product.SortOrder = input.SortOrder
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	return nil
}

func (s *ProductService) buildFilter(input ProductListInput) (repository.ProductListFilter, error) {
	filter := repository.ProductListFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
		Search:   strings.TrimSpace(input.Search),
		Brand:    strings.TrimSpace(input.Brand),
		InStock:  input.InStock,
		Sort:     input.Sort,
	}
	if input.CategoryID != 0 {
		ids := []uint{input.CategoryID}
		if s.categoryService != nil {
			descendants, err := s.categoryService.DescendantIDs(input.CategoryID)
			if err != nil {
				return filter, err
			}
			if len(descendants) > 0 {
				ids = descendants
			}
		}
		filter.CategoryIDs = ids
	}
	var err error
	if filter.MinPrice, err = parseOptionalDecimal(input.MinPrice); err != nil {
		return filter, ErrInvalidInput
	}
	if filter.MaxPrice, err = parseOptionalDecimal(input.MaxPrice); err != nil {
		return filter, ErrInvalidInput
	}
	return filter, nil
}

func parseOptionalDecimal(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func compactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
