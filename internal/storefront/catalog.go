package storefront

import (
	"context"
	"sort"

	"github.com/ram-us/internal/models"
)

// Category 分类（扁平形式，带 parent_id）
type Category struct {
	ID        uint   `json:"id"`
	ParentID  *uint  `json:"parent_id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	SortOrder int    `json:"sort_order"`
}

// CategoryNode 分类树节点
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}

// Product 商品列表项
type Product struct {
	ID                     uint         `json:"id"`
	CategoryID             uint         `json:"category_id"`
	Name                   string       `json:"name"`
	PartNumber             string       `json:"part_number"`
	Brand                  string       `json:"brand"`
	PriceRub               models.Money `json:"price_rub"`
	ImageURL               string       `json:"image_url"`
	Compatibility          []string     `json:"compatibility"`
	IsInstallmentAvailable bool         `json:"is_installment_available"`
	Stock                  int          `json:"stock"`
}

// ToCartItem 转换为购物车条目（数量 1）
func (p Product) ToCartItem() CartItem {
	return CartItem{
		ID:                     p.ID,
		Name:                   p.Name,
		PriceRub:               p.PriceRub,
		ImageURL:               p.ImageURL,
		PartNumber:             p.PartNumber,
		Quantity:               1,
		IsInstallmentAvailable: p.IsInstallmentAvailable,
	}
}

// ProductQuery 商品列表查询
type ProductQuery struct {
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

// ProductPage 分页结果
type ProductPage struct {
	Items    []Product
	Page     int
	PageSize int
	Total    int64
}

// CatalogAPI 目录远端接口
type CatalogAPI interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error)
}

// BuildCategoryTree 由扁平列表构建树；父节点缺失的分类挂到根上
func BuildCategoryTree(flat []Category) []*CategoryNode {
	nodes := make(map[uint]*CategoryNode, len(flat))
	for _, c := range flat {
		nodes[c.ID] = &CategoryNode{Category: c, Children: make([]*CategoryNode, 0)}
	}
	roots := make([]*CategoryNode, 0)
	for _, c := range flat {
		node := nodes[c.ID]
		if c.ParentID != nil && *c.ParentID != c.ID {
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	sortCategoryNodes(roots)
	return roots
}

func sortCategoryNodes(nodes []*CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder > nodes[j].SortOrder
		}
		return nodes[i].ID < nodes[j].ID
	})
	for _, n := range nodes {
		sortCategoryNodes(n.Children)
	}
}

// CategoryPath 返回从根到目标分类的路径（面包屑），找不到返回 nil
func CategoryPath(tree []*CategoryNode, id uint) []Category {
	for _, node := range tree {
		if node.ID == id {
			return []Category{node.Category}
		}
		if sub := CategoryPath(node.Children, id); sub != nil {
			return append([]Category{node.Category}, sub...)
		}
	}
	return nil
}

// DescendantIDs 返回分类及其全部子孙 ID
func DescendantIDs(tree []*CategoryNode, id uint) []uint {
	var walk func(nodes []*CategoryNode, collecting bool) []uint
	walk = func(nodes []*CategoryNode, collecting bool) []uint {
		var out []uint
		for _, node := range nodes {
			hit := collecting || node.ID == id
			if hit {
				out = append(out, node.ID)
			}
			out = append(out, walk(node.Children, hit)...)
		}
		return out
	}
	return walk(tree, false)
}

// Catalog 目录浏览
type Catalog struct {
	api CatalogAPI
}

// NewCatalog 创建目录浏览
func NewCatalog(api CatalogAPI) *Catalog {
	return &Catalog{api: api}
}

// Tree 拉取分类并构建树
func (c *Catalog) Tree(ctx context.Context) ([]*CategoryNode, error) {
	flat, err := c.api.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(flat), nil
}

// Browse 分页浏览商品
func (c *Catalog) Browse(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}
	return c.api.ListProducts(ctx, query)
}
