package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryIDs  []uint
	Search       string
	Brand        string
	InStock      bool
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Sort         string
	OnlyActive   bool
	WithCategory bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNo     string
	Phone       string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PaymentListFilter 查询支付列表的过滤条件
type PaymentListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	OrderID  uint
	SellerID uint
	Purpose  string
	Status   string
}

// SellerListFilter 查询卖家列表的过滤条件
type SellerListFilter struct {
	Page     int
	PageSize int
	Status   string
	Keyword  string
}

// ListingListFilter 查询二手商品列表的过滤条件
type ListingListFilter struct {
	Page       int
	PageSize   int
	SellerID   uint
	Status     string
	Keyword    string
	CarMake    string
	WithSeller bool
}

// PreorderListFilter 查询预订请求列表的过滤条件
type PreorderListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
	Keyword  string
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Status   string
}

// AuthzAuditLogListFilter 查询权限审计日志列表的过滤条件
type AuthzAuditLogListFilter struct {
	Page            int
	PageSize        int
	OperatorAdminID uint
	TargetAdminID   uint
	Action          string
	Resource        string
	Role            string
	Object          string
	Method          string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}
