package constants

// 订单状态常量
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusProcessing     = "processing"
	OrderStatusShipped        = "shipped"
	OrderStatusCompleted      = "completed"
	OrderStatusCanceled       = "canceled"
)

// 配送方式常量
const (
	DeliveryModeCourier = "courier" // 快递上门
	DeliveryModePvz     = "pvz"     // 物流自提点
	DeliveryModePickup  = "pickup"  // 门店自提
)

// 支付状态常量（与 YooKassa 状态一致）
const (
	PaymentStatusPending           = "pending"
	PaymentStatusWaitingForCapture = "waiting_for_capture"
	PaymentStatusSucceeded         = "succeeded"
	PaymentStatusCanceled          = "canceled"
	PaymentStatusFailed            = "failed" // 发起失败，未到达支付方
)

// 支付用途常量
const (
	PaymentPurposeOrder              = "order"
	PaymentPurposeSellerSubscription = "seller_subscription"
)

// 支付提供方常量
const (
	PaymentProviderYooKassa = "yookassa"
)

// 币种
const (
	CurrencyRUB = "RUB"
)

// 卖家状态常量
const (
	SellerStatusPending  = "pending"
	SellerStatusApproved = "approved"
	SellerStatusRejected = "rejected"
	SellerStatusBanned   = "banned"
)

// 二手商品状态常量
const (
	ListingStatusPending  = "pending"
	ListingStatusApproved = "approved"
	ListingStatusRejected = "rejected"
)

// 二手商品成色
const (
	ListingConditionNew  = "new"
	ListingConditionUsed = "used"
)

// 预订请求状态常量
const (
	PreorderStatusNew       = "new"
	PreorderStatusProcessed = "processed"
	PreorderStatusClosed    = "closed"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 客户端状态存储键
const (
	StorageKeyCart   = "ram-us-cart"
	StorageKeyGarage = "ram-us-garage"
)

// 商品排序方式
const (
	ProductSortDefault   = ""
	ProductSortPriceAsc  = "price_asc"
	ProductSortPriceDesc = "price_desc"
	ProductSortNew       = "new"
	ProductSortPopular   = "popular"
)

// 队列与任务名称
const (
	QueueDefault                 = "default"
	QueueCritical                = "critical"
	TaskOrderStatusNotify        = "order:status_notify"
	TaskOrderTimeoutCancel       = "order:timeout_cancel"
	TaskSellerSubscriptionExpire = "seller:subscription_expire"
)

// 分页
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
