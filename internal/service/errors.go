package service

import "errors"

// 通用错误
var (
	ErrNotFound                = errors.New("resource not found")
	ErrInvalidInput            = errors.New("invalid input")
	ErrQueueUnavailable        = errors.New("queue unavailable")
	ErrStorageFailed           = errors.New("storage operation failed")
	ErrStatusTransitionInvalid = errors.New("status transition not allowed")
)

// 认证相关错误
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserDisabled       = errors.New("user disabled")
	ErrInitDataInvalid    = errors.New("telegram init data invalid")
	ErrInitDataExpired    = errors.New("telegram init data expired")
	ErrAdminExists        = errors.New("admin already exists")
)

// 商品与分类错误
var (
	ErrProductNotFound       = errors.New("product not found")
	ErrProductUnavailable    = errors.New("product unavailable")
	ErrProductInvalid        = errors.New("product invalid")
	ErrStockInsufficient     = errors.New("stock insufficient")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategorySlugExists    = errors.New("category slug exists")
	ErrCategoryInUse         = errors.New("category in use")
	ErrCategoryParentInvalid = errors.New("category parent invalid")
)

// 购物车与车库错误
var (
	ErrCartEmpty         = errors.New("cart is empty")
	ErrCartTooLarge      = errors.New("cart too large")
	ErrVehicleIncomplete = errors.New("vehicle incomplete")
)

// 订单错误
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderStatusInvalid = errors.New("order status invalid")
	ErrOrderItemInvalid   = errors.New("order item invalid")
	ErrDeliveryInvalid    = errors.New("delivery invalid")
	ErrPhoneInvalid       = errors.New("phone invalid")
	ErrOrderFetchFailed   = errors.New("order fetch failed")
	ErrOrderUpdateFailed  = errors.New("order update failed")
)

// 支付错误
var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrPaymentFailed      = errors.New("payment initiation failed")
	ErrPaymentDisabled    = errors.New("payment provider not configured")
	ErrPaymentAlreadyPaid = errors.New("payment already completed")
	ErrPaymentInvalid     = errors.New("payment notification invalid")
)

// 物流错误
var (
	ErrShippingUnavailable = errors.New("shipping provider not configured")
	ErrShippingFailed      = errors.New("shipping provider request failed")
)

// 二手市场错误
var (
	ErrSellerNotFound       = errors.New("seller not found")
	ErrSellerExists         = errors.New("seller already exists")
	ErrSellerNotApproved    = errors.New("seller not approved")
	ErrSubscriptionInactive = errors.New("seller subscription inactive")
	ErrListingNotFound      = errors.New("listing not found")
	ErrListingInvalid       = errors.New("listing invalid")
)

// 预订、橱窗与顾问错误
var (
	ErrPreorderInvalid  = errors.New("preorder invalid")
	ErrPreorderNotFound = errors.New("preorder not found")
	ErrShowcaseInvalid  = errors.New("showcase invalid")
	ErrChatDisabled     = errors.New("chat consultant disabled")
	ErrChatFailed       = errors.New("chat consultant failed")
)
