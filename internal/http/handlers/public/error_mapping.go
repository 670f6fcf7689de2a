package public

import (
	handlershared "github.com/ram-us/internal/http/handlers/shared"
	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/service"

	"github.com/gin-gonic/gin"
)

type mappedHandlerError = handlershared.MappedError

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError) {
	handlershared.RespondMappedError(c, err, rules, response.CodeInternal, "error.internal")
}

func respondBindError(c *gin.Context, err error) {
	respondError(c, response.CodeBadRequest, handlershared.BindErrorKey(err), err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var authErrorRules = []mappedHandlerError{
	{Target: service.ErrInitDataInvalid, Code: response.CodeUnauthorized, Key: "error.telegram_init_data_invalid"},
	{Target: service.ErrInitDataExpired, Code: response.CodeUnauthorized, Key: "error.telegram_init_data_expired"},
	{Target: service.ErrUserDisabled, Code: response.CodeForbidden, Key: "error.user_disabled"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
}

var catalogErrorRules = []mappedHandlerError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductUnavailable, Code: response.CodeBadRequest, Key: "error.product_unavailable"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
	{Target: service.ErrListingNotFound, Code: response.CodeNotFound, Key: "error.listing_not_found"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

var cartErrorRules = []mappedHandlerError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrStockInsufficient, Code: response.CodeBadRequest, Key: "error.stock_insufficient"},
	{Target: service.ErrCartTooLarge, Code: response.CodeBadRequest, Key: "error.cart_too_large"},
	{Target: service.ErrVehicleIncomplete, Code: response.CodeBadRequest, Key: "error.vehicle_incomplete"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

var shippingErrorRules = []mappedHandlerError{
	{Target: service.ErrShippingUnavailable, Code: response.CodeUnavailable, Key: "error.shipping_unavailable"},
	{Target: service.ErrShippingFailed, Code: response.CodeBadGateway, Key: "error.shipping_failed"},
	{Target: service.ErrDeliveryInvalid, Code: response.CodeBadRequest, Key: "error.delivery_invalid"},
}

var orderErrorRules = concatMappedHandlerErrors([]mappedHandlerError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderItemInvalid, Code: response.CodeBadRequest, Key: "error.order_item_invalid"},
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrPhoneInvalid, Code: response.CodeBadRequest, Key: "error.phone_invalid"},
	{Target: service.ErrProductUnavailable, Code: response.CodeBadRequest, Key: "error.product_unavailable"},
	{Target: service.ErrStatusTransitionInvalid, Code: response.CodeConflict, Key: "error.status_transition_invalid"},
	{Target: service.ErrQueueUnavailable, Code: response.CodeInternal, Key: "error.queue_unavailable"},
}, cartErrorRules, shippingErrorRules)

var paymentErrorRules = concatMappedHandlerErrors([]mappedHandlerError{
	{Target: service.ErrPaymentDisabled, Code: response.CodeUnavailable, Key: "error.payment_disabled"},
	{Target: service.ErrPaymentAlreadyPaid, Code: response.CodeConflict, Key: "error.payment_already_paid"},
	{Target: service.ErrPaymentFailed, Code: response.CodeBadGateway, Key: "error.payment_failed"},
	{Target: service.ErrPaymentInvalid, Code: response.CodeBadRequest, Key: "error.payment_invalid"},
	{Target: service.ErrPaymentNotFound, Code: response.CodeNotFound, Key: "error.payment_not_found"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
}, marketplaceErrorRules)

var marketplaceErrorRules = []mappedHandlerError{
	{Target: service.ErrSellerNotFound, Code: response.CodeNotFound, Key: "error.seller_not_found"},
	{Target: service.ErrSellerExists, Code: response.CodeConflict, Key: "error.seller_exists"},
	{Target: service.ErrSellerNotApproved, Code: response.CodeForbidden, Key: "error.seller_not_approved"},
	{Target: service.ErrSubscriptionInactive, Code: response.CodeForbidden, Key: "error.subscription_inactive"},
	{Target: service.ErrListingNotFound, Code: response.CodeNotFound, Key: "error.listing_not_found"},
	{Target: service.ErrListingInvalid, Code: response.CodeBadRequest, Key: "error.listing_invalid"},
	{Target: service.ErrPreorderInvalid, Code: response.CodeBadRequest, Key: "error.preorder_invalid"},
	{Target: service.ErrPhoneInvalid, Code: response.CodeBadRequest, Key: "error.phone_invalid"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

var chatErrorRules = []mappedHandlerError{
	{Target: service.ErrChatDisabled, Code: response.CodeUnavailable, Key: "error.chat_disabled"},
	{Target: service.ErrChatFailed, Code: response.CodeBadGateway, Key: "error.chat_failed"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
}
