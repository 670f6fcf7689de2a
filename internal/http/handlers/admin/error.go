package admin

import (
	handlershared "github.com/ram-us/internal/http/handlers/shared"
	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []handlershared.MappedError) {
	handlershared.RespondMappedError(c, err, rules, response.CodeInternal, "error.internal")
}

var transitionErrorRules = []handlershared.MappedError{
	{Target: service.ErrStatusTransitionInvalid, Code: response.CodeConflict, Key: "error.status_transition_invalid"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

var catalogErrorRules = []handlershared.MappedError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductInvalid, Code: response.CodeBadRequest, Key: "error.product_invalid"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
	{Target: service.ErrCategorySlugExists, Code: response.CodeConflict, Key: "error.category_slug_exists"},
	{Target: service.ErrCategoryInUse, Code: response.CodeConflict, Key: "error.category_in_use"},
	{Target: service.ErrCategoryParentInvalid, Code: response.CodeBadRequest, Key: "error.category_parent_invalid"},
	{Target: service.ErrShowcaseInvalid, Code: response.CodeBadRequest, Key: "error.showcase_invalid"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

var sellerErrorRules = append([]handlershared.MappedError{
	{Target: service.ErrSellerNotFound, Code: response.CodeNotFound, Key: "error.seller_not_found"},
}, transitionErrorRules...)

var listingErrorRules = append([]handlershared.MappedError{
	{Target: service.ErrListingNotFound, Code: response.CodeNotFound, Key: "error.listing_not_found"},
}, transitionErrorRules...)

var orderErrorRules = append([]handlershared.MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
}, transitionErrorRules...)

var preorderErrorRules = append([]handlershared.MappedError{
	{Target: service.ErrPreorderNotFound, Code: response.CodeNotFound, Key: "error.preorder_not_found"},
}, transitionErrorRules...)

func respondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondErrorWithMsg(c, code, msg, err)
}

var userErrorRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
}
