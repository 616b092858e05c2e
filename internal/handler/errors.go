package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/basetishop/shop_api/internal/utils"
)

type apiError struct {
	status  int
	code    string
	message string
}

var serviceErrors = []struct {
	err error
	api apiError
}{
	{utils.ErrInvalidInput, apiError{400, "INVALID_INPUT", "Invalid input"}},
	{utils.ErrInvalidStatus, apiError{400, "INVALID_STATUS", "Invalid status"}},
	{utils.ErrUnknownPlan, apiError{400, "UNKNOWN_PLAN", "Unknown subscription plan"}},
	{utils.ErrUnsupportedMedia, apiError{415, "UNSUPPORTED_MEDIA", "Only JPEG, PNG, WebP and GIF images are supported"}},
	{utils.ErrForbidden, apiError{403, "FORBIDDEN", "You don't have permission to access this area"}},
	{utils.ErrProductLimit, apiError{403, "PRODUCT_LIMIT_REACHED", "Product limit reached for your subscription plan"}},
	{utils.ErrTenantNotFound, apiError{404, "TENANT_NOT_FOUND", "Business not found"}},
	{utils.ErrStoreNotFound, apiError{404, "STORE_NOT_FOUND", "Store not found"}},
	{utils.ErrProductNotFound, apiError{404, "PRODUCT_NOT_FOUND", "Product not found"}},
	{utils.ErrCustomerNotFound, apiError{404, "CUSTOMER_NOT_FOUND", "Customer not found"}},
	{utils.ErrOrderNotFound, apiError{404, "ORDER_NOT_FOUND", "Order not found"}},
	{utils.ErrContentNotFound, apiError{404, "CONTENT_PLAN_NOT_FOUND", "Content plan not found"}},
	{utils.ErrConnectionNotFound, apiError{404, "CONNECTION_NOT_FOUND", "Social connection not found"}},
	{utils.ErrDuplicateCustomer, apiError{409, "DUPLICATE_CUSTOMER", "A customer with this email already exists"}},
	{utils.ErrStorageDisabled, apiError{503, "STORAGE_DISABLED", "Image storage is not configured"}},
	{utils.ErrSealKeyMissing, apiError{503, "SEAL_KEY_MISSING", "Token storage is not configured"}},
}

// respondError maps a service error to its API response. Unknown errors are
// logged and reported as 500 with fallback as the message.
func respondError(c *gin.Context, err error, fallback string) {
	for _, e := range serviceErrors {
		if errors.Is(err, e.err) {
			utils.Error(c, e.api.status, e.api.code, e.api.message)
			return
		}
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
	utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
}

// int64Param parses a numeric path parameter, writing a 400 when it is not one.
func int64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}
