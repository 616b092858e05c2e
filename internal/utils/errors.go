package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrSessionRevoked     = errors.New("SESSION_REVOKED")
	ErrForbidden          = errors.New("FORBIDDEN")
	ErrInvalidInput       = errors.New("INVALID_INPUT")
	ErrTenantNotFound     = errors.New("TENANT_NOT_FOUND")
	ErrStoreNotFound      = errors.New("STORE_NOT_FOUND")
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrProductLimit       = errors.New("PRODUCT_LIMIT_REACHED")
	ErrCustomerNotFound   = errors.New("CUSTOMER_NOT_FOUND")
	ErrDuplicateCustomer  = errors.New("DUPLICATE_CUSTOMER")
	ErrOrderNotFound      = errors.New("ORDER_NOT_FOUND")
	ErrInvalidStatus      = errors.New("INVALID_STATUS")
	ErrContentNotFound    = errors.New("CONTENT_PLAN_NOT_FOUND")
	ErrConnectionNotFound = errors.New("CONNECTION_NOT_FOUND")
	ErrUnknownPlan        = errors.New("UNKNOWN_PLAN")
	ErrInvalidSignature   = errors.New("INVALID_SIGNATURE")
	ErrPaymentMismatch    = errors.New("PAYMENT_MISMATCH")
	ErrUnknownFlow        = errors.New("UNKNOWN_FLOW")
	ErrMissingParams      = errors.New("MISSING_PARAMS")
	ErrInvalidContentType = errors.New("INVALID_CONTENT_TYPE")
	ErrAIKeyMissing       = errors.New("AI_KEY_MISSING")
	ErrStorageDisabled    = errors.New("STORAGE_DISABLED")
	ErrSealKeyMissing     = errors.New("SEAL_KEY_MISSING")
	ErrUnsupportedMedia   = errors.New("UNSUPPORTED_MEDIA")
)
