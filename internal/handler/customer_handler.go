package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/basetishop/shop_api/internal/middleware"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/service"
	"github.com/basetishop/shop_api/internal/utils"
)

// CustomerHandler handles customer endpoints.
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	customers, err := h.customerService.List(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err, "Failed to get customers")
		return
	}
	utils.Success(c, 200, "Customers retrieved successfully", gin.H{"customers": customers})
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.Get(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err, "Failed to get customer")
		return
	}
	utils.Success(c, 200, "Customer retrieved successfully", customer)
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req models.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}
	customer, err := h.customerService.Create(c.Request.Context(), middleware.GetTenantID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to create customer")
		return
	}
	utils.Success(c, 201, "Customer created successfully", customer)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req models.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}
	customer, err := h.customerService.Update(c.Request.Context(), middleware.GetTenantID(c), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update customer")
		return
	}
	utils.Success(c, 200, "Customer updated successfully", customer)
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.customerService.Delete(c.Request.Context(), middleware.GetTenantID(c), id); err != nil {
		respondError(c, err, "Failed to delete customer")
		return
	}
	utils.Success(c, 200, "Customer deleted successfully", nil)
}
