package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/basetishop/shop_api/internal/middleware"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/service"
	"github.com/basetishop/shop_api/internal/utils"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// GetOrders lists orders, optionally by ?status=.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filter models.OrderFilter
	if v := c.Query("status"); v != "" {
		status := models.OrderStatus(v)
		filter.Status = &status
	}

	orders, err := h.orderService.List(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		respondError(c, err, "Failed to get orders")
		return
	}
	utils.Success(c, 200, "Orders retrieved successfully", gin.H{"orders": orders})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err, "Failed to get order")
		return
	}
	utils.Success(c, 200, "Order retrieved successfully", order)
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}
	order, err := h.orderService.Create(c.Request.Context(), middleware.GetTenantID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to create order")
		return
	}
	utils.Success(c, 201, "Order created successfully", order)
}

// UpdateOrderStatus handles PATCH /v1/orders/:id/status.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), middleware.GetTenantID(c), id, req.Status)
	if err != nil {
		respondError(c, err, "Failed to update order")
		return
	}
	utils.Success(c, 200, "Order updated successfully", order)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), middleware.GetTenantID(c), id); err != nil {
		respondError(c, err, "Failed to delete order")
		return
	}
	utils.Success(c, 200, "Order deleted successfully", nil)
}
