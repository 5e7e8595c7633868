// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/otakughor/backend/internal/i18n"
	"github.com/otakughor/backend/internal/middleware"
	"github.com/otakughor/backend/internal/services"
	"github.com/otakughor/backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// POST /api/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	// Guest checkout leaves the principal nil
	principal, _ := middleware.GetPrincipal(c)

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req, principal)
	if err != nil {
		respondError(c, err, "order")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":        i18n.T(lang, i18n.KeyOrderCreated),
		"trackingNumber": order.TrackingNumber,
		"order":          order,
	})
}

// GET /api/orders/track/:trackingNumber
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	order, err := h.orderService.TrackOrder(c.Request.Context(), c.Param("trackingNumber"))
	if err != nil {
		respondError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// GET /api/orders/my
func (h *OrderHandler) MyOrders(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	orders, err := h.orderService.UserOrders(c.Request.Context(), principal.ID())
	if err != nil {
		respondError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GET /api/orders/admin
func (h *OrderHandler) GetOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), services.OrderQuery{
		Params:        params,
		OrderStatus:   c.Query("orderStatus"),
		PaymentStatus: c.Query("paymentStatus"),
		PaymentMethod: c.Query("paymentMethod"),
	})
	if err != nil {
		respondError(c, err, "order")
		return
	}

	result := utils.CreatePaginationResult(orders, int64(total), params)
	utils.PaginatedResponse(c, result)
}

// GET /api/orders/admin/stats
func (h *OrderHandler) GetStats(c *gin.Context) {
	stats, err := h.orderService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}

// GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// PUT /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderStatusUpdated),
		"order":   order,
	})
}

// DELETE /api/orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	order, err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderDeleted),
		"order":   order,
	})
}
