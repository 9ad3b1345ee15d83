package handlers

import (
	"net/http"

	"github.com/zhenglaizhang/batter-store-api/internal/auth"
	"github.com/zhenglaizhang/batter-store-api/internal/services"
	"github.com/zhenglaizhang/batter-store-api/internal/services/dto"
	"github.com/zhenglaizhang/batter-store-api/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	*BaseHandler
	orderService services.OrderService
	regService   services.RegistrationService
}

func NewOrderHandler(base *BaseHandler, orderService services.OrderService, regService services.RegistrationService) *OrderHandler {
	return &OrderHandler{
		BaseHandler:  base,
		orderService: orderService,
		regService:   regService,
	}
}

// CreateWeightOrder places a weight-based pickup order.
func (h *OrderHandler) CreateWeightOrder(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if _, err := h.regService.RequireApproved(h.GetDB(c), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.CreateWeightOrderRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	view, err := h.orderService.CreateWeightOrder(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// ListOrders pages through orders. Merchants see their own; admins see
// everything and may filter by user_id.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.OrderListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	if !isAdmin(c) {
		query.UserID = userID
	}

	page, pageSize := ParsePagination(c)

	resp, err := h.orderService.ListOrders(h.GetDB(c), &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetOrder returns one order with resolved photo URLs.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	orderID := c.Param("orderId")

	view, err := h.orderService.GetOrder(h.GetDB(c), orderID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if !isAdmin(c) && view.UserID != userID {
		apperrors.HandleError(c, apperrors.NewForbiddenError("access denied"))
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateOrder edits an order, optionally appending evidence references.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	orderID := c.Param("orderId")

	existing, err := h.orderService.GetOrder(h.GetDB(c), orderID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if !isAdmin(c) && existing.UserID != userID {
		apperrors.HandleError(c, apperrors.NewForbiddenError("access denied"))
		return
	}

	var req dto.UpdateOrderRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	view, err := h.orderService.UpdateOrder(c.Request.Context(), h.GetDB(c), orderID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// DeleteOrder removes an order and its evidence records (admin).
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	orderID := c.Param("orderId")

	if err := h.orderService.DeleteOrder(c.Request.Context(), h.GetDB(c), orderID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}

func isAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	roleStr, ok := role.(string)
	return ok && roleStr == auth.RoleAdmin
}
