package handlers

import (
	"net/http"

	"github.com/zhenglaizhang/batter-store-api/internal/services"
	"github.com/zhenglaizhang/batter-store-api/internal/services/dto"
	"github.com/zhenglaizhang/batter-store-api/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	*BaseHandler
	regService services.RegistrationService
}

func NewRegistrationHandler(base *BaseHandler, regService services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		BaseHandler: base,
		regService:  regService,
	}
}

// Register submits a merchant onboarding application.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.regService.Register(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetProfile returns the caller's registration.
func (h *RegistrationHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	reg, err := h.regService.GetProfile(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reg)
}

// ListRegistrations pages through applications (admin).
func (h *RegistrationHandler) ListRegistrations(c *gin.Context) {
	var query dto.RegistrationListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	page, pageSize := ParsePagination(c)

	regs, total, err := h.regService.ListRegistrations(h.GetDB(c), query.Status, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"registrations": regs,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}

// ReviewRegistration approves or rejects an application (admin).
func (h *RegistrationHandler) ReviewRegistration(c *gin.Context) {
	registrationID := c.Param("registrationId")
	if registrationID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing registrationId"))
		return
	}

	var req dto.ReviewRegistrationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	reg, err := h.regService.Review(c.Request.Context(), h.GetDB(c), registrationID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reg)
}

// ListBusinessTypes returns the active business type lookup.
func (h *RegistrationHandler) ListBusinessTypes(c *gin.Context) {
	types, err := h.regService.ListBusinessTypes(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"business_types": types})
}

// ListRoles returns the active merchant role lookup.
func (h *RegistrationHandler) ListRoles(c *gin.Context) {
	roles, err := h.regService.ListRoles(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": roles})
}
