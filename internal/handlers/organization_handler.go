package handlers

import (
	"net/http"

	"estatelink_backend/internal/middleware"
	"estatelink_backend/internal/services"
	"estatelink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type OrganizationHandler struct {
	*BaseHandler
	orgService services.OrgService
}

func NewOrganizationHandler(base *BaseHandler, orgService services.OrgService) *OrganizationHandler {
	return &OrganizationHandler{
		BaseHandler: base,
		orgService:  orgService,
	}
}

func (h *OrganizationHandler) RegisterRoutes(r *gin.RouterGroup) {
	partnerships := r.Group("/partnerships")
	partnerships.Use(middleware.AuthMiddleware())
	{
		partnerships.POST("", h.RequestPartnership)
		partnerships.GET("", h.ListPartnerships)
		partnerships.PUT("/:partnershipId/review", h.ReviewPartnership)
	}
}

func (h *OrganizationHandler) RequestPartnership(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RequestPartnershipRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	partnership, err := h.orgService.RequestPartnership(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, partnership)
}

func (h *OrganizationHandler) ReviewPartnership(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	partnershipID, ok := h.GetParamID(c, "partnershipId")
	if !ok {
		return
	}

	var req dto.ReviewPartnershipRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	partnership, err := h.orgService.ReviewPartnership(h.GetDB(c), userID, partnershipID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, partnership)
}

func (h *OrganizationHandler) ListPartnerships(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var criteria dto.PartnershipCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	response, err := h.orgService.ListPartnerships(h.GetDB(c), userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
