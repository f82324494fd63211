package handlers

import (
	"net/http"

	"estatelink_backend/internal/middleware"
	"estatelink_backend/internal/models"
	"estatelink_backend/internal/services"
	"estatelink_backend/internal/services/dto"
	"estatelink_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Счетчик опрашивается шапкой фронтенда очень часто, поэтому живет
	// за мягкой аутентификацией: битый токен дает 401 из хэндлера,
	// а не стандартный отказ middleware.
	counter := r.Group("/notifications")
	counter.Use(middleware.OptionalAuthMiddleware())
	counter.GET("/counter", h.GetCounter)

	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", h.GetUserNotifications)
		notifications.PUT("/read", h.MarkRead)
		notifications.PUT("/unread", h.MarkUnread)
		notifications.PUT("/read-by-type", h.MarkReadByType)
		notifications.DELETE("", h.DeleteNotifications)
	}
}

func (h *NotificationHandler) GetUserNotifications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	criteria := dto.NotificationCriteria{
		Page:       page,
		PageSize:   pageSize,
		UnreadOnly: c.Query("unread_only") == "true",
	}

	response, err := h.notificationService.GetUserNotifications(h.GetDB(c), userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *NotificationHandler) GetCounter(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization credential missing"})
		return
	}

	counter, err := h.notificationService.GetCounter(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, counter)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.NotificationIDsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	h.finishCounterMutation(c, userID, h.notificationService.MarkRead(h.GetDB(c), userID, req.IDs))
}

func (h *NotificationHandler) MarkUnread(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.NotificationIDsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	h.finishCounterMutation(c, userID, h.notificationService.MarkUnread(h.GetDB(c), userID, req.IDs))
}

func (h *NotificationHandler) MarkReadByType(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.MarkReadByTypeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	types := make([]models.NotificationType, 0, len(req.Types))
	for _, t := range req.Types {
		types = append(types, models.NotificationType(t))
	}
	h.finishCounterMutation(c, userID, h.notificationService.MarkReadByType(h.GetDB(c), userID, types))
}

func (h *NotificationHandler) DeleteNotifications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.NotificationIDsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	h.finishCounterMutation(c, userID, h.notificationService.DeleteNotifications(h.GetDB(c), userID, req.IDs))
}

// finishCounterMutation - общий хвост мутаций прочитанности: при успехе
// отдаем обновленный счетчик, при отсутствии счетчика тело не нужно.
func (h *NotificationHandler) finishCounterMutation(c *gin.Context, userID string, err error) {
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCounterNotFound) {
			c.Status(http.StatusNoContent)
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	counter, err := h.notificationService.GetCounter(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, counter)
}
