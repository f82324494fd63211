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

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

// RegisterRoutes регистрирует маршруты мессенджера
func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	messages := r.Group("/messages")
	messages.Use(middleware.AuthMiddleware())
	{
		messages.POST("", h.SendMessage)
		messages.GET("", h.FindMessages)
	}

	threads := r.Group("/threads")
	threads.Use(middleware.AuthMiddleware())
	{
		threads.GET("", h.GetUserThreads)
		threads.POST("/group", h.CreateGroupThread)
		threads.GET("/:threadId", h.GetThread)
		threads.GET("/:threadId/messages", h.GetMessages)
	}

	// Рассылки доступны только застройщикам; детальная проверка
	// членства в организации остается за сервисом.
	broadcasts := r.Group("/broadcasts")
	broadcasts.Use(middleware.AuthMiddleware())
	broadcasts.Use(middleware.RequireUserTypes(models.UserTypeDeveloper, models.UserTypeAdmin))
	{
		broadcasts.POST("", h.Broadcast)
	}
}

// SendMessage godoc
// @Summary Отправить сообщение
// @Description Отправляет сообщение в существующий тред (thread_id) или начинает переписку по объявлению (property_id + recipient_id)
// @Tags messages
// @Accept json
// @Produce json
// @Param message body dto.SendMessageRequest true "Сообщение"
// @Success 201 {object} dto.MessageResponse
// @Failure 204 "Адресат, тред или объявление не существуют"
// @Failure 400 {object} apperrors.ErrorResponse "Пустой текст или отправка самому себе"
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse "Переписка по объявлению недоступна"
// @Router /messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	message, err := h.chatService.CreateMessage(h.GetDB(c), userID, &req)
	if err != nil {
		// Отсутствующий адресат, тред или объявление не подтверждаются
		// и не опровергаются: отдаем пустой ответ вместо тела ошибки.
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.CodeNotFound {
			c.Status(http.StatusNoContent)
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// CreateGroupThread godoc
// @Summary Создать групповой тред
// @Description Создает новый групповой тред; повторный вызов с теми же участниками создает независимый тред
// @Tags threads
// @Accept json
// @Produce json
// @Param thread body dto.CreateGroupThreadRequest true "Групповой тред"
// @Success 201 {object} dto.ThreadResponse
// @Failure 400 {object} apperrors.ErrorResponse "Нет названия или участников"
// @Failure 403 {object} apperrors.ErrorResponse "Участник вне организации"
// @Router /threads/group [post]
func (h *ChatHandler) CreateGroupThread(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateGroupThreadRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	thread, err := h.chatService.CreateGroupThread(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, thread)
}

// Broadcast godoc
// @Summary Рассылка по партнерским брокериджам
// @Description Отправляет сообщение во все broadcast-каналы одобренных партнерств организации-застройщика
// @Tags broadcasts
// @Accept json
// @Produce json
// @Param broadcast body dto.BroadcastRequest true "Рассылка"
// @Success 200 {object} dto.BroadcastResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse "Нет членства в организации-застройщике"
// @Router /broadcasts [post]
func (h *ChatHandler) Broadcast(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.BroadcastRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.chatService.Broadcast(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// FindMessages отдает ленту по thread_id либо по property_id
// (опционально с recipient_id для выбора переписки).
func (h *ChatHandler) FindMessages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var q dto.MessagesQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	response, err := h.chatService.FindMessages(h.GetDB(c), userID, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChatHandler) GetUserThreads(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	criteria := dto.ThreadMessagesCriteria{Page: page, PageSize: pageSize}

	response, err := h.chatService.GetUserThreads(h.GetDB(c), userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChatHandler) GetThread(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	threadID, ok := h.GetParamID(c, "threadId")
	if !ok {
		return
	}

	thread, err := h.chatService.GetThread(h.GetDB(c), threadID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	threadID, ok := h.GetParamID(c, "threadId")
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	criteria := dto.ThreadMessagesCriteria{Page: page, PageSize: pageSize}

	response, err := h.chatService.GetMessages(h.GetDB(c), threadID, userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
