package services

import (
	"encoding/json"

	"estatelink_backend/internal/email"
	"estatelink_backend/internal/logger"
	"estatelink_backend/internal/models"
	"estatelink_backend/internal/repositories"
	"estatelink_backend/internal/services/dto"
	"estatelink_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService ведет журнал уведомлений и счетчики непрочитанного.
// Счетчики двигаются атомарными выражениями в той же транзакции, что и
// строки журнала, поэтому инвариант "счетчик == числу непрочитанных"
// держится и под конкурентной нагрузкой.
type NotificationService interface {
	NotifyUser(db *gorm.DB, userID string, notifType models.NotificationType, message, link string, data map[string]interface{}) (*dto.NotificationResponse, error)
	GetUserNotifications(db *gorm.DB, userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetCounter(db *gorm.DB, userID string) (*dto.CounterResponse, error)
	MarkRead(db *gorm.DB, userID string, ids []string) error
	MarkUnread(db *gorm.DB, userID string, ids []string) error
	MarkReadByType(db *gorm.DB, userID string, types []models.NotificationType) error
	DeleteNotifications(db *gorm.DB, userID string, ids []string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	emailProvider    email.Provider
	baseURL          string
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	emailProvider email.Provider,
	baseURL string,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailProvider:    emailProvider,
		baseURL:          baseURL,
	}
}

// NotifyUser пишет уведомление, двигает счетчик и (вне транзакции,
// best-effort) шлет письмо. Падение SMTP не откатывает уведомление.
func (s *notificationService) NotifyUser(db *gorm.DB, userID string, notifType models.NotificationType, message, link string, data map[string]interface{}) (*dto.NotificationResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	notification := &models.Notification{
		UserID:  userID,
		Message: message,
		Link:    link,
		Type:    notifType,
	}
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		notification.Data = datatypes.JSON(raw)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.notificationRepo.Create(tx, notification); err != nil {
		return nil, apperrors.InternalError(err)
	}

	generalDelta, messageDelta := counterDeltas(notifType, 1)
	if err := s.notificationRepo.AdjustCounter(tx, userID, generalDelta, messageDelta); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	if user.EnableEmailNotifications && s.emailProvider != nil {
		if err := s.sendNotificationEmail(user, notification); err != nil {
			logger.Warn("notification email failed", "user_id", userID, "error", err)
		}
	}

	return notificationToResponse(notification), nil
}

func (s *notificationService) sendNotificationEmail(user *models.User, n *models.Notification) error {
	link := n.Link
	if link != "" && s.baseURL != "" {
		link = s.baseURL + link
	}
	return s.emailProvider.SendTemplate(
		[]string{user.Email},
		"Новое уведомление",
		"notification",
		email.TemplateData{
			"Subject": "Новое уведомление",
			"Message": n.Message,
			"Link":    link,
		},
	)
}

func (s *notificationService) GetUserNotifications(db *gorm.DB, userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error) {
	page, pageSize, offset := normalizePage(criteria.Page, criteria.PageSize)

	notifications, total, err := s.notificationRepo.FindByUser(db, userID, criteria.UnreadOnly, pageSize, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, notificationToResponse(&notifications[i]))
	}
	return &dto.NotificationListResponse{
		Notifications: items,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    totalPages(total, pageSize),
	}, nil
}

// GetCounter заводит нулевую строку для пользователя без счетчика
// и отдает текущие значения.
func (s *notificationService) GetCounter(db *gorm.DB, userID string) (*dto.CounterResponse, error) {
	if err := s.notificationRepo.EnsureCounter(db, userID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	counter, err := s.notificationRepo.GetCounter(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.CounterResponse{
		Count:        counter.Count,
		MessageCount: counter.MessageCount,
	}, nil
}

// requireCounter: мутации читаемости работают только для пользователей,
// у которых счетчик уже заведен; иначе вызывающий получает "нет контента".
func (s *notificationService) requireCounter(db *gorm.DB, userID string) error {
	exists, err := s.notificationRepo.CounterExists(db, userID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !exists {
		return apperrors.ErrCounterNotFound
	}
	return nil
}

// MarkRead помечает прочитанными непрочитанные уведомления пользователя
// из переданного списка. Чужие и уже прочитанные id игнорируются, поэтому
// повторный вызов с теми же id не двигает счетчики второй раз.
func (s *notificationService) MarkRead(db *gorm.DB, userID string, ids []string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.requireCounter(tx, userID); err != nil {
		return err
	}

	affected, err := s.notificationRepo.FindUnreadOwned(tx, userID, ids)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if len(affected) == 0 {
		return tx.Commit().Error
	}

	affectedIDs := make([]string, 0, len(affected))
	var generalCount, messageCount int64
	for i := range affected {
		affectedIDs = append(affectedIDs, affected[i].ID)
		if affected[i].EffectiveType() == models.NotificationTypeMessage {
			messageCount++
		} else {
			generalCount++
		}
	}

	if err := s.notificationRepo.MarkRead(tx, affectedIDs); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.notificationRepo.AdjustCounter(tx, userID, -generalCount, -messageCount); err != nil {
		return apperrors.InternalError(err)
	}
	return tx.Commit().Error
}

// MarkUnread - обратная операция; учитываются только прочитанные
// уведомления пользователя.
func (s *notificationService) MarkUnread(db *gorm.DB, userID string, ids []string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.requireCounter(tx, userID); err != nil {
		return err
	}

	affected, err := s.notificationRepo.FindReadOwned(tx, userID, ids)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if len(affected) == 0 {
		return tx.Commit().Error
	}

	affectedIDs := make([]string, 0, len(affected))
	var generalCount, messageCount int64
	for i := range affected {
		affectedIDs = append(affectedIDs, affected[i].ID)
		if affected[i].EffectiveType() == models.NotificationTypeMessage {
			messageCount++
		} else {
			generalCount++
		}
	}

	if err := s.notificationRepo.MarkUnread(tx, affectedIDs); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.notificationRepo.AdjustCounter(tx, userID, generalCount, messageCount); err != nil {
		return apperrors.InternalError(err)
	}
	return tx.Commit().Error
}

// MarkReadByType гасит все непрочитанные уведомления перечисленных
// категорий разом.
func (s *notificationService) MarkReadByType(db *gorm.DB, userID string, types []models.NotificationType) error {
	if len(types) == 0 {
		return apperrors.ErrInvalidNotificationType
	}
	seen := make(map[models.NotificationType]struct{}, len(types))
	for _, notifType := range types {
		if notifType != models.NotificationTypeGeneral && notifType != models.NotificationTypeMessage {
			return apperrors.ErrInvalidNotificationType
		}
		seen[notifType] = struct{}{}
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.requireCounter(tx, userID); err != nil {
		return err
	}

	var generalDelta, messageDelta int64
	for notifType := range seen {
		affected, err := s.notificationRepo.MarkReadByType(tx, userID, notifType)
		if err != nil {
			return apperrors.InternalError(err)
		}
		general, message := counterDeltas(notifType, -int64(len(affected)))
		generalDelta += general
		messageDelta += message
	}
	if generalDelta != 0 || messageDelta != 0 {
		if err := s.notificationRepo.AdjustCounter(tx, userID, generalDelta, messageDelta); err != nil {
			return apperrors.InternalError(err)
		}
	}
	return tx.Commit().Error
}

// DeleteNotifications удаляет уведомления пользователя; непрочитанные
// среди удаляемых списываются со счетчиков.
func (s *notificationService) DeleteNotifications(db *gorm.DB, userID string, ids []string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.requireCounter(tx, userID); err != nil {
		return err
	}

	owned, err := s.notificationRepo.FindOwned(tx, userID, ids)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if len(owned) == 0 {
		return tx.Commit().Error
	}

	ownedIDs := make([]string, 0, len(owned))
	var generalCount, messageCount int64
	for i := range owned {
		ownedIDs = append(ownedIDs, owned[i].ID)
		if owned[i].IsRead {
			continue
		}
		if owned[i].EffectiveType() == models.NotificationTypeMessage {
			messageCount++
		} else {
			generalCount++
		}
	}

	if err := s.notificationRepo.DeleteByIDs(tx, ownedIDs); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.notificationRepo.AdjustCounter(tx, userID, -generalCount, -messageCount); err != nil {
		return apperrors.InternalError(err)
	}
	return tx.Commit().Error
}

// counterDeltas раскладывает сдвиг по типу на пару (general, message).
func counterDeltas(notifType models.NotificationType, delta int64) (int64, int64) {
	if notifType == models.NotificationTypeMessage {
		return 0, delta
	}
	return delta, 0
}

func notificationToResponse(n *models.Notification) *dto.NotificationResponse {
	resp := &dto.NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.EffectiveType()),
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(n.Data, &data); err == nil {
			resp.Data = data
		}
	}
	return resp
}

// normalizePage приводит пагинацию к безопасным значениям.
func normalizePage(page, pageSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize, (page - 1) * pageSize
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}
