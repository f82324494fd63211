package repositories

import (
	"errors"

	"estatelink_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	// Notifications
	Create(db *gorm.DB, notification *models.Notification) error
	FindByID(db *gorm.DB, id string) (*models.Notification, error)
	FindByUser(db *gorm.DB, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error)
	FindUnreadOwned(db *gorm.DB, userID string, ids []string) ([]models.Notification, error)
	FindReadOwned(db *gorm.DB, userID string, ids []string) ([]models.Notification, error)
	FindOwned(db *gorm.DB, userID string, ids []string) ([]models.Notification, error)
	MarkRead(db *gorm.DB, ids []string) error
	MarkUnread(db *gorm.DB, ids []string) error
	MarkReadByType(db *gorm.DB, userID string, notifType models.NotificationType) ([]models.Notification, error)
	DeleteByIDs(db *gorm.DB, ids []string) error

	// Counters
	GetCounter(db *gorm.DB, userID string) (*models.NotificationCounter, error)
	CounterExists(db *gorm.DB, userID string) (bool, error)
	EnsureCounter(db *gorm.DB, userID string) error
	AdjustCounter(db *gorm.DB, userID string, generalDelta, messageDelta int64) error
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

// Notifications

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, notification *models.Notification) error {
	return db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Notification, error) {
	var notification models.Notification
	err := db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindByUser(db *gorm.DB, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		q = q.Where("user_id = ?", userID)
		if unreadOnly {
			q = q.Where("is_read = ?", false)
		}
		return q
	}

	var total int64
	if err := filter(db.Model(&models.Notification{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := filter(db.Model(&models.Notification{})).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error
	return notifications, total, err
}

// FindUnreadOwned возвращает подмножество ids: непрочитанные уведомления,
// принадлежащие пользователю. Чужие и уже прочитанные молча отбрасываются.
func (r *NotificationRepositoryImpl) FindUnreadOwned(db *gorm.DB, userID string, ids []string) ([]models.Notification, error) {
	var notifications []models.Notification
	if len(ids) == 0 {
		return notifications, nil
	}
	err := db.Where("user_id = ? AND is_read = ? AND id IN ?", userID, false, ids).
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepositoryImpl) FindReadOwned(db *gorm.DB, userID string, ids []string) ([]models.Notification, error) {
	var notifications []models.Notification
	if len(ids) == 0 {
		return notifications, nil
	}
	err := db.Where("user_id = ? AND is_read = ? AND id IN ?", userID, true, ids).
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepositoryImpl) FindOwned(db *gorm.DB, userID string, ids []string) ([]models.Notification, error) {
	var notifications []models.Notification
	if len(ids) == 0 {
		return notifications, nil
	}
	err := db.Where("user_id = ? AND id IN ?", userID, ids).
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepositoryImpl) MarkRead(db *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Model(&models.Notification{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *NotificationRepositoryImpl) MarkUnread(db *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Model(&models.Notification{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"is_read": false,
			"read_at": nil,
		}).Error
}

// MarkReadByType помечает прочитанными все непрочитанные уведомления
// пользователя заданного типа и возвращает затронутые строки.
// Пустой тип в строке трактуется как general.
func (r *NotificationRepositoryImpl) MarkReadByType(db *gorm.DB, userID string, notifType models.NotificationType) ([]models.Notification, error) {
	query := db.Where("user_id = ? AND is_read = ?", userID, false)
	if notifType == models.NotificationTypeGeneral {
		query = query.Where("(type = ? OR type = '')", models.NotificationTypeGeneral)
	} else {
		query = query.Where("type = ?", notifType)
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	if len(notifications) == 0 {
		return notifications, nil
	}

	ids := make([]string, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ID)
	}
	if err := r.MarkRead(db, ids); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepositoryImpl) DeleteByIDs(db *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Where("id IN ?", ids).Delete(&models.Notification{}).Error
}

// Counters

func (r *NotificationRepositoryImpl) GetCounter(db *gorm.DB, userID string) (*models.NotificationCounter, error) {
	var counter models.NotificationCounter
	err := db.First(&counter, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.NotificationCounter{UserID: userID}, nil
		}
		return nil, err
	}
	return &counter, nil
}

func (r *NotificationRepositoryImpl) CounterExists(db *gorm.DB, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.NotificationCounter{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

// EnsureCounter создает нулевую строку счетчика, если ее еще нет.
func (r *NotificationRepositoryImpl) EnsureCounter(db *gorm.DB, userID string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&models.NotificationCounter{UserID: userID}).Error
}

// AdjustCounter атомарно сдвигает счетчики и затем прижимает
// отрицательные значения к нулю. Инкременты и декременты идут через
// выражение, а не read-modify-write, поэтому конкурентные вызовы
// не теряют друг друга.
func (r *NotificationRepositoryImpl) AdjustCounter(db *gorm.DB, userID string, generalDelta, messageDelta int64) error {
	if generalDelta == 0 && messageDelta == 0 {
		return nil
	}
	if err := r.EnsureCounter(db, userID); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if generalDelta != 0 {
		updates["count"] = gorm.Expr("count + ?", generalDelta)
	}
	if messageDelta != 0 {
		updates["message_count"] = gorm.Expr("message_count + ?", messageDelta)
	}
	err := db.Model(&models.NotificationCounter{}).
		Where("user_id = ?", userID).
		UpdateColumns(updates).Error
	if err != nil {
		return err
	}

	if generalDelta < 0 {
		if err := db.Model(&models.NotificationCounter{}).
			Where("user_id = ? AND count < 0", userID).
			UpdateColumn("count", 0).Error; err != nil {
			return err
		}
	}
	if messageDelta < 0 {
		if err := db.Model(&models.NotificationCounter{}).
			Where("user_id = ? AND message_count < 0", userID).
			UpdateColumn("message_count", 0).Error; err != nil {
			return err
		}
	}
	return nil
}
