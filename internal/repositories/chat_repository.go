package repositories

import (
	"errors"
	"time"

	"estatelink_backend/internal/models/chat"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrThreadNotFound = errors.New("thread not found")

type ChatRepository interface {
	// Threads
	CreateThread(db *gorm.DB, thread *chat.Thread) error
	FindThreadByID(db *gorm.DB, id string) (*chat.Thread, error)
	FindDirectThread(db *gorm.DB, propertyID, userA, userB string) (*chat.Thread, error)
	FindBroadcastThread(db *gorm.DB, developerOrgID, brokerageOrgID string) (*chat.Thread, error)
	FindUserDirectThreadsByProperty(db *gorm.DB, propertyID, userID string) ([]chat.Thread, error)
	FindUserThreads(db *gorm.DB, userID string, limit, offset int) ([]chat.Thread, int64, error)
	TouchLastMessageAt(db *gorm.DB, threadID string, at time.Time) error

	// Participants
	EnsureParticipants(db *gorm.DB, threadID string, userIDs []string) error
	IsUserInThread(db *gorm.DB, threadID, userID string) (bool, error)

	// Messages
	CreateMessage(db *gorm.DB, message *chat.Message) error
	FindMessagesByThread(db *gorm.DB, threadID string, limit, offset int) ([]chat.Message, int64, error)
	FindLastMessage(db *gorm.DB, threadID string) (*chat.Message, error)
}

type ChatRepositoryImpl struct{}

func NewChatRepository() ChatRepository {
	return &ChatRepositoryImpl{}
}

// Threads

func (r *ChatRepositoryImpl) CreateThread(db *gorm.DB, thread *chat.Thread) error {
	return db.Create(thread).Error
}

func (r *ChatRepositoryImpl) FindThreadByID(db *gorm.DB, id string) (*chat.Thread, error) {
	var thread chat.Thread
	err := db.Preload("Participants").First(&thread, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	return &thread, nil
}

// FindDirectThread ищет direct-тред объявления для пары пользователей
// по каноническому ключу. Порядок (userA, userB) не важен: ключ
// упорядочивает пару сам.
func (r *ChatRepositoryImpl) FindDirectThread(db *gorm.DB, propertyID, userA, userB string) (*chat.Thread, error) {
	var thread chat.Thread
	err := db.
		Where("direct_key = ?", chat.DirectKey(propertyID, userA, userB)).
		Preload("Participants").
		First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	return &thread, nil
}

func (r *ChatRepositoryImpl) FindBroadcastThread(db *gorm.DB, developerOrgID, brokerageOrgID string) (*chat.Thread, error) {
	var thread chat.Thread
	err := db.
		Where("type = ? AND developer_org_id = ? AND brokerage_org_id = ?",
			chat.ThreadTypeBroadcast, developerOrgID, brokerageOrgID).
		Preload("Participants").
		First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	return &thread, nil
}

// FindUserDirectThreadsByProperty возвращает direct-треды пользователя
// по объявлению, свежие первыми. У покупателя тред один, у владельца
// их может быть несколько (по одному на собеседника).
func (r *ChatRepositoryImpl) FindUserDirectThreadsByProperty(db *gorm.DB, propertyID, userID string) ([]chat.Thread, error) {
	var threads []chat.Thread
	err := db.Model(&chat.Thread{}).
		Joins("JOIN chat_thread_participants p ON p.thread_id = chat_threads.id AND p.user_id = ?", userID).
		Where("chat_threads.type = ? AND chat_threads.property_id = ?", chat.ThreadTypeDirect, propertyID).
		Order("chat_threads.last_message_at DESC").
		Preload("Participants").
		Find(&threads).Error
	return threads, err
}

func (r *ChatRepositoryImpl) FindUserThreads(db *gorm.DB, userID string, limit, offset int) ([]chat.Thread, int64, error) {
	var total int64
	err := db.Model(&chat.Thread{}).
		Joins("JOIN chat_thread_participants p ON p.thread_id = chat_threads.id AND p.user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var threads []chat.Thread
	err = db.Model(&chat.Thread{}).
		Joins("JOIN chat_thread_participants p ON p.thread_id = chat_threads.id AND p.user_id = ?", userID).
		Order("chat_threads.last_message_at DESC").
		Limit(limit).Offset(offset).
		Preload("Participants").
		Find(&threads).Error
	return threads, total, err
}

// TouchLastMessageAt продвигает last_message_at только вперед, чтобы
// конкурирующие отправители не откатили отметку назад.
func (r *ChatRepositoryImpl) TouchLastMessageAt(db *gorm.DB, threadID string, at time.Time) error {
	return db.Model(&chat.Thread{}).
		Where("id = ? AND last_message_at < ?", threadID, at).
		UpdateColumn("last_message_at", at).Error
}

// Participants

// EnsureParticipants добавляет пользователей в тред как множество:
// уже существующие строки молча пропускаются по composite unique.
func (r *ChatRepositoryImpl) EnsureParticipants(db *gorm.DB, threadID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]chat.ThreadParticipant, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, chat.ThreadParticipant{ThreadID: threadID, UserID: id})
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "thread_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&rows).Error
}

func (r *ChatRepositoryImpl) IsUserInThread(db *gorm.DB, threadID, userID string) (bool, error) {
	var count int64
	err := db.Model(&chat.ThreadParticipant{}).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Count(&count).Error
	return count > 0, err
}

// Messages

func (r *ChatRepositoryImpl) CreateMessage(db *gorm.DB, message *chat.Message) error {
	return db.Create(message).Error
}

func (r *ChatRepositoryImpl) FindMessagesByThread(db *gorm.DB, threadID string, limit, offset int) ([]chat.Message, int64, error) {
	var total int64
	if err := db.Model(&chat.Message{}).Where("thread_id = ?", threadID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []chat.Message
	err := db.Where("thread_id = ?", threadID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, total, err
}

func (r *ChatRepositoryImpl) FindLastMessage(db *gorm.DB, threadID string) (*chat.Message, error) {
	var message chat.Message
	err := db.Where("thread_id = ?", threadID).
		Order("created_at DESC").
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}
