package chat

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ThreadType string

const (
	ThreadTypeDirect    ThreadType = "direct"
	ThreadTypeGroup     ThreadType = "group"
	ThreadTypeBroadcast ThreadType = "broadcast"
)

var ErrInvalidThreadShape = errors.New("thread fields do not match thread type")

// Thread - контейнер переписки. Три варианта с общим ядром:
//   - direct: привязан к объявлению (PropertyID), уникален для
//     (property, пара участников);
//   - group: произвольный набор участников, опционально в рамках организации;
//   - broadcast: канал застройщик-брокеридж, уникален для пары организаций.
//
// Участники хранятся строками ThreadParticipant и только добавляются.
type Thread struct {
	ID    string     `gorm:"type:uuid;primaryKey" json:"id"`
	Type  ThreadType `gorm:"type:varchar(20);not null;index" json:"type"`
	Title *string    `json:"title,omitempty"`

	// direct: канонический ключ тройки (объявление, пара участников);
	// unique индекс дает дедупликацию на уровне стора
	PropertyID *string `gorm:"index" json:"property_id,omitempty"`
	DirectKey  *string `gorm:"uniqueIndex" json:"-"`

	// group (опциональная привязка к организации)
	OrgID *string `gorm:"index" json:"org_id,omitempty"`

	// broadcast: пара организаций; composite unique дает дедупликацию
	// на уровне стора (NULL-значения direct/group тредов не конфликтуют)
	DeveloperOrgID *string `gorm:"uniqueIndex:idx_broadcast_pair" json:"developer_org_id,omitempty"`
	BrokerageOrgID *string `gorm:"uniqueIndex:idx_broadcast_pair" json:"brokerage_org_id,omitempty"`

	CreatedBy     string    `gorm:"not null" json:"created_by"`
	LastMessageAt time.Time `gorm:"not null;index" json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Participants []ThreadParticipant `gorm:"foreignKey:ThreadID" json:"participants,omitempty"`
}

func (Thread) TableName() string {
	return "chat_threads"
}

// DirectKey каноникализирует тройку (объявление, пара участников):
// пара упорядочивается лексикографически, порядок аргументов не важен.
func DirectKey(propertyID, userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return propertyID + "|" + userA + "|" + userB
}

// NewDirectThread - тред первого контакта по объявлению между двумя
// пользователями; создателем считается первый из них.
func NewDirectThread(propertyID, createdBy, otherID string) *Thread {
	key := DirectKey(propertyID, createdBy, otherID)
	return &Thread{
		Type:          ThreadTypeDirect,
		PropertyID:    &propertyID,
		DirectKey:     &key,
		CreatedBy:     createdBy,
		LastMessageAt: time.Now(),
	}
}

// NewGroupThread - групповой тред; orgID может быть nil.
func NewGroupThread(title string, orgID *string, createdBy string) *Thread {
	return &Thread{
		Type:          ThreadTypeGroup,
		Title:         &title,
		OrgID:         orgID,
		CreatedBy:     createdBy,
		LastMessageAt: time.Now(),
	}
}

// NewBroadcastThread - канал застройщик-брокеридж.
func NewBroadcastThread(developerOrgID, brokerageOrgID, title, createdBy string) *Thread {
	return &Thread{
		Type:           ThreadTypeBroadcast,
		Title:          &title,
		DeveloperOrgID: &developerOrgID,
		BrokerageOrgID: &brokerageOrgID,
		CreatedBy:      createdBy,
		LastMessageAt:  time.Now(),
	}
}

func (t *Thread) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return t.validateShape()
}

func (t *Thread) BeforeSave(tx *gorm.DB) error {
	return t.validateShape()
}

// validateShape не дает сохранить тред, у которого вариантные поля
// не согласованы с дискриминантом.
func (t *Thread) validateShape() error {
	switch t.Type {
	case ThreadTypeDirect:
		if t.PropertyID == nil || t.DirectKey == nil || t.DeveloperOrgID != nil || t.BrokerageOrgID != nil {
			return ErrInvalidThreadShape
		}
	case ThreadTypeGroup:
		if t.PropertyID != nil || t.DirectKey != nil || t.DeveloperOrgID != nil || t.BrokerageOrgID != nil {
			return ErrInvalidThreadShape
		}
	case ThreadTypeBroadcast:
		if t.DeveloperOrgID == nil || t.BrokerageOrgID == nil || t.PropertyID != nil || t.DirectKey != nil {
			return ErrInvalidThreadShape
		}
	default:
		return ErrInvalidThreadShape
	}
	return nil
}

// ParticipantIDs возвращает id участников (по загруженной связи).
func (t *Thread) ParticipantIDs() []string {
	ids := make([]string, 0, len(t.Participants))
	for _, p := range t.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

// HasParticipant проверяет участие по загруженной связи.
func (t *Thread) HasParticipant(userID string) bool {
	for _, p := range t.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
