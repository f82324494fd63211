package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string `gorm:"not null;index" json:"user_id"`
	Message string `gorm:"not null" json:"message"`
	Link    string `json:"link,omitempty"`
	// Тип может быть пустым у строк, созданных до разделения счетчиков;
	// такие строки считаются general.
	Type      NotificationType `gorm:"type:varchar(20);index" json:"type,omitempty"`
	BookingID *string          `gorm:"index" json:"booking_id,omitempty"`
	Data      datatypes.JSON   `json:"data,omitempty"` // {"thread_id": "..."}
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
}

// EffectiveType нормализует пустой (legacy) тип в general.
func (n *Notification) EffectiveType() NotificationType {
	if n.Type == NotificationTypeMessage {
		return NotificationTypeMessage
	}
	return NotificationTypeGeneral
}

// NotificationCounter - по одной строке на пользователя. Инвариант:
// count == числу непрочитанных general-уведомлений, message_count ==
// числу непрочитанных message-уведомлений; оба поля не уходят ниже нуля.
type NotificationCounter struct {
	UserID       string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	Count        int64     `gorm:"not null;default:0" json:"count"`
	MessageCount int64     `gorm:"not null;default:0" json:"message_count"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
