package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message принадлежит ровно одному треду и неизменяемо после создания.
type Message struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID string `gorm:"not null;index" json:"thread_id"`
	SenderID string `gorm:"not null;index" json:"sender_id"`
	// Прямой адресат; имеет смысл только в direct-тредах
	RecipientID *string   `gorm:"index" json:"recipient_id,omitempty"`
	Body        string    `gorm:"type:text;not null" json:"message"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (Message) TableName() string {
	return "chat_messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
