package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ThreadParticipant - строка множества участников треда.
// Composite unique (thread_id, user_id) дает set-семантику на уровне стора:
// повторная вставка того же участника невозможна.
type ThreadParticipant struct {
	ID       string    `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID string    `gorm:"not null;uniqueIndex:idx_thread_user" json:"thread_id"`
	UserID   string    `gorm:"not null;uniqueIndex:idx_thread_user;index" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

func (ThreadParticipant) TableName() string {
	return "chat_thread_participants"
}

func (p *ThreadParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now()
	}
	return nil
}
