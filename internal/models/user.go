package models

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `json:"name"`
	Type         UserType   `gorm:"type:varchar(20);not null" json:"type"`
	Status       UserStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PrimaryOrgID *string    `gorm:"index" json:"primary_org_id,omitempty"`

	// Включена ли дублирующая доставка уведомлений на почту
	EnableEmailNotifications bool `gorm:"default:false" json:"enable_email_notifications"`

	// Relations
	Memberships []OrgMembership `gorm:"foreignKey:UserID" json:"-"`
}
