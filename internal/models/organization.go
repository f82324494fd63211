package models

type Organization struct {
	BaseModel
	Name string  `gorm:"not null" json:"name"`
	Type OrgType `gorm:"type:varchar(20);not null;index" json:"type"`
	City string  `json:"city"`

	// Relations
	Memberships []OrgMembership `gorm:"foreignKey:OrgID" json:"-"`
}

// OrgMembership связывает пользователя с организацией.
// Не более одной строки на пару (org, user).
type OrgMembership struct {
	BaseModel
	OrgID  string           `gorm:"not null;uniqueIndex:idx_org_user" json:"org_id"`
	UserID string           `gorm:"not null;uniqueIndex:idx_org_user;index" json:"user_id"`
	Role   MembershipRole   `gorm:"type:varchar(20);default:'member'" json:"role"`
	Status MembershipStatus `gorm:"type:varchar(20);default:'invited'" json:"status"`
}

// OrgPartnership - направленная связь "брокеридж - застройщик".
// Не более одной строки на пару организаций; рассылки идут только по approved.
type OrgPartnership struct {
	BaseModel
	BrokerOrgID    string            `gorm:"not null;uniqueIndex:idx_broker_developer" json:"broker_org_id"`
	DeveloperOrgID string            `gorm:"not null;uniqueIndex:idx_broker_developer;index" json:"developer_org_id"`
	Status         PartnershipStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	RequestedBy    string            `json:"requested_by"`
}
