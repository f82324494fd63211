package models

// Property - объявление. CRUD объявлений живет в другом сервисе,
// мессенджеру нужны только статус и назначенные контакты.
type Property struct {
	BaseModel
	Title  string         `gorm:"not null" json:"title"`
	Status PropertyStatus `gorm:"type:varchar(20);default:'draft';index" json:"status"`

	// Назначенные контакты объявления
	OwnerID     *string `gorm:"index" json:"owner_id,omitempty"`
	BrokerID    *string `gorm:"index" json:"broker_id,omitempty"`
	DeveloperID *string `gorm:"index" json:"developer_id,omitempty"`
	AgencyID    *string `gorm:"index" json:"agency_id,omitempty"`
}

// ContactIDs возвращает id назначенных контактов объявления
// (владелец, брокер, застройщик, агентство) без nil-значений.
func (p *Property) ContactIDs() []string {
	var ids []string
	for _, ref := range []*string{p.OwnerID, p.BrokerID, p.DeveloperID, p.AgencyID} {
		if ref != nil && *ref != "" {
			ids = append(ids, *ref)
		}
	}
	return ids
}

// IsContact сообщает, входит ли пользователь в назначенные контакты.
func (p *Property) IsContact(userID string) bool {
	for _, id := range p.ContactIDs() {
		if id == userID {
			return true
		}
	}
	return false
}
