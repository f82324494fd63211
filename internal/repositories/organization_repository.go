package repositories

import (
	"errors"

	"estatelink_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrPartnershipNotFound  = errors.New("partnership not found")
)

type OrganizationRepository interface {
	// Organizations
	CreateOrganization(db *gorm.DB, org *models.Organization) error
	FindOrganizationByID(db *gorm.DB, id string) (*models.Organization, error)

	// Memberships
	CreateMembership(db *gorm.DB, membership *models.OrgMembership) error
	FindActiveMembership(db *gorm.DB, orgID, userID string) (*models.OrgMembership, error)
	ListActiveMemberUserIDs(db *gorm.DB, orgID string) ([]string, error)
	ListActiveMembershipsByOrgType(db *gorm.DB, userID string, orgType models.OrgType) ([]models.OrgMembership, error)

	// Partnerships
	CreatePartnership(db *gorm.DB, partnership *models.OrgPartnership) error
	FindPartnershipByID(db *gorm.DB, id string) (*models.OrgPartnership, error)
	FindPartnership(db *gorm.DB, brokerOrgID, developerOrgID string) (*models.OrgPartnership, error)
	UpdatePartnershipStatus(db *gorm.DB, id string, status models.PartnershipStatus) error
	ListApprovedPartnershipsByDeveloper(db *gorm.DB, developerOrgID string) ([]models.OrgPartnership, error)
	ListPartnershipsByOrg(db *gorm.DB, orgID string, status models.PartnershipStatus) ([]models.OrgPartnership, error)
}

type OrganizationRepositoryImpl struct{}

func NewOrganizationRepository() OrganizationRepository {
	return &OrganizationRepositoryImpl{}
}

// Organizations

func (r *OrganizationRepositoryImpl) CreateOrganization(db *gorm.DB, org *models.Organization) error {
	return db.Create(org).Error
}

func (r *OrganizationRepositoryImpl) FindOrganizationByID(db *gorm.DB, id string) (*models.Organization, error) {
	var org models.Organization
	err := db.First(&org, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

// Memberships

func (r *OrganizationRepositoryImpl) CreateMembership(db *gorm.DB, membership *models.OrgMembership) error {
	return db.Create(membership).Error
}

func (r *OrganizationRepositoryImpl) FindActiveMembership(db *gorm.DB, orgID, userID string) (*models.OrgMembership, error) {
	var membership models.OrgMembership
	err := db.First(&membership, "org_id = ? AND user_id = ? AND status = ?",
		orgID, userID, models.MembershipStatusActive).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return &membership, nil
}

func (r *OrganizationRepositoryImpl) ListActiveMemberUserIDs(db *gorm.DB, orgID string) ([]string, error) {
	var userIDs []string
	err := db.Model(&models.OrgMembership{}).
		Where("org_id = ? AND status = ?", orgID, models.MembershipStatusActive).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

// ListActiveMembershipsByOrgType возвращает активные членства пользователя
// в организациях заданного типа (нужно для выбора организации-застройщика
// при рассылке).
func (r *OrganizationRepositoryImpl) ListActiveMembershipsByOrgType(db *gorm.DB, userID string, orgType models.OrgType) ([]models.OrgMembership, error) {
	var memberships []models.OrgMembership
	err := db.
		Joins("JOIN organizations ON organizations.id = org_memberships.org_id AND organizations.type = ?", orgType).
		Where("org_memberships.user_id = ? AND org_memberships.status = ?", userID, models.MembershipStatusActive).
		Find(&memberships).Error
	return memberships, err
}

// Partnerships

func (r *OrganizationRepositoryImpl) CreatePartnership(db *gorm.DB, partnership *models.OrgPartnership) error {
	return db.Create(partnership).Error
}

func (r *OrganizationRepositoryImpl) FindPartnershipByID(db *gorm.DB, id string) (*models.OrgPartnership, error) {
	var partnership models.OrgPartnership
	err := db.First(&partnership, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnershipNotFound
		}
		return nil, err
	}
	return &partnership, nil
}

func (r *OrganizationRepositoryImpl) FindPartnership(db *gorm.DB, brokerOrgID, developerOrgID string) (*models.OrgPartnership, error) {
	var partnership models.OrgPartnership
	err := db.First(&partnership, "broker_org_id = ? AND developer_org_id = ?",
		brokerOrgID, developerOrgID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnershipNotFound
		}
		return nil, err
	}
	return &partnership, nil
}

func (r *OrganizationRepositoryImpl) UpdatePartnershipStatus(db *gorm.DB, id string, status models.PartnershipStatus) error {
	result := db.Model(&models.OrgPartnership{}).Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPartnershipNotFound
	}
	return nil
}

func (r *OrganizationRepositoryImpl) ListApprovedPartnershipsByDeveloper(db *gorm.DB, developerOrgID string) ([]models.OrgPartnership, error) {
	var partnerships []models.OrgPartnership
	err := db.
		Where("developer_org_id = ? AND status = ?", developerOrgID, models.PartnershipStatusApproved).
		Order("created_at ASC").
		Find(&partnerships).Error
	return partnerships, err
}

func (r *OrganizationRepositoryImpl) ListPartnershipsByOrg(db *gorm.DB, orgID string, status models.PartnershipStatus) ([]models.OrgPartnership, error) {
	var partnerships []models.OrgPartnership
	query := db.Where("(broker_org_id = ? OR developer_org_id = ?)", orgID, orgID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&partnerships).Error
	return partnerships, err
}
