package services

import (
	"errors"

	"estatelink_backend/internal/models"
	"estatelink_backend/internal/repositories"
	"estatelink_backend/internal/services/dto"
	"estatelink_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// OrgService отвечает на вопросы о членстве и управляет партнерствами
// брокеридж-застройщик. Членство учитывается только в статусе active.
type OrgService interface {
	IsActiveMember(db *gorm.DB, orgID, userID string) (bool, error)
	HasManagementRole(db *gorm.DB, orgID, userID string) (bool, error)
	ListActiveMemberUserIDs(db *gorm.DB, orgID string) ([]string, error)
	ResolveDeveloperOrgID(db *gorm.DB, userID string, explicitOrgID *string) (string, error)

	RequestPartnership(db *gorm.DB, userID string, req *dto.RequestPartnershipRequest) (*dto.PartnershipResponse, error)
	ReviewPartnership(db *gorm.DB, userID, partnershipID string, req *dto.ReviewPartnershipRequest) (*dto.PartnershipResponse, error)
	ListPartnerships(db *gorm.DB, userID string, criteria dto.PartnershipCriteria) (*dto.PartnershipListResponse, error)
}

type orgService struct {
	orgRepo  repositories.OrganizationRepository
	userRepo repositories.UserRepository
}

func NewOrgService(orgRepo repositories.OrganizationRepository, userRepo repositories.UserRepository) OrgService {
	return &orgService{orgRepo: orgRepo, userRepo: userRepo}
}

func (s *orgService) IsActiveMember(db *gorm.DB, orgID, userID string) (bool, error) {
	_, err := s.orgRepo.FindActiveMembership(db, orgID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return false, nil
		}
		return false, apperrors.InternalError(err)
	}
	return true, nil
}

// HasManagementRole: глобальный администратор управляет любой организацией;
// иначе нужны роли owner_admin или admin в активном членстве.
func (s *orgService) HasManagementRole(db *gorm.DB, orgID, userID string) (bool, error) {
	if user, err := s.userRepo.FindByID(db, userID); err == nil && user.Type == models.UserTypeAdmin {
		return true, nil
	}

	membership, err := s.orgRepo.FindActiveMembership(db, orgID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return false, nil
		}
		return false, apperrors.InternalError(err)
	}
	return membership.Role == models.MembershipRoleOwnerAdmin ||
		membership.Role == models.MembershipRoleAdmin, nil
}

func (s *orgService) ListActiveMemberUserIDs(db *gorm.DB, orgID string) ([]string, error) {
	ids, err := s.orgRepo.ListActiveMemberUserIDs(db, orgID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return ids, nil
}

// ResolveDeveloperOrgID выбирает организацию-застройщика для рассылки.
// Явно указанная организация проверяется на активное членство; без явного
// указания требуется ровно одно активное членство в застройщике.
func (s *orgService) ResolveDeveloperOrgID(db *gorm.DB, userID string, explicitOrgID *string) (string, error) {
	memberships, err := s.orgRepo.ListActiveMembershipsByOrgType(db, userID, models.OrgTypeDeveloper)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	if explicitOrgID != nil && *explicitOrgID != "" {
		for _, m := range memberships {
			if m.OrgID == *explicitOrgID {
				return m.OrgID, nil
			}
		}
		return "", apperrors.ErrNoDeveloperMembership
	}

	switch len(memberships) {
	case 0:
		return "", apperrors.ErrNoDeveloperMembership
	case 1:
		return memberships[0].OrgID, nil
	default:
		return "", apperrors.ErrAmbiguousDeveloperOrg
	}
}

// RequestPartnership создает запрос партнерства от имени брокериджа.
// Пара организаций уникальна; повторный запрос идемпотентен и возвращает
// существующую строку как есть, в каком бы статусе она ни была.
func (s *orgService) RequestPartnership(db *gorm.DB, userID string, req *dto.RequestPartnershipRequest) (*dto.PartnershipResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	brokerOrg, err := s.orgRepo.FindOrganizationByID(tx, req.BrokerOrgID)
	if err != nil {
		return nil, apperrors.ErrOrganizationNotFound
	}
	developerOrg, err := s.orgRepo.FindOrganizationByID(tx, req.DeveloperOrgID)
	if err != nil {
		return nil, apperrors.ErrOrganizationNotFound
	}
	if brokerOrg.Type != models.OrgTypeBrokerage || developerOrg.Type != models.OrgTypeDeveloper {
		return nil, apperrors.ErrInvalidOperation("partnerships",
			"Partnership links a brokerage to a developer organization")
	}

	canManage, err := s.HasManagementRole(tx, req.BrokerOrgID, userID)
	if err != nil {
		return nil, err
	}
	if !canManage {
		return nil, apperrors.ErrNoManagementRole
	}

	existing, err := s.orgRepo.FindPartnership(tx, req.BrokerOrgID, req.DeveloperOrgID)
	if err == nil {
		if err := tx.Commit().Error; err != nil {
			return nil, apperrors.InternalError(err)
		}
		return partnershipToResponse(existing), nil
	}
	if !errors.Is(err, repositories.ErrPartnershipNotFound) {
		return nil, apperrors.InternalError(err)
	}

	partnership := &models.OrgPartnership{
		BrokerOrgID:    req.BrokerOrgID,
		DeveloperOrgID: req.DeveloperOrgID,
		Status:         models.PartnershipStatusPending,
		RequestedBy:    userID,
	}
	if err := s.orgRepo.CreatePartnership(tx, partnership); err != nil {
		// Гонка двух одновременных запросов: проигравший отдает строку победителя
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, findErr := s.orgRepo.FindPartnership(tx, req.BrokerOrgID, req.DeveloperOrgID)
			if findErr != nil {
				return nil, apperrors.InternalError(findErr)
			}
			if err := tx.Commit().Error; err != nil {
				return nil, apperrors.InternalError(err)
			}
			return partnershipToResponse(winner), nil
		}
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return partnershipToResponse(partnership), nil
}

// ReviewPartnership - решение принимает управляющий организации-застройщика.
// Пересмотреть можно только pending-запрос.
func (s *orgService) ReviewPartnership(db *gorm.DB, userID, partnershipID string, req *dto.ReviewPartnershipRequest) (*dto.PartnershipResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	partnership, err := s.orgRepo.FindPartnershipByID(tx, partnershipID)
	if err != nil {
		return nil, apperrors.ErrPartnershipNotFound
	}

	canManage, err := s.HasManagementRole(tx, partnership.DeveloperOrgID, userID)
	if err != nil {
		return nil, err
	}
	if !canManage {
		return nil, apperrors.ErrNoManagementRole
	}

	if partnership.Status != models.PartnershipStatusPending {
		return nil, apperrors.ErrInvalidOperation("partnerships",
			"Only a pending partnership can be reviewed")
	}

	newStatus := models.PartnershipStatus(req.Status)
	if err := s.orgRepo.UpdatePartnershipStatus(tx, partnership.ID, newStatus); err != nil {
		return nil, apperrors.InternalError(err)
	}
	partnership.Status = newStatus

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return partnershipToResponse(partnership), nil
}

func (s *orgService) ListPartnerships(db *gorm.DB, userID string, criteria dto.PartnershipCriteria) (*dto.PartnershipListResponse, error) {
	isMember, err := s.IsActiveMember(db, criteria.OrgID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperrors.ErrNotOrgMember
	}

	partnerships, err := s.orgRepo.ListPartnershipsByOrg(db, criteria.OrgID, models.PartnershipStatus(criteria.Status))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.PartnershipResponse, 0, len(partnerships))
	for i := range partnerships {
		items = append(items, partnershipToResponse(&partnerships[i]))
	}
	return &dto.PartnershipListResponse{
		Partnerships: items,
		Total:        int64(len(items)),
	}, nil
}

func partnershipToResponse(p *models.OrgPartnership) *dto.PartnershipResponse {
	return &dto.PartnershipResponse{
		ID:             p.ID,
		BrokerOrgID:    p.BrokerOrgID,
		DeveloperOrgID: p.DeveloperOrgID,
		Status:         string(p.Status),
		RequestedBy:    p.RequestedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
