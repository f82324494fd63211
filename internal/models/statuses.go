package models

// Типы пользователей маркетплейса
type UserType string

const (
	UserTypeAdmin     UserType = "admin"
	UserTypeBroker    UserType = "broker"
	UserTypeDeveloper UserType = "developer"
	UserTypeOwner     UserType = "owner"
	UserTypeAgency    UserType = "agency"
)

type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// Типы организаций
type OrgType string

const (
	OrgTypeBrokerage OrgType = "brokerage"
	OrgTypeDeveloper OrgType = "developer"
)

// Роли участника организации
type MembershipRole string

const (
	MembershipRoleOwnerAdmin MembershipRole = "owner_admin"
	MembershipRoleAdmin      MembershipRole = "admin"
	MembershipRoleMember     MembershipRole = "member"
)

// Статусы членства: для авторизации и рассылок учитываются только Active
type MembershipStatus string

const (
	MembershipStatusInvited MembershipStatus = "invited"
	MembershipStatusActive  MembershipStatus = "active"
	MembershipStatusRemoved MembershipStatus = "removed"
)

// Статусы партнерства брокеридж-застройщик
type PartnershipStatus string

const (
	PartnershipStatusPending  PartnershipStatus = "pending"
	PartnershipStatusApproved PartnershipStatus = "approved"
	PartnershipStatusRejected PartnershipStatus = "rejected"
)

// Статусы объявления
type PropertyStatus string

const (
	PropertyStatusDraft         PropertyStatus = "draft"
	PropertyStatusPendingReview PropertyStatus = "pending_review"
	PropertyStatusPublished     PropertyStatus = "published"
	PropertyStatusArchived      PropertyStatus = "archived"
)

// Категории уведомлений: general крутит общий счетчик, message - счетчик
// сообщений. Пустой тип в старых строках трактуется как general.
type NotificationType string

const (
	NotificationTypeGeneral NotificationType = "general"
	NotificationTypeMessage NotificationType = "message"
)
