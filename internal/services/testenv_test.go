package services_test

import (
	"errors"
	"testing"

	"estatelink_backend/internal/email"
	"estatelink_backend/internal/models"
	"estatelink_backend/internal/models/chat"
	"estatelink_backend/internal/repositories"
	"estatelink_backend/internal/services"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingEmailProvider пишет отправленные письма в память;
// failing=true имитирует лежащий SMTP.
type recordingEmailProvider struct {
	sent    []*email.Email
	failing bool
}

func (p *recordingEmailProvider) Send(msg *email.Email) error {
	if p.failing {
		return errors.New("smtp unavailable")
	}
	p.sent = append(p.sent, msg)
	return nil
}

func (p *recordingEmailProvider) SendWithTemplate(templateName string, data email.TemplateData, msg *email.Email) error {
	return p.Send(msg)
}

func (p *recordingEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	return p.Send(&email.Email{To: to, Subject: subject})
}

func (p *recordingEmailProvider) Validate() error { return nil }
func (p *recordingEmailProvider) Close() error    { return nil }

// testEnv - полный стек сервисов над in-memory SQLite.
type testEnv struct {
	db               *gorm.DB
	emails           *recordingEmailProvider
	userRepo         repositories.UserRepository
	propertyRepo     repositories.PropertyRepository
	orgRepo          repositories.OrganizationRepository
	chatRepo         repositories.ChatRepository
	notificationRepo repositories.NotificationRepository

	orgService          services.OrgService
	chatService         services.ChatService
	notificationService services.NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrgMembership{},
		&models.OrgPartnership{},
		&models.Property{},
		&models.Notification{},
		&models.NotificationCounter{},
		&chat.Thread{},
		&chat.ThreadParticipant{},
		&chat.Message{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	env := &testEnv{
		db:               db,
		emails:           &recordingEmailProvider{},
		userRepo:         repositories.NewUserRepository(),
		propertyRepo:     repositories.NewPropertyRepository(),
		orgRepo:          repositories.NewOrganizationRepository(),
		chatRepo:         repositories.NewChatRepository(),
		notificationRepo: repositories.NewNotificationRepository(),
	}

	env.orgService = services.NewOrgService(env.orgRepo, env.userRepo)
	env.notificationService = services.NewNotificationService(env.notificationRepo, env.userRepo, env.emails, "https://app.test")
	env.chatService = services.NewChatService(env.chatRepo, env.userRepo, env.propertyRepo, env.orgRepo, env.orgService, env.notificationService, 120)
	return env
}

// --- Хелперы для наполнения данных ---

func (env *testEnv) createUser(t *testing.T, name string, userType models.UserType) *models.User {
	t.Helper()
	user := &models.User{
		Email:        name + "@test.local",
		PasswordHash: "hash",
		Name:         name,
		Type:         userType,
		Status:       models.UserStatusActive,
	}
	if err := env.userRepo.Create(env.db, user); err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

func (env *testEnv) createOrg(t *testing.T, name string, orgType models.OrgType) *models.Organization {
	t.Helper()
	org := &models.Organization{Name: name, Type: orgType}
	if err := env.orgRepo.CreateOrganization(env.db, org); err != nil {
		t.Fatalf("failed to create org %s: %v", name, err)
	}
	return org
}

func (env *testEnv) addMember(t *testing.T, org *models.Organization, user *models.User, role models.MembershipRole, status models.MembershipStatus) {
	t.Helper()
	membership := &models.OrgMembership{
		OrgID:  org.ID,
		UserID: user.ID,
		Role:   role,
		Status: status,
	}
	if err := env.orgRepo.CreateMembership(env.db, membership); err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}
}

func (env *testEnv) createProperty(t *testing.T, title string, status models.PropertyStatus, ownerID *string) *models.Property {
	t.Helper()
	property := &models.Property{Title: title, Status: status, OwnerID: ownerID}
	if err := env.propertyRepo.Create(env.db, property); err != nil {
		t.Fatalf("failed to create property %s: %v", title, err)
	}
	return property
}

func (env *testEnv) approvePartnership(t *testing.T, brokerOrg, developerOrg *models.Organization, requestedBy string) *models.OrgPartnership {
	t.Helper()
	partnership := &models.OrgPartnership{
		BrokerOrgID:    brokerOrg.ID,
		DeveloperOrgID: developerOrg.ID,
		Status:         models.PartnershipStatusApproved,
		RequestedBy:    requestedBy,
	}
	if err := env.orgRepo.CreatePartnership(env.db, partnership); err != nil {
		t.Fatalf("failed to create partnership: %v", err)
	}
	return partnership
}

func (env *testEnv) counter(t *testing.T, userID string) *models.NotificationCounter {
	t.Helper()
	counter, err := env.notificationRepo.GetCounter(env.db, userID)
	if err != nil {
		t.Fatalf("failed to read counter: %v", err)
	}
	return counter
}

func (env *testEnv) unreadCount(t *testing.T, userID string, notifType models.NotificationType) int64 {
	t.Helper()
	var notifications []models.Notification
	if err := env.db.Where("user_id = ? AND is_read = ?", userID, false).Find(&notifications).Error; err != nil {
		t.Fatalf("failed to list notifications: %v", err)
	}
	var count int64
	for i := range notifications {
		if notifications[i].EffectiveType() == notifType {
			count++
		}
	}
	return count
}

func strPtr(s string) *string { return &s }
