package repositories_test

import (
	"testing"

	"estatelink_backend/internal/models"
	"estatelink_backend/internal/models/chat"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB поднимает чистую in-memory SQLite со схемой мессенджера.
// TranslateError включен, как в продакшн-конфигурации: код различает
// нарушение unique-индекса через gorm.ErrDuplicatedKey.
func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string, userType models.UserType) *models.User {
	t.Helper()
	user := &models.User{
		Email:        name + "@test.local",
		PasswordHash: "hash",
		Name:         name,
		Type:         userType,
		Status:       models.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", name, err)
	}
	return user
}
