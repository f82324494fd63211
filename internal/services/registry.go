package services

import (
	"estatelink_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	OrgService          OrgService
	ChatService         ChatService
	NotificationService NotificationService
	EmailService        email.Provider
}
