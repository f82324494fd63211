package services

import (
	"context"
	"fmt"

	"estatelink_backend/internal/email"
)

// EmailService предоставляет высокоуровневый интерфейс для работы с email
type EmailService struct {
	provider email.Provider
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(provider email.Provider) *EmailService {
	return &EmailService{
		provider: provider,
	}
}

// SendSimpleEmail отправляет простое текстовое email сообщение
func (s *EmailService) SendSimpleEmail(ctx context.Context, to []string, subject, body string) error {
	emailMsg := &email.Email{
		To:      to,
		Subject: subject,
		Body:    body,
	}

	return s.provider.Send(emailMsg)
}

// SendTemplatedEmail отправляет email используя шаблон
func (s *EmailService) SendTemplatedEmail(ctx context.Context, to []string, subject, templateName string, data email.TemplateData) error {
	emailMsg := &email.Email{
		To:      to,
		Subject: subject,
	}

	return s.provider.SendWithTemplate(templateName, data, emailMsg)
}

// SendNotificationEmail отправляет уведомительное письмо
func (s *EmailService) SendNotificationEmail(ctx context.Context, to, subject, message, link string) error {
	data := email.TemplateData{
		"Subject": subject,
		"Message": message,
		"Link":    link,
	}

	return s.SendTemplatedEmail(ctx, []string{to}, subject, "notification", data)
}

// Validate проверяет конфигурацию email сервиса
func (s *EmailService) Validate() error {
	return s.provider.Validate()
}

// Close закрывает соединения email сервиса
func (s *EmailService) Close() error {
	return s.provider.Close()
}

// EmailServiceConfig конфигурация для EmailService
type EmailServiceConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	UseTLS       bool
	TemplatesDir string
}

// NewEmailProviderWithConfig собирает SMTP-провайдер с встроенными
// шаблонами; файловые шаблоны из TemplatesDir перекрывают встроенные.
func NewEmailProviderWithConfig(config EmailServiceConfig) (email.Provider, error) {
	emailConfig := &email.SMTPConfig{
		Host:      config.SMTPHost,
		Port:      config.SMTPPort,
		Username:  config.SMTPUsername,
		Password:  config.SMTPPassword,
		FromEmail: config.FromEmail,
		FromName:  config.FromName,
		UseTLS:    config.UseTLS,
	}

	templateManager := email.NewTemplateManager()
	if err := templateManager.RegisterBuiltinTemplates(); err != nil {
		return nil, fmt.Errorf("failed to register builtin templates: %w", err)
	}

	if config.TemplatesDir != "" {
		if err := templateManager.LoadTemplates(config.TemplatesDir); err != nil {
			return nil, fmt.Errorf("failed to load email templates: %w", err)
		}
	}

	return email.NewSMTPProvider(emailConfig, templateManager), nil
}
