package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для ошибок бизнес-логики мессенджера и организаций.
*/

// =========================================================================
// Фабричные функции
// =========================================================================

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Пользователи и организации
// =========================================================================

var ErrUserNotFound = New(CodeNotFound, "users", "User not found", http.StatusNotFound)

var ErrOrganizationNotFound = New(CodeNotFound, "organizations", "Organization not found", http.StatusNotFound)

// ErrNotOrgMember - актор не является активным участником организации
var ErrNotOrgMember = New(CodeForbidden, "organizations", "Not an active member of this organization", http.StatusForbidden)

// ErrNoManagementRole - операция доступна только управляющим ролям организации
var ErrNoManagementRole = New(CodeForbidden, "organizations", "Management role required", http.StatusForbidden)

// ErrPartnershipNotFound - партнерство не найдено
var ErrPartnershipNotFound = New(CodeNotFound, "partnerships", "Partnership not found", http.StatusNotFound)

// ErrNoDeveloperMembership - у актора нет активного членства в организации-застройщике
var ErrNoDeveloperMembership = New(CodeForbidden, "broadcasts", "No active developer organization membership", http.StatusForbidden)

// ErrAmbiguousDeveloperOrg - актор состоит в нескольких организациях-застройщиках,
// организация должна быть указана явно
var ErrAmbiguousDeveloperOrg = New(CodeValidationFailed, "broadcasts", "Developer organization must be specified explicitly", http.StatusBadRequest)

// =========================================================================
// Треды и сообщения
// =========================================================================

var ErrThreadNotFound = New(CodeNotFound, "messaging", "Thread not found", http.StatusNotFound)

var ErrPropertyNotFound = New(CodeNotFound, "properties", "Property not found", http.StatusNotFound)

// ErrNotAParticipant - отправитель не является участником треда
var ErrNotAParticipant = New(CodeForbidden, "messaging", "Not a participant of this thread", http.StatusForbidden)

// ErrSelfMessage - отправитель и получатель совпадают
var ErrSelfMessage = New(CodeValidationFailed, "messaging", "Cannot send a message to yourself", http.StatusBadRequest)

// ErrEmptyMessage - текст сообщения пуст после обрезки пробелов
var ErrEmptyMessage = New(CodeValidationFailed, "messaging", "Message text is empty", http.StatusBadRequest)

// ErrMessagingNotAllowed - первый контакт не прошел проверку прав
// (текст намеренно не раскрывает, какое именно правило сработало)
var ErrMessagingNotAllowed = New(CodeForbidden, "messaging", "Messaging is not allowed for this listing", http.StatusForbidden)

// ErrGroupTitleRequired - групповой тред требует непустого названия
var ErrGroupTitleRequired = New(CodeValidationFailed, "messaging", "Group title is required", http.StatusBadRequest)

// ErrGroupParticipantsRequired - групповой тред требует хотя бы одного участника кроме создателя
var ErrGroupParticipantsRequired = New(CodeValidationFailed, "messaging", "At least one participant is required", http.StatusBadRequest)

// =========================================================================
// Уведомления
// =========================================================================

var ErrNotificationNotFound = New(CodeNotFound, "notifications", "Notification not found", http.StatusNotFound)

// ErrCounterNotFound - счетчик уведомлений отсутствует (для маршрутов, которые
// отдают 204 вместо создания нового счетчика)
var ErrCounterNotFound = New(CodeNotFound, "notifications", "Notification counter not found", http.StatusNotFound)

// ErrInvalidNotificationType - неизвестный тип уведомления в фильтре
var ErrInvalidNotificationType = New(CodeValidationFailed, "notifications", "Invalid notification type", http.StatusBadRequest)
