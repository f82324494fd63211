package validator

import (
	"log"

	"estatelink_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка регистрации - ошибка времени запуска приложения.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-type", validateUserType)
	mustRegister("is-org-type", validateOrgType)
	mustRegister("is-notification-type", validateNotificationType)
	mustRegister("is-partnership-status", validatePartnershipStatus)
}

// --- Функции валидации ---

func validateUserType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Пустые значения проверяет 'required'
	}

	switch models.UserType(value) {
	case models.UserTypeAdmin, models.UserTypeBroker, models.UserTypeDeveloper,
		models.UserTypeOwner, models.UserTypeAgency:
		return true
	default:
		return false
	}
}

func validateOrgType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.OrgType(value) {
	case models.OrgTypeBrokerage, models.OrgTypeDeveloper:
		return true
	default:
		return false
	}
}

func validateNotificationType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.NotificationType(value) {
	case models.NotificationTypeGeneral, models.NotificationTypeMessage:
		return true
	default:
		return false
	}
}

func validatePartnershipStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PartnershipStatus(value) {
	case models.PartnershipStatusPending, models.PartnershipStatusApproved,
		models.PartnershipStatusRejected:
		return true
	default:
		return false
	}
}
