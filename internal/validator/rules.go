package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"bloodlink_backend/internal/models"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Критическая ошибка времени запуска приложения.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-blood-type': Проверяет, что группа крови валидна
	mustRegister("is-blood-type", validateBloodType)

	// 'is-user-role': Проверяет, что роль пользователя валидна
	mustRegister("is-user-role", validateUserRole)

	// 'is-urgency': Проверяет срочность запроса крови
	mustRegister("is-urgency", validateUrgency)

	// 'is-donation-status': Проверяет статус донации
	mustRegister("is-donation-status", validateDonationStatus)
}

// --- Функции валидации ---

func validateBloodType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Не проверяем пустые значения, для этого есть 'required'
	}
	return models.BloodType(value).Valid()
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.UserRole(value).Valid()
}

func validateUrgency(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.RequestUrgency(value).Valid()
}

func validateDonationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.DonationStatus(value).Valid()
}
