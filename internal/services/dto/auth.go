package dto

import (
	"time"

	"github.com/google/uuid"

	"bloodlink_backend/internal/models"
)

// RegisterRequest — тело запроса регистрации донора или реципиента
type RegisterRequest struct {
	Name      string  `json:"name" validate:"required,min=2,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	Role      string  `json:"role" validate:"required,is-user-role"`
	BloodType string  `json:"blood_type" validate:"omitempty,is-blood-type"`
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
	Phone     string  `json:"phone" validate:"required,min=5,max=20"`
}

// RegisterStaffRequest — создание служебной учетной записи администратором.
// Роль по умолчанию staff.
type RegisterStaffRequest struct {
	Name      string  `json:"name" validate:"required,min=2,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	Role      string  `json:"role" validate:"omitempty,oneof=staff hospital admin"`
	Latitude  float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude float64 `json:"longitude" validate:"omitempty,longitude"`
	Phone     string  `json:"phone" validate:"required,min=5,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// UserResponse — публичное представление пользователя
type UserResponse struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Role             models.UserRole  `json:"role"`
	BloodType        models.BloodType `json:"blood_type,omitempty"`
	IsAvailable      bool             `json:"is_available"`
	Latitude         float64          `json:"latitude"`
	Longitude        float64          `json:"longitude"`
	Phone            string           `json:"phone"`
	IsVerified       bool             `json:"is_verified"`
	LastDonationDate *time.Time       `json:"last_donation_date,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		BloodType:        u.BloodType,
		IsAvailable:      u.IsAvailable,
		Latitude:         u.Latitude,
		Longitude:        u.Longitude,
		Phone:            u.Phone,
		IsVerified:       u.IsVerified,
		LastDonationDate: u.LastDonationDate,
		CreatedAt:        u.CreatedAt,
	}
}

// UpdateDetailsRequest — частичное обновление своего профиля
type UpdateDetailsRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Phone       *string  `json:"phone" validate:"omitempty,min=5,max=20"`
	BloodType   *string  `json:"blood_type" validate:"omitempty,is-blood-type"`
	IsAvailable *bool    `json:"is_available"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// AssignRoleRequest — смена роли пользователя администратором
type AssignRoleRequest struct {
	Role string `json:"role" validate:"required,is-user-role"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}
