package dto

import (
	"time"

	"github.com/google/uuid"

	"bloodlink_backend/internal/models"
)

type CreateHospitalRequest struct {
	Name      string  `json:"name" validate:"required,min=2,max=200"`
	Address   string  `json:"address" validate:"required,min=5"`
	Phone     string  `json:"phone" validate:"required,min=5,max=20"`
	Email     string  `json:"email" validate:"required,email"`
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
}

type UpdateHospitalRequest struct {
	Name      *string  `json:"name" validate:"omitempty,min=2,max=200"`
	Address   *string  `json:"address" validate:"omitempty,min=5"`
	Phone     *string  `json:"phone" validate:"omitempty,min=5,max=20"`
	Email     *string  `json:"email" validate:"omitempty,email"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type HospitalListQuery struct {
	Pagination
	Name      string `form:"name"`
	SortBy    string `form:"sort_by" validate:"omitempty,oneof=created_at updated_at name"`
	SortOrder string `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// NearbyHospitalsQuery — поиск больниц в радиусе (км) от точки
type NearbyHospitalsQuery struct {
	Latitude  float64 `form:"latitude" validate:"required,latitude"`
	Longitude float64 `form:"longitude" validate:"required,longitude"`
	Radius    float64 `form:"radius" validate:"omitempty,min=0.1,max=500"` // km
}

// UpdateBloodBankRequest — корректировка запасов одной группы крови
type UpdateBloodBankRequest struct {
	BloodType string `json:"blood_type" validate:"required,is-blood-type"`
	Delta     int    `json:"delta" validate:"required"`
}

type HospitalResponse struct {
	ID        uuid.UUID                `json:"id"`
	Name      string                   `json:"name"`
	Address   string                   `json:"address"`
	Phone     string                   `json:"phone"`
	Email     string                   `json:"email"`
	Latitude  float64                  `json:"latitude"`
	Longitude float64                  `json:"longitude"`
	BloodBank map[models.BloodType]int `json:"blood_bank"`
	CreatedAt time.Time                `json:"created_at"`
}

func NewHospitalResponse(h *models.Hospital) (*HospitalResponse, error) {
	bank, err := h.BloodBankMap()
	if err != nil {
		return nil, err
	}
	return &HospitalResponse{
		ID:        h.ID,
		Name:      h.Name,
		Address:   h.Address,
		Phone:     h.Phone,
		Email:     h.Email,
		Latitude:  h.Latitude,
		Longitude: h.Longitude,
		BloodBank: bank,
		CreatedAt: h.CreatedAt,
	}, nil
}

type HospitalListResponse struct {
	Hospitals []*HospitalResponse `json:"hospitals"`
	Meta      PageMeta            `json:"meta"`
}
