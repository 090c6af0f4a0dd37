package dto

import (
	"time"

	"github.com/google/uuid"

	"bloodlink_backend/internal/models"
)

// CreateDonationRequest: группа крови по умолчанию берется из профиля
// донора, количество по умолчанию 1.
type CreateDonationRequest struct {
	HospitalID   uuid.UUID  `json:"hospital_id" validate:"required"`
	BloodType    string     `json:"blood_type" validate:"omitempty,is-blood-type"`
	Quantity     int        `json:"quantity" validate:"omitempty,min=1"`
	Status       string     `json:"status" validate:"omitempty,is-donation-status"`
	DonationDate *time.Time `json:"donation_date"`
	Notes        string     `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateDonationRequest struct {
	Status       *string    `json:"status" validate:"omitempty,is-donation-status"`
	Quantity     *int       `json:"quantity" validate:"omitempty,min=1"`
	DonationDate *time.Time `json:"donation_date"`
	Notes        *string    `json:"notes" validate:"omitempty,max=1000"`
}

type DonationListQuery struct {
	Pagination
	DonorID     string `form:"donor_id" validate:"omitempty,uuid"`
	HospitalID  string `form:"hospital_id" validate:"omitempty,uuid"`
	BloodType   string `form:"blood_type" validate:"omitempty,is-blood-type"`
	Status      string `form:"status" validate:"omitempty,is-donation-status"`
	MinQuantity int    `form:"min_quantity" validate:"omitempty,min=1"`
	MaxQuantity int    `form:"max_quantity" validate:"omitempty,min=1"`
	StartDate   string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `form:"end_date" validate:"omitempty,datetime=2006-01-02"`
	SortBy      string `form:"sort_by" validate:"omitempty,oneof=created_at donation_date quantity status"`
	SortOrder   string `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type DonationResponse struct {
	ID           uuid.UUID             `json:"id"`
	DonorID      uuid.UUID             `json:"donor_id"`
	HospitalID   uuid.UUID             `json:"hospital_id"`
	HospitalName string                `json:"hospital_name,omitempty"`
	BloodType    models.BloodType      `json:"blood_type"`
	Quantity     int                   `json:"quantity"`
	Status       models.DonationStatus `json:"status"`
	DonationDate time.Time             `json:"donation_date"`
	Notes        string                `json:"notes,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

func NewDonationResponse(d *models.Donation) *DonationResponse {
	resp := &DonationResponse{
		ID:           d.ID,
		DonorID:      d.DonorID,
		HospitalID:   d.HospitalID,
		BloodType:    d.BloodType,
		Quantity:     d.Quantity,
		Status:       d.Status,
		DonationDate: d.DonationDate,
		Notes:        d.Notes,
		CreatedAt:    d.CreatedAt,
	}
	if d.Hospital != nil {
		resp.HospitalName = d.Hospital.Name
	}
	return resp
}

type DonationListResponse struct {
	Donations []*DonationResponse `json:"donations"`
	Meta      PageMeta            `json:"meta"`
}
