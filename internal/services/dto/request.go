package dto

import (
	"time"

	"github.com/google/uuid"

	"bloodlink_backend/internal/models"
)

type CreateBloodRequest struct {
	HospitalID  uuid.UUID `json:"hospital_id" validate:"required"`
	PatientName string    `json:"patient_name" validate:"required,min=2,max=100"`
	BloodType   string    `json:"blood_type" validate:"required,is-blood-type"`
	Quantity    int       `json:"quantity" validate:"required,min=1"`
	Urgency     string    `json:"urgency" validate:"omitempty,is-urgency"`
	Latitude    *float64  `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64  `json:"longitude" validate:"omitempty,longitude"`
	Notes       string    `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateBloodRequest struct {
	PatientName *string `json:"patient_name" validate:"omitempty,min=2,max=100"`
	Quantity    *int    `json:"quantity" validate:"omitempty,min=1"`
	Urgency     *string `json:"urgency" validate:"omitempty,is-urgency"`
	Status      *string `json:"status" validate:"omitempty,oneof=open fulfilled cancelled"`
	Notes       *string `json:"notes" validate:"omitempty,max=1000"`
}

type BloodRequestListQuery struct {
	Pagination
	Status     string  `form:"status" validate:"omitempty,oneof=open fulfilled cancelled"`
	BloodType  string  `form:"blood_type" validate:"omitempty,is-blood-type"`
	Urgency    string  `form:"urgency" validate:"omitempty,is-urgency"`
	HospitalID string  `form:"hospital_id" validate:"omitempty,uuid"`
	Latitude   float64 `form:"latitude" validate:"omitempty,latitude"`
	Longitude  float64 `form:"longitude" validate:"omitempty,longitude"`
	Radius     float64 `form:"radius" validate:"omitempty,min=0.1,max=500"` // km
	SortBy     string  `form:"sort_by" validate:"omitempty,oneof=created_at updated_at urgency quantity"`
	SortOrder  string  `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type BloodRequestResponse struct {
	ID            uuid.UUID             `json:"id"`
	HospitalID    uuid.UUID             `json:"hospital_id"`
	HospitalName  string                `json:"hospital_name,omitempty"`
	PatientName   string                `json:"patient_name"`
	BloodType     models.BloodType      `json:"blood_type"`
	Quantity      int                   `json:"quantity"`
	Urgency       models.RequestUrgency `json:"urgency"`
	Status        models.RequestStatus  `json:"status"`
	Latitude      float64               `json:"latitude"`
	Longitude     float64               `json:"longitude"`
	CreatedByID   uuid.UUID             `json:"created_by_id"`
	FulfilledByID *uuid.UUID            `json:"fulfilled_by_id,omitempty"`
	FulfilledAt   *time.Time            `json:"fulfilled_at,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

func NewBloodRequestResponse(r *models.Request) *BloodRequestResponse {
	resp := &BloodRequestResponse{
		ID:            r.ID,
		HospitalID:    r.HospitalID,
		PatientName:   r.PatientName,
		BloodType:     r.BloodType,
		Quantity:      r.Quantity,
		Urgency:       r.Urgency,
		Status:        r.Status,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		CreatedByID:   r.CreatedByID,
		FulfilledByID: r.FulfilledByID,
		FulfilledAt:   r.FulfilledAt,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}
	if r.Hospital != nil {
		resp.HospitalName = r.Hospital.Name
	}
	return resp
}

type BloodRequestListResponse struct {
	Requests []*BloodRequestResponse `json:"requests"`
	Meta     PageMeta                `json:"meta"`
}

// MatchedDonor — донор, подобранный под запрос крови
type MatchedDonor struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	BloodType      models.BloodType `json:"blood_type"`
	Phone          string           `json:"phone"`
	DistanceMeters float64          `json:"distance_meters"`
}

type MatchDonorsResponse struct {
	RequestID uuid.UUID      `json:"request_id"`
	Donors    []MatchedDonor `json:"donors"`
	Notified  int            `json:"notified"`
}
