package models

import (
	"time"

	"github.com/google/uuid"
)

type Request struct {
	BaseModel
	HospitalID uuid.UUID `gorm:"type:uuid;not null;index" json:"hospital_id"`
	Hospital   *Hospital `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`

	PatientName string         `gorm:"not null" json:"patient_name"`
	BloodType   BloodType      `gorm:"type:varchar(3);not null" json:"blood_type"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	Urgency     RequestUrgency `gorm:"type:varchar(10);not null;default:'medium'" json:"urgency"`
	Status      RequestStatus  `gorm:"type:varchar(10);not null;default:'open';index" json:"status"`

	// Defaults to the hospital's coordinates when the creator gives none.
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`

	FulfilledByID *uuid.UUID `gorm:"type:uuid" json:"fulfilled_by_id,omitempty"`
	FulfilledBy   *User      `gorm:"foreignKey:FulfilledByID" json:"fulfilled_by,omitempty"`
	FulfilledAt   *time.Time `json:"fulfilled_at,omitempty"`

	Notes string `json:"notes,omitempty"`
}

func (r *Request) Location() GeoPoint {
	return GeoPoint{Longitude: r.Longitude, Latitude: r.Latitude}
}
