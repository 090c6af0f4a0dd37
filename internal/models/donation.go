package models

import (
	"time"

	"github.com/google/uuid"
)

type Donation struct {
	BaseModel
	DonorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"donor_id"`
	Donor      *User     `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	HospitalID uuid.UUID `gorm:"type:uuid;not null;index" json:"hospital_id"`
	Hospital   *Hospital `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`

	BloodType    BloodType      `gorm:"type:varchar(3);not null" json:"blood_type"`
	Quantity     int            `gorm:"not null" json:"quantity"`
	Status       DonationStatus `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"`
	DonationDate time.Time      `gorm:"not null" json:"donation_date"`
	Notes        string         `json:"notes,omitempty"`
}
