package models

import "time"

type User struct {
	BaseModel
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"` // stored lowercase
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'donor'" json:"role"`
	BloodType    BloodType `gorm:"type:varchar(3)" json:"blood_type,omitempty"` // required iff role=donor
	IsAvailable  bool      `gorm:"default:true" json:"is_available"`
	Latitude     float64   `gorm:"not null" json:"latitude"`
	Longitude    float64   `gorm:"not null" json:"longitude"`
	Phone        string    `gorm:"not null" json:"phone"`

	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`

	VerificationToken   string     `json:"-"`
	VerificationExpires *time.Time `json:"-"`
	IsVerified          bool       `gorm:"default:false" json:"is_verified"`
	VerifiedAt          *time.Time `json:"verified_at,omitempty"`

	ResetToken    string     `json:"-"`
	ResetTokenExp *time.Time `json:"-"`
}

func (u *User) Location() GeoPoint {
	return GeoPoint{Longitude: u.Longitude, Latitude: u.Latitude}
}
