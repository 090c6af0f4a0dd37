package models

import "github.com/google/uuid"

type Feedback struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Type    FeedbackType `gorm:"type:varchar(20);not null" json:"type"`
	Subject string       `gorm:"not null" json:"subject"`
	Message string       `gorm:"not null" json:"message"`
	Rating  int          `json:"rating,omitempty"` // 1..5, zero means unrated

	// Optional link to the donation, request or hospital being reviewed.
	RelatedID *uuid.UUID `gorm:"type:uuid" json:"related_id,omitempty"`
}
