package models

import "github.com/google/uuid"

type Notification struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"-"`

	Type    NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title   string           `gorm:"not null" json:"title"`
	Message string           `gorm:"not null" json:"message"`
	IsRead  bool             `gorm:"default:false;index" json:"is_read"`

	// Optional link back to the record the notification is about.
	RelatedID *uuid.UUID `gorm:"type:uuid" json:"related_id,omitempty"`
}
