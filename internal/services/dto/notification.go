package dto

import (
	"time"

	"github.com/google/uuid"

	"bloodlink_backend/internal/models"
)

type NotificationListQuery struct {
	Pagination
	UnreadOnly bool `form:"unread_only"`
}

type NotificationResponse struct {
	ID        uuid.UUID               `json:"id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"is_read"`
	RelatedID *uuid.UUID              `json:"related_id,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

func NewNotificationResponse(n *models.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		RelatedID: n.RelatedID,
		CreatedAt: n.CreatedAt,
	}
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	UnreadCount   int64                   `json:"unread_count"`
	Meta          PageMeta                `json:"meta"`
}
