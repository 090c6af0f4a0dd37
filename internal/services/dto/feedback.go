package dto

import (
	"time"

	"github.com/google/uuid"

	"bloodlink_backend/internal/models"
)

type CreateFeedbackRequest struct {
	Type      string     `json:"type" validate:"required,oneof=donation request hospital system"`
	Subject   string     `json:"subject" validate:"required,min=3,max=200"`
	Message   string     `json:"message" validate:"required,min=5,max=2000"`
	Rating    int        `json:"rating" validate:"required,min=1,max=5"`
	RelatedID *uuid.UUID `json:"related_id"`
}

type UpdateFeedbackRequest struct {
	Subject *string `json:"subject" validate:"omitempty,min=3,max=200"`
	Message *string `json:"message" validate:"omitempty,min=5,max=2000"`
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

type FeedbackListQuery struct {
	Pagination
	Type      string `form:"type" validate:"omitempty,oneof=donation request hospital system"`
	MinRating int    `form:"min_rating" validate:"omitempty,min=1,max=5"`
}

type FeedbackResponse struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	UserName  string              `json:"user_name,omitempty"`
	Type      models.FeedbackType `json:"type"`
	Subject   string              `json:"subject"`
	Message   string              `json:"message"`
	Rating    int                 `json:"rating,omitempty"`
	RelatedID *uuid.UUID          `json:"related_id,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

func NewFeedbackResponse(f *models.Feedback) *FeedbackResponse {
	resp := &FeedbackResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		Type:      f.Type,
		Subject:   f.Subject,
		Message:   f.Message,
		Rating:    f.Rating,
		RelatedID: f.RelatedID,
		CreatedAt: f.CreatedAt,
	}
	if f.User != nil {
		resp.UserName = f.User.Name
	}
	return resp
}

type FeedbackListResponse struct {
	Feedback []*FeedbackResponse `json:"feedback"`
	Meta     PageMeta            `json:"meta"`
}
