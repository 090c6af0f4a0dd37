package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodlink_backend/internal/models"
	"bloodlink_backend/pkg/apperrors"
)

// FeedbackFilter narrows and pages feedback listings.
type FeedbackFilter struct {
	UserID    *uuid.UUID
	Type      models.FeedbackType
	MinRating int
	Page      int
	Limit     int
}

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(feedback *models.Feedback) error {
	if err := r.db.Create(feedback).Error; err != nil {
		return apperrors.DatabaseError(err, "feedback", "failed to create feedback")
	}
	return nil
}

func (r *FeedbackRepository) FindByID(id uuid.UUID) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := r.db.Preload("User").First(&feedback, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("feedback", id.String())
		}
		return nil, apperrors.DatabaseError(err, "feedback", "failed to load feedback")
	}
	return &feedback, nil
}

func (r *FeedbackRepository) List(filter FeedbackFilter) ([]models.Feedback, int64, error) {
	query := r.db.Model(&models.Feedback{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.MinRating > 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.DatabaseError(err, "feedback", "failed to count feedback")
	}

	var items []models.Feedback
	query = query.Order("created_at DESC")
	query = applyPagination(query, filter.Page, filter.Limit)
	if err := query.Preload("User").Find(&items).Error; err != nil {
		return nil, 0, apperrors.DatabaseError(err, "feedback", "failed to list feedback")
	}
	return items, total, nil
}

func (r *FeedbackRepository) Update(feedback *models.Feedback) error {
	if err := r.db.Save(feedback).Error; err != nil {
		return apperrors.DatabaseError(err, "feedback", "failed to update feedback")
	}
	return nil
}

func (r *FeedbackRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Feedback{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.DatabaseError(result.Error, "feedback", "failed to delete feedback")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound("feedback", id.String())
	}
	return nil
}
