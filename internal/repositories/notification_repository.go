package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodlink_backend/internal/models"
	"bloodlink_backend/pkg/apperrors"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(notification *models.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return apperrors.DatabaseError(err, "notifications", "failed to create notification")
	}
	return nil
}

func (r *NotificationRepository) FindByID(id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("notifications", id.String())
		}
		return nil, apperrors.DatabaseError(err, "notifications", "failed to load notification")
	}
	return &notification, nil
}

// ListByUser returns a page of the user's notifications newest first, the
// total row count matching the filter, and the count of unread ones.
func (r *NotificationRepository) ListByUser(userID uuid.UUID, unreadOnly bool, page, limit int) ([]models.Notification, int64, int64, error) {
	query := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = false")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, 0, apperrors.DatabaseError(err, "notifications", "failed to count notifications")
	}

	var unread int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&unread).Error
	if err != nil {
		return nil, 0, 0, apperrors.DatabaseError(err, "notifications", "failed to count notifications")
	}

	var notifications []models.Notification
	query = query.Order("created_at DESC")
	query = applyPagination(query, page, limit)
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, 0, apperrors.DatabaseError(err, "notifications", "failed to list notifications")
	}
	return notifications, total, unread, nil
}

func (r *NotificationRepository) MarkRead(id uuid.UUID) error {
	err := r.db.Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
	if err != nil {
		return apperrors.DatabaseError(err, "notifications", "failed to mark notification read")
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(userID uuid.UUID) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Update("is_read", true)
	if result.Error != nil {
		return 0, apperrors.DatabaseError(result.Error, "notifications", "failed to mark notifications read")
	}
	return result.RowsAffected, nil
}

func (r *NotificationRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Notification{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.DatabaseError(result.Error, "notifications", "failed to delete notification")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound("notifications", id.String())
	}
	return nil
}
