package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodlink_backend/internal/logger"
	"bloodlink_backend/internal/models"
	"bloodlink_backend/internal/repositories"
	"bloodlink_backend/internal/services/dto"
	"bloodlink_backend/pkg/apperrors"
)

type NotificationService interface {
	// Dispatch persists an in-app notification. Delivery failures are logged
	// and never propagated to the caller, so a broken notification path
	// cannot fail the operation that triggered it.
	Dispatch(db *gorm.DB, userID uuid.UUID, ntype models.NotificationType, title, message string, relatedID *uuid.UUID)

	List(db *gorm.DB, userID uuid.UUID, query *dto.NotificationListQuery) (*dto.NotificationListResponse, error)
	MarkRead(db *gorm.DB, userID, notificationID uuid.UUID) error
	MarkAllRead(db *gorm.DB, userID uuid.UUID) (int64, error)
	Delete(db *gorm.DB, userID, notificationID uuid.UUID) error
}

type NotificationServiceImpl struct{}

func NewNotificationService() NotificationService {
	return &NotificationServiceImpl{}
}

func (s *NotificationServiceImpl) Dispatch(db *gorm.DB, userID uuid.UUID, ntype models.NotificationType, title, message string, relatedID *uuid.UUID) {
	repo := repositories.NewNotificationRepository(db)
	notification := &models.Notification{
		UserID:    userID,
		Type:      ntype,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := repo.Create(notification); err != nil {
		logger.WithError(err).Error("failed to dispatch notification",
			"user_id", userID.String(),
			"type", string(ntype),
		)
	}
}

func (s *NotificationServiceImpl) List(db *gorm.DB, userID uuid.UUID, query *dto.NotificationListQuery) (*dto.NotificationListResponse, error) {
	repo := repositories.NewNotificationRepository(db)
	notifications, total, unread, err := repo.ListByUser(userID, query.UnreadOnly, query.Page, query.Limit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, dto.NewNotificationResponse(&notifications[i]))
	}
	return &dto.NotificationListResponse{
		Notifications: items,
		UnreadCount:   unread,
		Meta:          dto.NewPageMeta(query.Page, query.Limit, total),
	}, nil
}

func (s *NotificationServiceImpl) MarkRead(db *gorm.DB, userID, notificationID uuid.UUID) error {
	repo := repositories.NewNotificationRepository(db)
	notification, err := repo.FindByID(notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return apperrors.ErrInsufficientPermissions
	}
	return repo.MarkRead(notificationID)
}

func (s *NotificationServiceImpl) MarkAllRead(db *gorm.DB, userID uuid.UUID) (int64, error) {
	return repositories.NewNotificationRepository(db).MarkAllRead(userID)
}

func (s *NotificationServiceImpl) Delete(db *gorm.DB, userID, notificationID uuid.UUID) error {
	repo := repositories.NewNotificationRepository(db)
	notification, err := repo.FindByID(notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return apperrors.ErrInsufficientPermissions
	}
	return repo.Delete(notificationID)
}
