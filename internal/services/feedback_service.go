package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodlink_backend/internal/models"
	"bloodlink_backend/internal/repositories"
	"bloodlink_backend/internal/services/dto"
	"bloodlink_backend/pkg/apperrors"
)

type FeedbackService interface {
	Create(db *gorm.DB, userID uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error)
	Get(db *gorm.DB, id uuid.UUID) (*dto.FeedbackResponse, error)
	ListAll(db *gorm.DB, query *dto.FeedbackListQuery) (*dto.FeedbackListResponse, error)
	ListMine(db *gorm.DB, userID uuid.UUID, query *dto.FeedbackListQuery) (*dto.FeedbackListResponse, error)
	Update(db *gorm.DB, actor *models.User, id uuid.UUID, req *dto.UpdateFeedbackRequest) (*dto.FeedbackResponse, error)
	Delete(db *gorm.DB, actor *models.User, id uuid.UUID) error
}

type FeedbackServiceImpl struct{}

func NewFeedbackService() FeedbackService {
	return &FeedbackServiceImpl{}
}

func (s *FeedbackServiceImpl) Create(db *gorm.DB, userID uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error) {
	feedback := &models.Feedback{
		UserID:    userID,
		Type:      models.FeedbackType(req.Type),
		Subject:   req.Subject,
		Message:   req.Message,
		Rating:    req.Rating,
		RelatedID: req.RelatedID,
	}
	if err := repositories.NewFeedbackRepository(db).Create(feedback); err != nil {
		return nil, err
	}
	return dto.NewFeedbackResponse(feedback), nil
}

func (s *FeedbackServiceImpl) Get(db *gorm.DB, id uuid.UUID) (*dto.FeedbackResponse, error) {
	feedback, err := repositories.NewFeedbackRepository(db).FindByID(id)
	if err != nil {
		return nil, err
	}
	return dto.NewFeedbackResponse(feedback), nil
}

func (s *FeedbackServiceImpl) ListAll(db *gorm.DB, query *dto.FeedbackListQuery) (*dto.FeedbackListResponse, error) {
	return s.list(db, repositories.FeedbackFilter{
		Type:      models.FeedbackType(query.Type),
		MinRating: query.MinRating,
		Page:      query.Page,
		Limit:     query.Limit,
	}, query)
}

func (s *FeedbackServiceImpl) ListMine(db *gorm.DB, userID uuid.UUID, query *dto.FeedbackListQuery) (*dto.FeedbackListResponse, error) {
	return s.list(db, repositories.FeedbackFilter{
		UserID:    &userID,
		Type:      models.FeedbackType(query.Type),
		MinRating: query.MinRating,
		Page:      query.Page,
		Limit:     query.Limit,
	}, query)
}

func (s *FeedbackServiceImpl) list(db *gorm.DB, filter repositories.FeedbackFilter, query *dto.FeedbackListQuery) (*dto.FeedbackListResponse, error) {
	items, total, err := repositories.NewFeedbackRepository(db).List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.FeedbackResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewFeedbackResponse(&items[i]))
	}
	return &dto.FeedbackListResponse{
		Feedback: out,
		Meta:     dto.NewPageMeta(query.Page, query.Limit, total),
	}, nil
}

// Update edits a feedback entry. Only the author or an admin may edit.
func (s *FeedbackServiceImpl) Update(db *gorm.DB, actor *models.User, id uuid.UUID, req *dto.UpdateFeedbackRequest) (*dto.FeedbackResponse, error) {
	repo := repositories.NewFeedbackRepository(db)
	feedback, err := repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if feedback.UserID != actor.ID && actor.Role != models.UserRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if req.Subject != nil {
		feedback.Subject = *req.Subject
	}
	if req.Message != nil {
		feedback.Message = *req.Message
	}
	if req.Rating != nil {
		feedback.Rating = *req.Rating
	}

	if err := repo.Update(feedback); err != nil {
		return nil, err
	}
	return dto.NewFeedbackResponse(feedback), nil
}

func (s *FeedbackServiceImpl) Delete(db *gorm.DB, actor *models.User, id uuid.UUID) error {
	repo := repositories.NewFeedbackRepository(db)
	feedback, err := repo.FindByID(id)
	if err != nil {
		return err
	}
	if feedback.UserID != actor.ID && actor.Role != models.UserRoleAdmin {
		return apperrors.ErrInsufficientPermissions
	}
	return repo.Delete(id)
}
