package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodlink_backend/internal/models"
	"bloodlink_backend/pkg/apperrors"
)

// RequestFilter narrows and pages blood request listings. NearPoint and
// NearRadius, when both set, restrict results to a geographic circle.
type RequestFilter struct {
	Status     models.RequestStatus
	BloodType  models.BloodType
	Urgency    models.RequestUrgency
	HospitalID *uuid.UUID
	NearPoint  *models.GeoPoint
	NearRadius float64
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(request *models.Request) error {
	if err := r.db.Create(request).Error; err != nil {
		return apperrors.DatabaseError(err, "requests", "failed to create request")
	}
	return nil
}

func (r *RequestRepository) FindByID(id uuid.UUID) (*models.Request, error) {
	var request models.Request
	err := r.db.
		Preload("Hospital").
		Preload("CreatedBy").
		Preload("FulfilledBy").
		First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("requests", id.String())
		}
		return nil, apperrors.DatabaseError(err, "requests", "failed to load request")
	}
	return &request, nil
}

func (r *RequestRepository) List(filter RequestFilter) ([]models.Request, int64, error) {
	query := r.db.Model(&models.Request{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.BloodType != "" {
		query = query.Where("blood_type = ?", filter.BloodType)
	}
	if filter.Urgency != "" {
		query = query.Where("urgency = ?", filter.Urgency)
	}
	if filter.HospitalID != nil {
		query = query.Where("hospital_id = ?", *filter.HospitalID)
	}
	if filter.NearPoint != nil && filter.NearRadius > 0 {
		query = query.Where(`ST_DWithin(
			ST_SetSRID(ST_MakePoint(requests.longitude, requests.latitude), 4326)::geography,
			ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography,
			?)`,
			filter.NearPoint.Longitude, filter.NearPoint.Latitude, filter.NearRadius)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.DatabaseError(err, "requests", "failed to count requests")
	}

	var requests []models.Request
	query = applySort(query, filter.SortBy, filter.SortOrder)
	query = applyPagination(query, filter.Page, filter.Limit)
	if err := query.Preload("Hospital").Find(&requests).Error; err != nil {
		return nil, 0, apperrors.DatabaseError(err, "requests", "failed to list requests")
	}
	return requests, total, nil
}

func (r *RequestRepository) Update(request *models.Request) error {
	if err := r.db.Save(request).Error; err != nil {
		return apperrors.DatabaseError(err, "requests", "failed to update request")
	}
	return nil
}

func (r *RequestRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Request{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.DatabaseError(result.Error, "requests", "failed to delete request")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound("requests", id.String())
	}
	return nil
}

// MarkFulfilled flips an open request to fulfilled. The WHERE guard on
// status makes concurrent fulfill attempts lose cleanly.
func (r *RequestRepository) MarkFulfilled(request *models.Request) (bool, error) {
	result := r.db.Model(&models.Request{}).
		Where("id = ? AND status = ?", request.ID, models.RequestStatusOpen).
		Updates(map[string]interface{}{
			"status":          models.RequestStatusFulfilled,
			"fulfilled_by_id": request.FulfilledByID,
			"fulfilled_at":    request.FulfilledAt,
		})
	if result.Error != nil {
		return false, apperrors.DatabaseError(result.Error, "requests", "failed to fulfill request")
	}
	return result.RowsAffected > 0, nil
}

func (r *RequestRepository) WithTx(tx *gorm.DB) *RequestRepository {
	return &RequestRepository{db: tx}
}
