package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodlink_backend/internal/models"
	"bloodlink_backend/pkg/apperrors"
)

// HospitalFilter narrows and pages hospital listings.
type HospitalFilter struct {
	Name      string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

type HospitalRepository struct {
	db *gorm.DB
}

func NewHospitalRepository(db *gorm.DB) *HospitalRepository {
	return &HospitalRepository{db: db}
}

func (r *HospitalRepository) Create(hospital *models.Hospital) error {
	if err := r.db.Create(hospital).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrHospitalEmailExists
		}
		return apperrors.DatabaseError(err, "hospital", "failed to create hospital")
	}
	return nil
}

func (r *HospitalRepository) FindByID(id uuid.UUID) (*models.Hospital, error) {
	var hospital models.Hospital
	if err := r.db.First(&hospital, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("hospital", id.String())
		}
		return nil, apperrors.DatabaseError(err, "hospital", "failed to load hospital")
	}
	return &hospital, nil
}

func (r *HospitalRepository) List(filter HospitalFilter) ([]models.Hospital, int64, error) {
	query := r.db.Model(&models.Hospital{})
	if filter.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Name+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.DatabaseError(err, "hospital", "failed to count hospitals")
	}

	var hospitals []models.Hospital
	query = applySort(query, filter.SortBy, filter.SortOrder)
	query = applyPagination(query, filter.Page, filter.Limit)
	if err := query.Find(&hospitals).Error; err != nil {
		return nil, 0, apperrors.DatabaseError(err, "hospital", "failed to list hospitals")
	}
	return hospitals, total, nil
}

func (r *HospitalRepository) Update(hospital *models.Hospital) error {
	if err := r.db.Save(hospital).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrHospitalEmailExists
		}
		return apperrors.DatabaseError(err, "hospital", "failed to update hospital")
	}
	return nil
}

func (r *HospitalRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Hospital{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.DatabaseError(result.Error, "hospital", "failed to delete hospital")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound("hospital", id.String())
	}
	return nil
}

// FindWithinRadius returns hospitals within maxDistance meters of the point.
// Order is not significant.
func (r *HospitalRepository) FindWithinRadius(point models.GeoPoint, maxDistance float64) ([]models.Hospital, error) {
	var hospitals []models.Hospital
	query := `
		SELECT h.*
		FROM hospitals h
		WHERE ST_DWithin(
		          ST_SetSRID(ST_MakePoint(h.longitude, h.latitude), 4326)::geography,
		          ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography,
		          ?
		      )`
	err := r.db.Raw(query, point.Longitude, point.Latitude, maxDistance).Scan(&hospitals).Error
	if err != nil {
		return nil, apperrors.DatabaseError(err, "hospital", "failed to search hospitals by radius")
	}
	return hospitals, nil
}

// IncrementBloodBank bumps one blood type's unit count atomically in the
// jsonb column, treating a missing key as zero. Counts never go below zero:
// a write-off larger than the stock on hand clamps to empty.
func (r *HospitalRepository) IncrementBloodBank(hospitalID uuid.UUID, bloodType models.BloodType, delta int) error {
	if !bloodType.Valid() {
		return apperrors.ErrInvalidOperation("hospital", "unknown blood type "+string(bloodType))
	}
	key := string(bloodType)
	query := fmt.Sprintf(`
		UPDATE hospitals
		SET blood_bank = jsonb_set(
		        COALESCE(blood_bank, '{}'::jsonb),
		        '{%s}',
		        GREATEST(COALESCE((blood_bank->>'%s')::int, 0) + ?, 0)::text::jsonb
		    ),
		    updated_at = now()
		WHERE id = ?`, key, key)
	result := r.db.Exec(query, delta, hospitalID)
	if result.Error != nil {
		return apperrors.DatabaseError(result.Error, "hospital", "failed to update blood bank")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound("hospital", hospitalID.String())
	}
	return nil
}

func (r *HospitalRepository) WithTx(tx *gorm.DB) *HospitalRepository {
	return &HospitalRepository{db: tx}
}
