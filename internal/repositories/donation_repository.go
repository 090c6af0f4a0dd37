package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodlink_backend/internal/models"
	"bloodlink_backend/pkg/apperrors"
)

// DonationFilter narrows and pages donation listings.
type DonationFilter struct {
	DonorID     *uuid.UUID
	HospitalID  *uuid.UUID
	BloodType   models.BloodType
	Status      models.DonationStatus
	MinQuantity int
	MaxQuantity int
	StartDate   *time.Time
	EndDate     *time.Time
	SortBy      string
	SortOrder   string
	Page        int
	Limit       int
}

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) Create(donation *models.Donation) error {
	if err := r.db.Create(donation).Error; err != nil {
		return apperrors.DatabaseError(err, "donations", "failed to create donation")
	}
	return nil
}

func (r *DonationRepository) FindByID(id uuid.UUID) (*models.Donation, error) {
	var donation models.Donation
	err := r.db.
		Preload("Donor").
		Preload("Hospital").
		First(&donation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("donations", id.String())
		}
		return nil, apperrors.DatabaseError(err, "donations", "failed to load donation")
	}
	return &donation, nil
}

func (r *DonationRepository) List(filter DonationFilter) ([]models.Donation, int64, error) {
	query := r.db.Model(&models.Donation{})
	if filter.DonorID != nil {
		query = query.Where("donor_id = ?", *filter.DonorID)
	}
	if filter.HospitalID != nil {
		query = query.Where("hospital_id = ?", *filter.HospitalID)
	}
	if filter.BloodType != "" {
		query = query.Where("blood_type = ?", filter.BloodType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MinQuantity > 0 {
		query = query.Where("quantity >= ?", filter.MinQuantity)
	}
	if filter.MaxQuantity > 0 {
		query = query.Where("quantity <= ?", filter.MaxQuantity)
	}
	if filter.StartDate != nil {
		query = query.Where("donation_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("donation_date <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.DatabaseError(err, "donations", "failed to count donations")
	}

	var donations []models.Donation
	query = applySort(query, filter.SortBy, filter.SortOrder)
	query = applyPagination(query, filter.Page, filter.Limit)
	if err := query.Preload("Hospital").Find(&donations).Error; err != nil {
		return nil, 0, apperrors.DatabaseError(err, "donations", "failed to list donations")
	}
	return donations, total, nil
}

func (r *DonationRepository) Update(donation *models.Donation) error {
	if err := r.db.Save(donation).Error; err != nil {
		return apperrors.DatabaseError(err, "donations", "failed to update donation")
	}
	return nil
}

func (r *DonationRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Donation{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.DatabaseError(result.Error, "donations", "failed to delete donation")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound("donations", id.String())
	}
	return nil
}

func (r *DonationRepository) WithTx(tx *gorm.DB) *DonationRepository {
	return &DonationRepository{db: tx}
}
