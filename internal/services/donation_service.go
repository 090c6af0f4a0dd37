package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodlink_backend/internal/models"
	"bloodlink_backend/internal/repositories"
	"bloodlink_backend/internal/services/dto"
	"bloodlink_backend/pkg/apperrors"
)

type DonationService interface {
	Create(db *gorm.DB, donor *models.User, req *dto.CreateDonationRequest) (*dto.DonationResponse, error)
	Get(db *gorm.DB, id uuid.UUID) (*dto.DonationResponse, error)
	List(db *gorm.DB, query *dto.DonationListQuery) (*dto.DonationListResponse, error)
	ListForDonor(db *gorm.DB, donorID uuid.UUID, query *dto.DonationListQuery) (*dto.DonationListResponse, error)
	Update(db *gorm.DB, actor *models.User, id uuid.UUID, req *dto.UpdateDonationRequest) (*dto.DonationResponse, error)
	Delete(db *gorm.DB, actor *models.User, id uuid.UUID) error
	NextEligibleDate(user *models.User) *time.Time
}

type DonationServiceImpl struct {
	cooldownMonths int
	notifications  NotificationService
}

func NewDonationService(cooldownMonths int, notifications NotificationService) DonationService {
	if cooldownMonths <= 0 {
		cooldownMonths = 2
	}
	return &DonationServiceImpl{
		cooldownMonths: cooldownMonths,
		notifications:  notifications,
	}
}

// NextEligibleDate returns when the donor may donate again, or nil if they
// may donate now.
func (s *DonationServiceImpl) NextEligibleDate(user *models.User) *time.Time {
	if user.LastDonationDate == nil {
		return nil
	}
	next := user.LastDonationDate.AddDate(0, s.cooldownMonths, 0)
	if time.Now().Before(next) {
		return &next
	}
	return nil
}

// Create records a donation. Checks run in a fixed order: the hospital must
// exist, the blood type must be the donor's registered one, and the donor
// must be past the cooldown window. Inventory is credited only when the
// donation is completed.
func (s *DonationServiceImpl) Create(db *gorm.DB, donor *models.User, req *dto.CreateDonationRequest) (*dto.DonationResponse, error) {
	hospitalRepo := repositories.NewHospitalRepository(db)
	hospital, err := hospitalRepo.FindByID(req.HospitalID)
	if err != nil {
		return nil, err
	}

	// Blood type defaults to the donor's registered one; an explicit value
	// must match it.
	bloodType := models.BloodType(req.BloodType)
	if bloodType == "" {
		bloodType = donor.BloodType
	}
	if bloodType == "" {
		return nil, apperrors.NewBadRequestError("Blood type is required")
	}
	if donor.BloodType != "" && donor.BloodType != bloodType {
		return nil, apperrors.ErrWrongBloodType(string(donor.BloodType))
	}

	if next := s.NextEligibleDate(donor); next != nil {
		return nil, apperrors.ErrDonationCooldown(*next)
	}

	status := models.DonationStatus(req.Status)
	if status == "" {
		status = models.DonationStatusScheduled
	}
	donationDate := time.Now()
	if req.DonationDate != nil {
		donationDate = *req.DonationDate
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	donation := &models.Donation{
		DonorID:      donor.ID,
		HospitalID:   hospital.ID,
		BloodType:    bloodType,
		Quantity:     quantity,
		Status:       status,
		DonationDate: donationDate,
		Notes:        req.Notes,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		donationRepo := repositories.NewDonationRepository(tx)
		userRepo := repositories.NewUserRepository(tx)

		if err := donationRepo.Create(donation); err != nil {
			return err
		}
		if err := userRepo.UpdateLastDonation(donor.ID, donationDate); err != nil {
			return err
		}
		if status == models.DonationStatusCompleted {
			return repositories.NewHospitalRepository(tx).
				IncrementBloodBank(hospital.ID, bloodType, donation.Quantity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	donor.LastDonationDate = &donationDate
	donation.Hospital = hospital

	s.notifications.Dispatch(db, hospital.CreatedByID, models.NotificationTypeDonation,
		"New donation recorded",
		fmt.Sprintf("%s donated %d unit(s) of %s at %s", donor.Name, donation.Quantity, bloodType, hospital.Name),
		&donation.ID,
	)

	return dto.NewDonationResponse(donation), nil
}

func (s *DonationServiceImpl) Get(db *gorm.DB, id uuid.UUID) (*dto.DonationResponse, error) {
	donation, err := repositories.NewDonationRepository(db).FindByID(id)
	if err != nil {
		return nil, err
	}
	return dto.NewDonationResponse(donation), nil
}

func (s *DonationServiceImpl) List(db *gorm.DB, query *dto.DonationListQuery) (*dto.DonationListResponse, error) {
	filter, err := buildDonationFilter(query)
	if err != nil {
		return nil, err
	}
	return s.list(db, filter, query)
}

// ListForDonor is List pinned to one donor, for the "my donations" view.
func (s *DonationServiceImpl) ListForDonor(db *gorm.DB, donorID uuid.UUID, query *dto.DonationListQuery) (*dto.DonationListResponse, error) {
	filter, err := buildDonationFilter(query)
	if err != nil {
		return nil, err
	}
	filter.DonorID = &donorID
	return s.list(db, filter, query)
}

func (s *DonationServiceImpl) list(db *gorm.DB, filter repositories.DonationFilter, query *dto.DonationListQuery) (*dto.DonationListResponse, error) {
	donations, total, err := repositories.NewDonationRepository(db).List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.DonationResponse, 0, len(donations))
	for i := range donations {
		items = append(items, dto.NewDonationResponse(&donations[i]))
	}
	return &dto.DonationListResponse{
		Donations: items,
		Meta:      dto.NewPageMeta(query.Page, query.Limit, total),
	}, nil
}

// Update edits a donation. Inventory is credited exactly once, on the
// transition into completed, and reversed if a completed donation is
// cancelled.
func (s *DonationServiceImpl) Update(db *gorm.DB, actor *models.User, id uuid.UUID, req *dto.UpdateDonationRequest) (*dto.DonationResponse, error) {
	donationRepo := repositories.NewDonationRepository(db)
	donation, err := donationRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if donation.DonorID != actor.ID && actor.Role != models.UserRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}

	previousStatus := donation.Status

	if req.Quantity != nil {
		if previousStatus == models.DonationStatusCompleted {
			return nil, apperrors.ErrInvalidStatus("donations", "Cannot change quantity of a completed donation")
		}
		donation.Quantity = *req.Quantity
	}
	if req.DonationDate != nil {
		donation.DonationDate = *req.DonationDate
	}
	if req.Notes != nil {
		donation.Notes = *req.Notes
	}
	if req.Status != nil {
		donation.Status = models.DonationStatus(*req.Status)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := repositories.NewDonationRepository(tx).Update(donation); err != nil {
			return err
		}

		hospitalRepo := repositories.NewHospitalRepository(tx)
		switch {
		case previousStatus != models.DonationStatusCompleted && donation.Status == models.DonationStatusCompleted:
			return hospitalRepo.IncrementBloodBank(donation.HospitalID, donation.BloodType, donation.Quantity)
		case previousStatus == models.DonationStatusCompleted && donation.Status == models.DonationStatusCancelled:
			return hospitalRepo.IncrementBloodBank(donation.HospitalID, donation.BloodType, -donation.Quantity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dto.NewDonationResponse(donation), nil
}

func (s *DonationServiceImpl) Delete(db *gorm.DB, actor *models.User, id uuid.UUID) error {
	donationRepo := repositories.NewDonationRepository(db)
	donation, err := donationRepo.FindByID(id)
	if err != nil {
		return err
	}
	if donation.DonorID != actor.ID && actor.Role != models.UserRoleAdmin {
		return apperrors.ErrInsufficientPermissions
	}
	if donation.Status == models.DonationStatusCompleted {
		return apperrors.ErrInvalidStatus("donations", "Completed donations cannot be deleted")
	}
	return donationRepo.Delete(id)
}

func buildDonationFilter(query *dto.DonationListQuery) (repositories.DonationFilter, error) {
	filter := repositories.DonationFilter{
		BloodType:   models.BloodType(query.BloodType),
		Status:      models.DonationStatus(query.Status),
		MinQuantity: query.MinQuantity,
		MaxQuantity: query.MaxQuantity,
		SortBy:      query.SortBy,
		SortOrder:   query.SortOrder,
		Page:        query.Page,
		Limit:       query.Limit,
	}
	if query.DonorID != "" {
		id, err := uuid.Parse(query.DonorID)
		if err != nil {
			return filter, apperrors.NewBadRequestError("Invalid donor_id")
		}
		filter.DonorID = &id
	}
	if query.HospitalID != "" {
		id, err := uuid.Parse(query.HospitalID)
		if err != nil {
			return filter, apperrors.NewBadRequestError("Invalid hospital_id")
		}
		filter.HospitalID = &id
	}
	if query.StartDate != "" {
		t, err := time.Parse("2006-01-02", query.StartDate)
		if err != nil {
			return filter, apperrors.NewBadRequestError("Invalid start_date")
		}
		filter.StartDate = &t
	}
	if query.EndDate != "" {
		t, err := time.Parse("2006-01-02", query.EndDate)
		if err != nil {
			return filter, apperrors.NewBadRequestError("Invalid end_date")
		}
		// Inclusive through the end of the day.
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &t
	}
	return filter, nil
}
