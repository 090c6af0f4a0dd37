package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodlink_backend/internal/logger"
	"bloodlink_backend/internal/models"
	"bloodlink_backend/internal/repositories"
	"bloodlink_backend/internal/services/dto"
	"bloodlink_backend/pkg/apperrors"
)

type RequestService interface {
	Create(db *gorm.DB, creator *models.User, req *dto.CreateBloodRequest) (*dto.BloodRequestResponse, error)
	Get(db *gorm.DB, id uuid.UUID) (*dto.BloodRequestResponse, error)
	List(db *gorm.DB, query *dto.BloodRequestListQuery) (*dto.BloodRequestListResponse, error)
	Update(db *gorm.DB, actor *models.User, id uuid.UUID, req *dto.UpdateBloodRequest) (*dto.BloodRequestResponse, error)
	Delete(db *gorm.DB, actor *models.User, id uuid.UUID) error
	Fulfill(db *gorm.DB, donor *models.User, id uuid.UUID) (*dto.BloodRequestResponse, error)
	MatchDonors(db *gorm.DB, id uuid.UUID, notify bool) (*dto.MatchDonorsResponse, error)
}

type RequestServiceImpl struct {
	matching      MatchingService
	notifications NotificationService
}

func NewRequestService(matching MatchingService, notifications NotificationService) RequestService {
	return &RequestServiceImpl{
		matching:      matching,
		notifications: notifications,
	}
}

// Create opens a blood request and fans out notifications to matching
// donors nearby. The request point defaults to the hospital's coordinates.
func (s *RequestServiceImpl) Create(db *gorm.DB, creator *models.User, req *dto.CreateBloodRequest) (*dto.BloodRequestResponse, error) {
	hospital, err := repositories.NewHospitalRepository(db).FindByID(req.HospitalID)
	if err != nil {
		return nil, err
	}

	urgency := models.RequestUrgency(req.Urgency)
	if urgency == "" {
		urgency = models.UrgencyMedium
	}

	lat, lon := hospital.Latitude, hospital.Longitude
	if req.Latitude != nil && req.Longitude != nil {
		lat, lon = *req.Latitude, *req.Longitude
	}

	request := &models.Request{
		HospitalID:  hospital.ID,
		PatientName: req.PatientName,
		BloodType:   models.BloodType(req.BloodType),
		Quantity:    req.Quantity,
		Urgency:     urgency,
		Status:      models.RequestStatusOpen,
		Latitude:    lat,
		Longitude:   lon,
		CreatedByID: creator.ID,
		Notes:       req.Notes,
	}

	if err := repositories.NewRequestRepository(db).Create(request); err != nil {
		return nil, err
	}
	request.Hospital = hospital

	s.notifyMatchingDonors(db, request, hospital.Name)

	return dto.NewBloodRequestResponse(request), nil
}

func (s *RequestServiceImpl) Get(db *gorm.DB, id uuid.UUID) (*dto.BloodRequestResponse, error) {
	request, err := repositories.NewRequestRepository(db).FindByID(id)
	if err != nil {
		return nil, err
	}
	return dto.NewBloodRequestResponse(request), nil
}

func (s *RequestServiceImpl) List(db *gorm.DB, query *dto.BloodRequestListQuery) (*dto.BloodRequestListResponse, error) {
	filter := repositories.RequestFilter{
		Status:    models.RequestStatus(query.Status),
		BloodType: models.BloodType(query.BloodType),
		Urgency:   models.RequestUrgency(query.Urgency),
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
		Page:      query.Page,
		Limit:     query.Limit,
	}
	if query.HospitalID != "" {
		id, err := uuid.Parse(query.HospitalID)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Invalid hospital_id")
		}
		filter.HospitalID = &id
	}
	if query.Radius > 0 {
		filter.NearPoint = &models.GeoPoint{Longitude: query.Longitude, Latitude: query.Latitude}
		// The API takes kilometers, the geo index works in meters.
		filter.NearRadius = query.Radius * 1000
	}

	requests, total, err := repositories.NewRequestRepository(db).List(filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.BloodRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, dto.NewBloodRequestResponse(&requests[i]))
	}
	return &dto.BloodRequestListResponse{
		Requests: items,
		Meta:     dto.NewPageMeta(query.Page, query.Limit, total),
	}, nil
}

// Update edits an open request. Only the creator or an admin may edit.
// Setting the status to fulfilled through an update records the actor as
// the fulfilling party.
func (s *RequestServiceImpl) Update(db *gorm.DB, actor *models.User, id uuid.UUID, req *dto.UpdateBloodRequest) (*dto.BloodRequestResponse, error) {
	repo := repositories.NewRequestRepository(db)
	request, err := repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if request.CreatedByID != actor.ID && actor.Role != models.UserRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if request.Status.Terminal() {
		return nil, apperrors.ErrRequestClosed
	}

	if req.PatientName != nil {
		request.PatientName = *req.PatientName
	}
	if req.Quantity != nil {
		request.Quantity = *req.Quantity
	}
	if req.Urgency != nil {
		request.Urgency = models.RequestUrgency(*req.Urgency)
	}
	if req.Notes != nil {
		request.Notes = *req.Notes
	}
	if req.Status != nil {
		status := models.RequestStatus(*req.Status)
		if status == models.RequestStatusFulfilled && request.FulfilledByID == nil {
			now := time.Now()
			request.FulfilledByID = &actor.ID
			request.FulfilledAt = &now
		}
		request.Status = status
	}

	if err := repo.Update(request); err != nil {
		return nil, err
	}
	return dto.NewBloodRequestResponse(request), nil
}

func (s *RequestServiceImpl) Delete(db *gorm.DB, actor *models.User, id uuid.UUID) error {
	repo := repositories.NewRequestRepository(db)
	request, err := repo.FindByID(id)
	if err != nil {
		return err
	}
	if request.CreatedByID != actor.ID && actor.Role != models.UserRoleAdmin {
		return apperrors.ErrInsufficientPermissions
	}
	return repo.Delete(id)
}

// Fulfill lets a donor take an open request. The status flip is guarded in
// SQL so two donors racing for the same request cannot both win.
func (s *RequestServiceImpl) Fulfill(db *gorm.DB, donor *models.User, id uuid.UUID) (*dto.BloodRequestResponse, error) {
	repo := repositories.NewRequestRepository(db)
	request, err := repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	switch request.Status {
	case models.RequestStatusFulfilled:
		return nil, apperrors.ErrRequestAlreadyFulfilled
	case models.RequestStatusCancelled:
		return nil, apperrors.ErrRequestClosed
	}

	if donor.BloodType != request.BloodType {
		return nil, apperrors.ErrBloodTypeMismatch(string(donor.BloodType), string(request.BloodType))
	}
	if !donor.IsAvailable {
		return nil, apperrors.ErrDonorNotAvailable
	}

	now := time.Now()
	request.FulfilledByID = &donor.ID
	request.FulfilledAt = &now

	won, err := repo.MarkFulfilled(request)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperrors.ErrRequestAlreadyFulfilled
	}
	request.Status = models.RequestStatusFulfilled

	s.notifications.Dispatch(db, request.CreatedByID, models.NotificationTypeRequest,
		"Blood request fulfilled",
		fmt.Sprintf("%s has volunteered to fulfill your %s blood request", donor.Name, request.BloodType),
		&request.ID,
	)

	return dto.NewBloodRequestResponse(request), nil
}

// MatchDonors returns donors who can serve the request, optionally
// notifying them again.
func (s *RequestServiceImpl) MatchDonors(db *gorm.DB, id uuid.UUID, notify bool) (*dto.MatchDonorsResponse, error) {
	request, err := repositories.NewRequestRepository(db).FindByID(id)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestStatusOpen {
		return nil, apperrors.ErrRequestClosed
	}

	donors, err := s.matching.MatchDonors(db, request)
	if err != nil {
		return nil, err
	}

	notified := 0
	if notify {
		hospitalName := ""
		if request.Hospital != nil {
			hospitalName = request.Hospital.Name
		}
		for _, donor := range donors {
			s.notifications.Dispatch(db, donor.ID, models.NotificationTypeRequest,
				"Blood needed near you",
				fmt.Sprintf("%s needs %s blood (%d units)", hospitalName, request.BloodType, request.Quantity),
				&request.ID,
			)
			notified++
		}
	}

	return &dto.MatchDonorsResponse{
		RequestID: request.ID,
		Donors:    donors,
		Notified:  notified,
	}, nil
}

func (s *RequestServiceImpl) notifyMatchingDonors(db *gorm.DB, request *models.Request, hospitalName string) {
	donors, err := s.matching.MatchDonors(db, request)
	if err != nil {
		// Matching failures must not fail request creation.
		logger.WithError(err).Error("donor matching failed", "request_id", request.ID.String())
		return
	}
	for _, donor := range donors {
		s.notifications.Dispatch(db, donor.ID, models.NotificationTypeRequest,
			"Blood needed near you",
			fmt.Sprintf("%s needs %s blood (%d units)", hospitalName, request.BloodType, request.Quantity),
			&request.ID,
		)
	}
}
