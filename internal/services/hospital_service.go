package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodlink_backend/internal/models"
	"bloodlink_backend/internal/repositories"
	"bloodlink_backend/internal/services/dto"
)

type HospitalService interface {
	Create(db *gorm.DB, creatorID uuid.UUID, req *dto.CreateHospitalRequest) (*dto.HospitalResponse, error)
	Get(db *gorm.DB, id uuid.UUID) (*dto.HospitalResponse, error)
	List(db *gorm.DB, query *dto.HospitalListQuery) (*dto.HospitalListResponse, error)
	FindNearby(db *gorm.DB, query *dto.NearbyHospitalsQuery) ([]*dto.HospitalResponse, error)
	Update(db *gorm.DB, id uuid.UUID, req *dto.UpdateHospitalRequest) (*dto.HospitalResponse, error)
	Delete(db *gorm.DB, id uuid.UUID) error
	AdjustBloodBank(db *gorm.DB, id uuid.UUID, req *dto.UpdateBloodBankRequest) (*dto.HospitalResponse, error)
}

type HospitalServiceImpl struct {
	defaultRadiusMeters float64
}

func NewHospitalService(defaultRadiusMeters float64) HospitalService {
	if defaultRadiusMeters <= 0 {
		defaultRadiusMeters = 50000
	}
	return &HospitalServiceImpl{defaultRadiusMeters: defaultRadiusMeters}
}

func (s *HospitalServiceImpl) Create(db *gorm.DB, creatorID uuid.UUID, req *dto.CreateHospitalRequest) (*dto.HospitalResponse, error) {
	hospital := &models.Hospital{
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       strings.ToLower(req.Email),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CreatedByID: creatorID,
	}
	if err := hospital.SetBloodBank(models.DefaultBloodBank()); err != nil {
		return nil, err
	}

	if err := repositories.NewHospitalRepository(db).Create(hospital); err != nil {
		return nil, err
	}
	return dto.NewHospitalResponse(hospital)
}

func (s *HospitalServiceImpl) Get(db *gorm.DB, id uuid.UUID) (*dto.HospitalResponse, error) {
	hospital, err := repositories.NewHospitalRepository(db).FindByID(id)
	if err != nil {
		return nil, err
	}
	return dto.NewHospitalResponse(hospital)
}

func (s *HospitalServiceImpl) List(db *gorm.DB, query *dto.HospitalListQuery) (*dto.HospitalListResponse, error) {
	filter := repositories.HospitalFilter{
		Name:      query.Name,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
		Page:      query.Page,
		Limit:     query.Limit,
	}
	hospitals, total, err := repositories.NewHospitalRepository(db).List(filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.HospitalResponse, 0, len(hospitals))
	for i := range hospitals {
		resp, err := dto.NewHospitalResponse(&hospitals[i])
		if err != nil {
			return nil, err
		}
		items = append(items, resp)
	}
	return &dto.HospitalListResponse{
		Hospitals: items,
		Meta:      dto.NewPageMeta(query.Page, query.Limit, total),
	}, nil
}

func (s *HospitalServiceImpl) FindNearby(db *gorm.DB, query *dto.NearbyHospitalsQuery) ([]*dto.HospitalResponse, error) {
	// The API takes kilometers, the geo index works in meters.
	radius := query.Radius * 1000
	if radius <= 0 {
		radius = s.defaultRadiusMeters
	}
	point := models.GeoPoint{Longitude: query.Longitude, Latitude: query.Latitude}

	hospitals, err := repositories.NewHospitalRepository(db).FindWithinRadius(point, radius)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.HospitalResponse, 0, len(hospitals))
	for i := range hospitals {
		resp, err := dto.NewHospitalResponse(&hospitals[i])
		if err != nil {
			return nil, err
		}
		items = append(items, resp)
	}
	return items, nil
}

func (s *HospitalServiceImpl) Update(db *gorm.DB, id uuid.UUID, req *dto.UpdateHospitalRequest) (*dto.HospitalResponse, error) {
	repo := repositories.NewHospitalRepository(db)
	hospital, err := repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		hospital.Name = *req.Name
	}
	if req.Address != nil {
		hospital.Address = *req.Address
	}
	if req.Phone != nil {
		hospital.Phone = *req.Phone
	}
	if req.Email != nil {
		hospital.Email = strings.ToLower(*req.Email)
	}
	if req.Latitude != nil {
		hospital.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		hospital.Longitude = *req.Longitude
	}

	if err := repo.Update(hospital); err != nil {
		return nil, err
	}
	return dto.NewHospitalResponse(hospital)
}

func (s *HospitalServiceImpl) Delete(db *gorm.DB, id uuid.UUID) error {
	return repositories.NewHospitalRepository(db).Delete(id)
}

// AdjustBloodBank corrects inventory manually, for stock taken in or written
// off outside the donation flow.
func (s *HospitalServiceImpl) AdjustBloodBank(db *gorm.DB, id uuid.UUID, req *dto.UpdateBloodBankRequest) (*dto.HospitalResponse, error) {
	repo := repositories.NewHospitalRepository(db)
	if err := repo.IncrementBloodBank(id, models.BloodType(req.BloodType), req.Delta); err != nil {
		return nil, err
	}
	hospital, err := repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return dto.NewHospitalResponse(hospital)
}
