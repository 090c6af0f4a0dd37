package services

import (
	"gorm.io/gorm"

	"bloodlink_backend/internal/models"
	"bloodlink_backend/internal/repositories"
	"bloodlink_backend/internal/services/dto"
)

// MatchingService finds donors who can serve a blood request: same blood
// type, available, verified, within the search radius of the request point,
// nearest first.
type MatchingService interface {
	MatchDonors(db *gorm.DB, request *models.Request) ([]dto.MatchedDonor, error)
}

type MatchingServiceImpl struct {
	maxDistanceMeters float64
}

func NewMatchingService(maxDistanceMeters float64) MatchingService {
	if maxDistanceMeters <= 0 {
		maxDistanceMeters = 50000
	}
	return &MatchingServiceImpl{maxDistanceMeters: maxDistanceMeters}
}

func (s *MatchingServiceImpl) MatchDonors(db *gorm.DB, request *models.Request) ([]dto.MatchedDonor, error) {
	userRepo := repositories.NewUserRepository(db)
	nearby, err := userRepo.FindNearbyDonors(request.BloodType, request.Location(), s.maxDistanceMeters)
	if err != nil {
		return nil, err
	}

	matched := make([]dto.MatchedDonor, 0, len(nearby))
	for _, donor := range nearby {
		matched = append(matched, dto.MatchedDonor{
			ID:             donor.ID,
			Name:           donor.Name,
			BloodType:      donor.BloodType,
			Phone:          donor.Phone,
			DistanceMeters: donor.DistanceMeters,
		})
	}
	return matched, nil
}
