package repositories

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodlink_backend/internal/models"
	"bloodlink_backend/pkg/apperrors"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "idx_users_single_admin") {
				return apperrors.ErrAdminAlreadyExists
			}
			return apperrors.ErrEmailAlreadyExists
		}
		return apperrors.DatabaseError(err, "user", "failed to create user")
	}
	return nil
}

func (r *UserRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("user", id.String())
		}
		return nil, apperrors.DatabaseError(err, "user", "failed to load user")
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", strings.ToLower(email)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("user", email)
		}
		return nil, apperrors.DatabaseError(err, "user", "failed to load user")
	}
	return &user, nil
}

func (r *UserRepository) FindByVerificationToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "verification_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.DatabaseError(err, "user", "failed to load user")
	}
	return &user, nil
}

func (r *UserRepository) FindByResetToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "reset_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.DatabaseError(err, "user", "failed to load user")
	}
	return &user, nil
}

func (r *UserRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "idx_users_single_admin") {
				return apperrors.ErrAdminAlreadyExists
			}
			return apperrors.ErrEmailAlreadyExists
		}
		return apperrors.DatabaseError(err, "user", "failed to update user")
	}
	return nil
}

func (r *UserRepository) UpdateLastDonation(userID uuid.UUID, at time.Time) error {
	err := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_donation_date", at).Error
	if err != nil {
		return apperrors.DatabaseError(err, "user", "failed to record last donation date")
	}
	return nil
}

func (r *UserRepository) AdminExists() (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("role = ?", models.UserRoleAdmin).
		Count(&count).Error
	if err != nil {
		return false, apperrors.DatabaseError(err, "user", "failed to count admins")
	}
	return count > 0, nil
}

// NearbyDonor is a user row annotated with its distance from a query point.
type NearbyDonor struct {
	models.User
	DistanceMeters float64 `json:"distance_meters"`
}

// FindNearbyDonors returns available, verified donors of the given blood type
// within maxDistance meters of the point, nearest first. The result is not
// capped: every donor in range is a candidate.
func (r *UserRepository) FindNearbyDonors(bloodType models.BloodType, point models.GeoPoint, maxDistance float64) ([]NearbyDonor, error) {
	var donors []NearbyDonor
	query := `
		SELECT u.*,
		       ST_Distance(
		           ST_SetSRID(ST_MakePoint(u.longitude, u.latitude), 4326)::geography,
		           ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography
		       ) AS distance_meters
		FROM users u
		WHERE u.role = ?
		  AND u.blood_type = ?
		  AND u.is_available = true
		  AND u.is_verified = true
		  AND ST_DWithin(
		          ST_SetSRID(ST_MakePoint(u.longitude, u.latitude), 4326)::geography,
		          ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography,
		          ?
		      )
		ORDER BY distance_meters ASC`
	err := r.db.Raw(query,
		point.Longitude, point.Latitude,
		models.UserRoleDonor, bloodType,
		point.Longitude, point.Latitude, maxDistance,
	).Scan(&donors).Error
	if err != nil {
		return nil, apperrors.DatabaseError(err, "user", "failed to search nearby donors")
	}
	return donors, nil
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}
