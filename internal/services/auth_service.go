package services

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bloodlink_backend/internal/auth"
	"bloodlink_backend/internal/email"
	"bloodlink_backend/internal/logger"
	"bloodlink_backend/internal/models"
	"bloodlink_backend/internal/repositories"
	"bloodlink_backend/internal/services/dto"
	"bloodlink_backend/pkg/apperrors"
)

const verificationTTL = 24 * time.Hour

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error)
	RegisterStaff(db *gorm.DB, req *dto.RegisterStaffRequest) (*dto.UserResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	VerifyEmail(db *gorm.DB, token string) error
	GetMe(db *gorm.DB, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateDetails(db *gorm.DB, userID uuid.UUID, req *dto.UpdateDetailsRequest) (*dto.UserResponse, error)
	UpdatePassword(db *gorm.DB, userID uuid.UUID, req *dto.UpdatePasswordRequest) (*dto.LoginResponse, error)
	AssignRole(db *gorm.DB, targetID uuid.UUID, req *dto.AssignRoleRequest) (*dto.UserResponse, error)
	ForgotPassword(db *gorm.DB, req *dto.ForgotPasswordRequest) error
	ResetPassword(db *gorm.DB, req *dto.ResetPasswordRequest) (*dto.LoginResponse, error)
}

type AuthServiceImpl struct {
	emailProvider email.Provider
}

func NewAuthService(emailProvider email.Provider) AuthService {
	return &AuthServiceImpl{emailProvider: emailProvider}
}

// Register - регистрация нового пользователя (донор или реципиент)
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	role := models.UserRole(req.Role)
	if role != models.UserRoleDonor && role != models.UserRoleRecipient {
		return nil, apperrors.ErrInvalidUserRole
	}

	// Донор обязан указать группу крови
	if role == models.UserRoleDonor && req.BloodType == "" {
		return nil, apperrors.NewBadRequestError("Blood type is required for donors")
	}

	point := models.GeoPoint{Longitude: req.Longitude, Latitude: req.Latitude}
	if !point.Valid() {
		return nil, apperrors.NewBadRequestError("Invalid coordinates")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	token := generateRandomToken()
	expires := time.Now().Add(verificationTTL)

	user := &models.User{
		Name:                req.Name,
		Email:               strings.ToLower(req.Email),
		PasswordHash:        hashed,
		Role:                role,
		BloodType:           models.BloodType(req.BloodType),
		IsAvailable:         role == models.UserRoleDonor,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		Phone:               req.Phone,
		VerificationToken:   token,
		VerificationExpires: &expires,
	}

	userRepo := repositories.NewUserRepository(db)
	if err := userRepo.Create(user); err != nil {
		return nil, err
	}

	// Письмо может не уйти; пользователь остается в базе неподтвержденным
	// и может запросить повторную отправку.
	if err := s.emailProvider.SendVerification(user.Email, user.Name, token); err != nil {
		logger.WithError(err).Warn("failed to send verification email", "email", user.Email)
	}

	return dto.NewUserResponse(user), nil
}

// RegisterStaff - создание служебной учетной записи администратором, без
// верификации email. Роль по умолчанию staff; второго админа отклонит
// частичный уникальный индекс.
func (s *AuthServiceImpl) RegisterStaff(db *gorm.DB, req *dto.RegisterStaffRequest) (*dto.UserResponse, error) {
	role := models.UserRole(req.Role)
	if role == "" {
		role = models.UserRoleStaff
	}
	switch role {
	case models.UserRoleStaff, models.UserRoleHospital, models.UserRoleAdmin:
	default:
		return nil, apperrors.ErrInvalidUserRole
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	user := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hashed,
		Role:         role,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Phone:        req.Phone,
		IsVerified:   true,
		VerifiedAt:   &now,
	}

	if err := repositories.NewUserRepository(db).Create(user); err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// Login - аутентификация пользователя
func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	userRepo := repositories.NewUserRepository(db)
	user, err := userRepo.FindByEmail(req.Email)
	if err != nil {
		var appErr *apperrors.AppError
		if apperrors.As(err, &appErr) && appErr.Code == apperrors.CodeNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	token, err := auth.GenerateToken(user.ID.String(), string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}

// VerifyEmail - подтверждение email по токену из письма
func (s *AuthServiceImpl) VerifyEmail(db *gorm.DB, token string) error {
	userRepo := repositories.NewUserRepository(db)
	user, err := userRepo.FindByVerificationToken(token)
	if err != nil {
		return err
	}

	if user.VerificationExpires != nil && time.Now().After(*user.VerificationExpires) {
		return apperrors.ErrInvalidToken
	}

	now := time.Now()
	user.IsVerified = true
	user.VerifiedAt = &now
	user.VerificationToken = ""
	user.VerificationExpires = nil

	return userRepo.Update(user)
}

func (s *AuthServiceImpl) GetMe(db *gorm.DB, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := repositories.NewUserRepository(db).FindByID(userID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *AuthServiceImpl) UpdateDetails(db *gorm.DB, userID uuid.UUID, req *dto.UpdateDetailsRequest) (*dto.UserResponse, error) {
	userRepo := repositories.NewUserRepository(db)
	user, err := userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.BloodType != nil {
		user.BloodType = models.BloodType(*req.BloodType)
	}
	if req.IsAvailable != nil {
		user.IsAvailable = *req.IsAvailable
	}
	if req.Latitude != nil {
		user.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		user.Longitude = *req.Longitude
	}

	if !user.Location().Valid() {
		return nil, apperrors.NewBadRequestError("Invalid coordinates")
	}

	if err := userRepo.Update(user); err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// UpdatePassword - смена пароля с выдачей нового токена
func (s *AuthServiceImpl) UpdatePassword(db *gorm.DB, userID uuid.UUID, req *dto.UpdatePasswordRequest) (*dto.LoginResponse, error) {
	userRepo := repositories.NewUserRepository(db)
	user, err := userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	user.PasswordHash = hashed

	if err := userRepo.Update(user); err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(user.ID.String(), string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

// AssignRole - назначение роли пользователю (только админ)
func (s *AuthServiceImpl) AssignRole(db *gorm.DB, targetID uuid.UUID, req *dto.AssignRoleRequest) (*dto.UserResponse, error) {
	role := models.UserRole(req.Role)
	if !role.Valid() {
		return nil, apperrors.ErrInvalidUserRole
	}

	userRepo := repositories.NewUserRepository(db)
	user, err := userRepo.FindByID(targetID)
	if err != nil {
		return nil, err
	}

	// Повышение до админа идет через тот же частичный уникальный индекс,
	// что и регистрация: вторая админская запись не пройдет.
	user.Role = role
	if err := userRepo.Update(user); err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// ForgotPassword - запрос сброса пароля; не раскрывает, существует ли email
func (s *AuthServiceImpl) ForgotPassword(db *gorm.DB, req *dto.ForgotPasswordRequest) error {
	userRepo := repositories.NewUserRepository(db)
	user, err := userRepo.FindByEmail(req.Email)
	if err != nil {
		var appErr *apperrors.AppError
		if apperrors.As(err, &appErr) && appErr.Code == apperrors.CodeNotFound {
			return nil
		}
		return err
	}

	token := generateRandomToken()
	expires := time.Now().Add(time.Hour)
	user.ResetToken = token
	user.ResetTokenExp = &expires

	if err := userRepo.Update(user); err != nil {
		return err
	}

	if err := s.emailProvider.SendPasswordReset(user.Email, user.Name, token); err != nil {
		logger.WithError(err).Warn("failed to send password reset email", "email", user.Email)
	}
	return nil
}

// ResetPassword - установка нового пароля по токену из письма
func (s *AuthServiceImpl) ResetPassword(db *gorm.DB, req *dto.ResetPasswordRequest) (*dto.LoginResponse, error) {
	userRepo := repositories.NewUserRepository(db)
	user, err := userRepo.FindByResetToken(req.Token)
	if err != nil {
		return nil, err
	}

	if user.ResetTokenExp == nil || time.Now().After(*user.ResetTokenExp) {
		return nil, apperrors.ErrInvalidToken
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	user.PasswordHash = hashed
	user.ResetToken = ""
	user.ResetTokenExp = nil

	if err := userRepo.Update(user); err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(user.ID.String(), string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func generateRandomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(b)
}
