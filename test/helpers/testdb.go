package helpers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"testing"
	"time"

	"bloodlink_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUser создает пользователя в транзакции с автоматическим хешированием пароля
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) error {
	// Проверяем, нужно ли хешировать пароль
	if user.PasswordHash != "" && !strings.HasPrefix(user.PasswordHash, "$2a$") {
		rawPassword := user.PasswordHash
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
		if err != nil {
			t.Fatalf("Не удалось хешировать пароль: %v", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	user.Email = strings.ToLower(user.Email)

	// По умолчанию - верифицированный и доступный
	user.IsVerified = true
	if user.Role == "" {
		user.Role = models.UserRoleDonor
	}

	result := db.Create(user)
	if result.Error != nil {
		t.Logf("ОШИБКА: не удалось создать пользователя %s: %v", user.Email, result.Error)
		return result.Error
	}

	return nil
}

// CreateAndLoginUser создает пользователя и логинит его через API
func CreateAndLoginUser(t *testing.T, ts *TestServer, tx *gorm.DB, user *models.User, password string) (string, *models.User) {
	user.PasswordHash = password // Сырой пароль, CreateUser захеширует
	err := CreateUser(t, tx, user)
	assert.NoError(t, err, "Создание тестового пользователя не должно вызывать ошибку")

	loginBody := map[string]interface{}{
		"email":    user.Email,
		"password": password,
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", loginBody)
	assert.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+bodyStr)

	var loginResponse struct {
		Token string `json:"token"`
	}
	err = json.Unmarshal([]byte(bodyStr), &loginResponse)
	assert.NoError(t, err, "Не удалось распарсить JSON")
	assert.NotEmpty(t, loginResponse.Token, "Токен не должен быть пустым")

	log.Printf("✅ [Helper] Создан и залогинен пользователь %s (Role: %s)", user.Email, user.Role)

	return loginResponse.Token, user
}

// CreateAndLoginDonor создает верифицированного донора с уникальным email
func CreateAndLoginDonor(t *testing.T, ts *TestServer, tx *gorm.DB, bloodType models.BloodType, lat, lon float64) (string, *models.User) {
	user := &models.User{
		Name:        "Test Donor",
		Email:       fmt.Sprintf("donor_%d@test.com", time.Now().UnixNano()),
		Role:        models.UserRoleDonor,
		BloodType:   bloodType,
		IsAvailable: true,
		Latitude:    lat,
		Longitude:   lon,
		Phone:       "+77001234567",
	}
	return CreateAndLoginUser(t, ts, tx, user, "password123")
}

// CreateAndLoginAdmin создает администратора. В системе может быть только
// один admin, поэтому каждый тест создает его внутри своей транзакции.
func CreateAndLoginAdmin(t *testing.T, ts *TestServer, tx *gorm.DB) (string, *models.User) {
	user := &models.User{
		Name:  "Test Admin",
		Email: fmt.Sprintf("admin_%d@test.com", time.Now().UnixNano()),
		Role:  models.UserRoleAdmin,
		Phone: "+77000000000",
	}
	return CreateAndLoginUser(t, ts, tx, user, "password123")
}

// CreateAndLoginHospitalStaff создает пользователя роли hospital и его госпиталь
func CreateAndLoginHospitalStaff(t *testing.T, ts *TestServer, tx *gorm.DB, lat, lon float64) (string, *models.User, *models.Hospital) {
	user := &models.User{
		Name:      "Hospital Staff",
		Email:     fmt.Sprintf("hospital_%d@test.com", time.Now().UnixNano()),
		Role:      models.UserRoleHospital,
		Latitude:  lat,
		Longitude: lon,
		Phone:     "+77009876543",
	}
	token, user := CreateAndLoginUser(t, ts, tx, user, "password123")

	hospital := &models.Hospital{
		Name:        fmt.Sprintf("City Hospital %d", time.Now().UnixNano()),
		Address:     "1 Test Street",
		Phone:       "+77007654321",
		Email:       user.Email,
		Latitude:    lat,
		Longitude:   lon,
		CreatedByID: user.ID,
	}
	err := hospital.SetBloodBank(models.DefaultBloodBank())
	assert.NoError(t, err, "Не удалось сериализовать банк крови")
	result := tx.Create(hospital)
	assert.NoError(t, result.Error, "Не удалось создать госпиталь")

	log.Printf("✅ [Helper] Создан госпиталь для %s", user.Email)
	return token, user, hospital
}
