package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"bloodlink_backend/internal/models"
	"bloodlink_backend/test/helpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// bloodBankUnits читает остаток по группе крови напрямую из БД
func bloodBankUnits(t *testing.T, tx *gorm.DB, hospitalID uuid.UUID, bt models.BloodType) int {
	var hospital models.Hospital
	err := tx.First(&hospital, "id = ?", hospitalID).Error
	assert.NoError(t, err)

	bank, err := hospital.BloodBankMap()
	assert.NoError(t, err)
	return bank[bt]
}

// TestDonationCreate_Defaults - группа крови и количество подставляются
// из профиля донора
func TestDonationCreate_Defaults(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, _, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)
	donorToken, _ := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeBNeg, 43.2, 76.9)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/donations", donorToken, map[string]interface{}{
		"hospital_id": hospital.ID.String(),
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Contains(t, bodyStr, `"blood_type":"B-"`)
	assert.Contains(t, bodyStr, `"quantity":1`)
	t.Logf("ДОНАЦИЯ ПО УМОЛЧАНИЮ: Успешно. Ответ: %s", bodyStr)
}

// TestDonationCompleted_UpdatesBankAndCooldown - завершенная донация пополняет банк
func TestDonationCompleted_UpdatesBankAndCooldown(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, _, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)
	donorToken, donor := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeOPos, 43.2, 76.9)

	createBody := map[string]interface{}{
		"hospital_id": hospital.ID.String(),
		"blood_type":  "O+",
		"quantity":    2,
		"status":      "completed",
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/donations", donorToken, createBody)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"completed"`)
	t.Logf("ДОНАЦИЯ: Успешно. Ответ: %s", bodyStr)

	// Банк крови увеличился ровно на quantity
	assert.Equal(t, 2, bloodBankUnits(t, tx, hospital.ID, models.BloodTypeOPos))

	// Дата последней донации зафиксирована
	var fromDB models.User
	assert.NoError(t, tx.First(&fromDB, "id = ?", donor.ID).Error)
	assert.NotNil(t, fromDB.LastDonationDate)

	// Кулдаун: следующая донация отклоняется
	againRes, againBodyStr := ts.SendRequest(t, "POST", "/api/donations", donorToken, createBody)
	assert.Equal(t, http.StatusConflict, againRes.StatusCode)
	assert.Contains(t, againBodyStr, "You must wait until")
	t.Logf("КУЛДАУН: Успешно отклонено. Ответ: %s", againBodyStr)
}

// TestDonation_WrongBloodType - донор сдает только свою группу
func TestDonation_WrongBloodType(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, _, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)
	donorToken, _ := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeOPos, 43.2, 76.9)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/donations", donorToken, map[string]interface{}{
		"hospital_id": hospital.ID.String(),
		"blood_type":  "A-",
		"quantity":    1,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "registered blood type")
	t.Logf("ЧУЖАЯ ГРУППА: Успешно отклонено. Ответ: %s", bodyStr)
}

// TestDonationScheduled_NoBankChange - запланированная донация банк не трогает
func TestDonationScheduled_NoBankChange(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, _, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)
	donorToken, _ := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeBPos, 43.2, 76.9)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/donations", donorToken, map[string]interface{}{
		"hospital_id": hospital.ID.String(),
		"blood_type":  "B+",
		"quantity":    3,
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"scheduled"`)

	assert.Equal(t, 0, bloodBankUnits(t, tx, hospital.ID, models.BloodTypeBPos))

	// Перевод в completed пополняет банк один раз
	var created struct {
		Donation struct {
			ID string `json:"id"`
		} `json:"donation"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &created))

	updRes, updBodyStr := ts.SendRequest(t, "PATCH", "/api/donations/"+created.Donation.ID, donorToken, map[string]interface{}{
		"status": "completed",
	})
	assert.Equal(t, http.StatusOK, updRes.StatusCode)
	assert.Contains(t, updBodyStr, `"status":"completed"`)
	assert.Equal(t, 3, bloodBankUnits(t, tx, hospital.ID, models.BloodTypeBPos))

	// Отмена завершенной донации возвращает банк обратно
	cancelRes, _ := ts.SendRequest(t, "PATCH", "/api/donations/"+created.Donation.ID, donorToken, map[string]interface{}{
		"status": "cancelled",
	})
	assert.Equal(t, http.StatusOK, cancelRes.StatusCode)
	assert.Equal(t, 0, bloodBankUnits(t, tx, hospital.ID, models.BloodTypeBPos))
	t.Logf("ПЕРЕХОДЫ СТАТУСА: Банк пополнен и возвращен ровно один раз")
}

// TestDonationEligibility - эндпоинт готовности к донации
func TestDonationEligibility(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	donorToken, donor := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeOPos, 43.2, 76.9)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/donations/eligibility", donorToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"eligible":true`)

	// Недавняя донация переводит донора в кулдаун
	recent := time.Now().AddDate(0, 0, -10)
	assert.NoError(t, tx.Model(donor).Update("last_donation_date", recent).Error)

	res2, bodyStr2 := ts.SendRequest(t, "GET", "/api/donations/eligibility", donorToken, nil)
	assert.Equal(t, http.StatusOK, res2.StatusCode)
	assert.Contains(t, bodyStr2, `"eligible":false`)
	assert.Contains(t, bodyStr2, "next_eligible")
	t.Logf("ГОТОВНОСТЬ: Успешно. Ответ: %s", bodyStr2)
}

// TestDonationList_DonorSeesOnlyOwn - донор видит только свои донации
func TestDonationList_DonorSeesOnlyOwn(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, _, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)
	donorToken, donor := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeOPos, 43.2, 76.9)
	_, otherDonor := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeAPos, 43.2, 76.9)

	mine := CreateTestDonation(t, tx, donor, hospital, models.DonationStatusScheduled)
	foreign := CreateTestDonation(t, tx, otherDonor, hospital, models.DonationStatusScheduled)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/donations/mine", donorToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, mine.ID.String())
	assert.NotContains(t, bodyStr, foreign.ID.String())

	// Чужая донация недоступна и по прямому ID
	getRes, _ := ts.SendRequest(t, "GET", "/api/donations/"+foreign.ID.String(), donorToken, nil)
	assert.Equal(t, http.StatusForbidden, getRes.StatusCode)
}

// TestDonationDelete_CompletedForbidden - завершенную донацию нельзя удалить
func TestDonationDelete_CompletedForbidden(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, _, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)
	donorToken, donor := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeOPos, 43.2, 76.9)

	completed := CreateTestDonation(t, tx, donor, hospital, models.DonationStatusCompleted)

	res, bodyStr := ts.SendRequest(t, "DELETE", "/api/donations/"+completed.ID.String(), donorToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	t.Logf("УДАЛЕНИЕ ЗАВЕРШЕННОЙ: Успешно отклонено. Ответ: %s", bodyStr)

	scheduled := CreateTestDonation(t, tx, donor, hospital, models.DonationStatusScheduled)
	okRes, _ := ts.SendRequest(t, "DELETE", "/api/donations/"+scheduled.ID.String(), donorToken, nil)
	assert.Equal(t, http.StatusOK, okRes.StatusCode)
}
