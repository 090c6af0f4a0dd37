package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"bloodlink_backend/internal/models"
	"bloodlink_backend/test/helpers"

	"github.com/stretchr/testify/assert"
)

// TestRequestLifecycle - полный сценарий: создание, оповещение донора, выполнение
func TestRequestLifecycle(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	// Госпиталь в точке (0,0), совместимый донор примерно в 110 метрах
	hospitalToken, _, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 0.0, 0.0)
	donorToken, donor := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeONeg, 0.001, 0.0)

	// 1. Создание запроса без координат: берутся координаты госпиталя
	createBody := map[string]interface{}{
		"hospital_id":  hospital.ID.String(),
		"patient_name": "Aigerim S.",
		"blood_type":   "O-",
		"quantity":     2,
		"urgency":      "high",
	}
	createRes, createBodyStr := ts.SendRequest(t, "POST", "/api/requests", hospitalToken, createBody)
	assert.Equal(t, http.StatusCreated, createRes.StatusCode)

	var created struct {
		Request struct {
			ID          string  `json:"id"`
			PatientName string  `json:"patient_name"`
			Status      string  `json:"status"`
			Latitude    float64 `json:"latitude"`
			Longitude   float64 `json:"longitude"`
		} `json:"request"`
	}
	assert.NoError(t, json.Unmarshal([]byte(createBodyStr), &created))
	assert.Equal(t, "open", created.Request.Status)
	assert.Equal(t, "Aigerim S.", created.Request.PatientName)
	assert.InDelta(t, hospital.Latitude, created.Request.Latitude, 0.0001)
	assert.InDelta(t, hospital.Longitude, created.Request.Longitude, 0.0001)
	t.Logf("СОЗДАНИЕ ЗАПРОСА: Успешно. Ответ: %s", createBodyStr)

	// 2. Донор рядом получил уведомление о новом запросе
	notifRes, notifBodyStr := ts.SendRequest(t, "GET", "/api/notifications", donorToken, nil)
	assert.Equal(t, http.StatusOK, notifRes.StatusCode)

	var notifList struct {
		UnreadCount int64 `json:"unread_count"`
	}
	assert.NoError(t, json.Unmarshal([]byte(notifBodyStr), &notifList))
	assert.GreaterOrEqual(t, notifList.UnreadCount, int64(1), "Донор должен получить уведомление о запросе")
	assert.Contains(t, notifBodyStr, created.Request.ID)

	// 3. Донор выполняет запрос
	fulfillRes, fulfillBodyStr := ts.SendRequest(t, "POST", "/api/requests/"+created.Request.ID+"/fulfill", donorToken, nil)
	assert.Equal(t, http.StatusOK, fulfillRes.StatusCode)
	assert.Contains(t, fulfillBodyStr, `"status":"fulfilled"`)
	assert.Contains(t, fulfillBodyStr, donor.ID.String())
	t.Logf("ВЫПОЛНЕНИЕ ЗАПРОСА: Успешно. Ответ: %s", fulfillBodyStr)

	// 4. Создатель запроса получил уведомление о выполнении
	creatorNotifRes, creatorNotifBodyStr := ts.SendRequest(t, "GET", "/api/notifications?unread_only=true", hospitalToken, nil)
	assert.Equal(t, http.StatusOK, creatorNotifRes.StatusCode)
	assert.Contains(t, creatorNotifBodyStr, created.Request.ID)

	// 5. Повторное выполнение отклоняется
	againRes, againBodyStr := ts.SendRequest(t, "POST", "/api/requests/"+created.Request.ID+"/fulfill", donorToken, nil)
	assert.Equal(t, http.StatusConflict, againRes.StatusCode)
	assert.Contains(t, againBodyStr, "already been fulfilled")
	t.Logf("ПОВТОРНОЕ ВЫПОЛНЕНИЕ: Успешно отклонено. Ответ: %s", againBodyStr)
}

// TestRequestCreate_PatientNameRequired - запрос без имени пациента отклоняется
func TestRequestCreate_PatientNameRequired(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	hospitalToken, _, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/requests", hospitalToken, map[string]interface{}{
		"hospital_id": hospital.ID.String(),
		"blood_type":  "O-",
		"quantity":    1,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "patient_name")
	t.Logf("ЗАПРОС БЕЗ ПАЦИЕНТА: Успешно отклонен. Ответ: %s", bodyStr)
}

// TestRequestCreate_NotifiesEveryMatchingDonor - рассылка не ограничена
// фиксированным числом доноров
func TestRequestCreate_NotifiesEveryMatchingDonor(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	hospitalToken, _, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 0.0, 0.0)

	const donorCount = 55
	for i := 0; i < donorCount; i++ {
		donor := &models.User{
			Name:         fmt.Sprintf("Fanout Donor %d", i),
			Email:        fmt.Sprintf("fanout_donor_%d_%d@test.com", time.Now().UnixNano(), i),
			PasswordHash: "$2a$10$abcdefghijklmnopqrstuvABCDEFGHIJKLMNOPQRSTUV1234567890",
			Role:         models.UserRoleDonor,
			BloodType:    models.BloodTypeABNeg,
			IsAvailable:  true,
			Latitude:     0.001,
			Longitude:    0.0,
			Phone:        "+77001234567",
		}
		assert.NoError(t, helpers.CreateUser(t, tx, donor))
	}

	res, bodyStr := ts.SendRequest(t, "POST", "/api/requests", hospitalToken, map[string]interface{}{
		"hospital_id":  hospital.ID.String(),
		"patient_name": "Fanout Patient",
		"blood_type":   "AB-",
		"quantity":     1,
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var created struct {
		Request struct {
			ID string `json:"id"`
		} `json:"request"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &created))

	var notified int64
	assert.NoError(t, tx.Model(&models.Notification{}).
		Where("related_id = ?", created.Request.ID).
		Count(&notified).Error)
	assert.Equal(t, int64(donorCount), notified, "Уведомление должен получить каждый подходящий донор")
	t.Logf("РАССЫЛКА БЕЗ ЛИМИТА: Уведомлено %d доноров", notified)
}

// TestFulfill_BloodTypeMismatch - донор с другой группой не может выполнить запрос
func TestFulfill_BloodTypeMismatch(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, hospitalUser, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)
	donorToken, _ := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeAPos, 43.2, 76.9)

	request := CreateTestRequest(t, tx, hospital, hospitalUser.ID, models.BloodTypeONeg, 1)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/requests/"+request.ID.String()+"/fulfill", donorToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "does not match the request")
	t.Logf("НЕСОВПАДЕНИЕ ГРУППЫ: Успешно отклонено. Ответ: %s", bodyStr)
}

// TestFulfill_UnavailableDonor - недоступный донор отклоняется
func TestFulfill_UnavailableDonor(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, hospitalUser, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)
	donorToken, donor := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeONeg, 43.2, 76.9)

	assert.NoError(t, tx.Model(donor).Update("is_available", false).Error)

	request := CreateTestRequest(t, tx, hospital, hospitalUser.ID, models.BloodTypeONeg, 1)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/requests/"+request.ID.String()+"/fulfill", donorToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "not currently available")
	t.Logf("НЕДОСТУПНЫЙ ДОНОР: Успешно отклонен. Ответ: %s", bodyStr)
}

// TestFulfill_RoleGuard - выполнять запросы может только донор
func TestFulfill_RoleGuard(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	hospitalToken, hospitalUser, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)
	request := CreateTestRequest(t, tx, hospital, hospitalUser.ID, models.BloodTypeONeg, 1)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/requests/"+request.ID.String()+"/fulfill", hospitalToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, bodyStr, "Insufficient permissions")
}

// TestMatchDonors - подбор доноров по расстоянию
func TestMatchDonors(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	hospitalToken, hospitalUser, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 0.0, 0.0)

	// Ближний и дальний совместимые доноры плюс донор с другой группой
	_, nearDonor := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeBNeg, 0.001, 0.0)
	_, farDonor := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeBNeg, 0.01, 0.0)
	_, otherDonor := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeAPos, 0.001, 0.0)

	request := CreateTestRequest(t, tx, hospital, hospitalUser.ID, models.BloodTypeBNeg, 1)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/requests/"+request.ID.String()+"/match", hospitalToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var match struct {
		Donors []struct {
			ID             string  `json:"id"`
			DistanceMeters float64 `json:"distance_meters"`
		} `json:"donors"`
		Notified int `json:"notified"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &match))
	assert.Len(t, match.Donors, 2)
	// Сортировка по расстоянию: ближний донор первый
	assert.Equal(t, nearDonor.ID.String(), match.Donors[0].ID)
	assert.Equal(t, farDonor.ID.String(), match.Donors[1].ID)
	assert.Less(t, match.Donors[0].DistanceMeters, match.Donors[1].DistanceMeters)
	assert.NotContains(t, bodyStr, otherDonor.ID.String())
	// Без notify=true уведомления не рассылаются
	assert.Equal(t, 0, match.Notified)
	t.Logf("ПОДБОР ДОНОРОВ: Успешно. Ответ: %s", bodyStr)
}

// TestRequestUpdate_OnlyCreatorOrAdmin - чужой госпиталь не может менять запрос
func TestRequestUpdate_OnlyCreatorOrAdmin(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, ownerUser, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)
	strangerToken, _, _ := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 51.1, 71.4)

	request := CreateTestRequest(t, tx, hospital, ownerUser.ID, models.BloodTypeONeg, 1)

	res, bodyStr := ts.SendRequest(t, "PATCH", "/api/requests/"+request.ID.String(), strangerToken, map[string]interface{}{
		"quantity": 5,
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, bodyStr, "Insufficient permissions")
}

// TestRequestUpdate_ClosedRequest - закрытый запрос больше не редактируется
func TestRequestUpdate_ClosedRequest(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	ownerToken, ownerUser, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)

	request := CreateTestRequest(t, tx, hospital, ownerUser.ID, models.BloodTypeONeg, 1)
	assert.NoError(t, tx.Model(&request).Update("status", models.RequestStatusCancelled).Error)

	res, bodyStr := ts.SendRequest(t, "PATCH", "/api/requests/"+request.ID.String(), ownerToken, map[string]interface{}{
		"quantity": 5,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "no longer open")
}

// TestRequestList_Filters - фильтрация по статусу и госпиталю
func TestRequestList_Filters(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	ownerToken, ownerUser, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)

	open := CreateTestRequest(t, tx, hospital, ownerUser.ID, models.BloodTypeONeg, 1)
	cancelled := CreateTestRequest(t, tx, hospital, ownerUser.ID, models.BloodTypeAPos, 2)
	assert.NoError(t, tx.Model(&cancelled).Update("status", models.RequestStatusCancelled).Error)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/requests?status=open&hospital_id="+hospital.ID.String(), ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, open.ID.String())
	assert.NotContains(t, bodyStr, cancelled.ID.String())
	t.Logf("ФИЛЬТР ЗАПРОСОВ: Успешно. Ответ: %s", bodyStr)
}
