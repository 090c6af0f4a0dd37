package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"bloodlink_backend/internal/models"
	"bloodlink_backend/test/helpers"

	"github.com/stretchr/testify/assert"
)

// TestHospitalCRUD - создание, чтение, обновление и удаление госпиталя
func TestHospitalCRUD(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)

	createBody := map[string]interface{}{
		"name":      "Central Blood Center",
		"address":   "12 Abay Avenue",
		"phone":     "+77270001122",
		"email":     "central@bloodcenter.kz",
		"latitude":  43.238949,
		"longitude": 76.889709,
	}
	createRes, createBodyStr := ts.SendRequest(t, "POST", "/api/hospitals", adminToken, createBody)
	assert.Equal(t, http.StatusCreated, createRes.StatusCode)
	assert.Contains(t, createBodyStr, "Central Blood Center")
	// Новый госпиталь получает нулевой банк крови по всем группам
	assert.Contains(t, createBodyStr, `"O+":0`)
	t.Logf("СОЗДАНИЕ ГОСПИТАЛЯ: Успешно. Ответ: %s", createBodyStr)

	var created struct {
		Hospital struct {
			ID string `json:"id"`
		} `json:"hospital"`
	}
	err := json.Unmarshal([]byte(createBodyStr), &created)
	assert.NoError(t, err)
	hospitalID := created.Hospital.ID

	// Чтение
	getRes, getBodyStr := ts.SendRequest(t, "GET", "/api/hospitals/"+hospitalID, adminToken, nil)
	assert.Equal(t, http.StatusOK, getRes.StatusCode)
	assert.Contains(t, getBodyStr, "12 Abay Avenue")

	// Обновление
	updRes, updBodyStr := ts.SendRequest(t, "PATCH", "/api/hospitals/"+hospitalID, adminToken, map[string]interface{}{
		"phone": "+77270009988",
	})
	assert.Equal(t, http.StatusOK, updRes.StatusCode)
	assert.Contains(t, updBodyStr, "+77270009988")

	// Удаление
	delRes, delBodyStr := ts.SendRequest(t, "DELETE", "/api/hospitals/"+hospitalID, adminToken, nil)
	assert.Equal(t, http.StatusOK, delRes.StatusCode)
	assert.Contains(t, delBodyStr, "Hospital deleted")

	goneRes, _ := ts.SendRequest(t, "GET", "/api/hospitals/"+hospitalID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, goneRes.StatusCode)
	t.Logf("CRUD ГОСПИТАЛЯ: Полный цикл пройден")
}

// TestHospitalCreate_RoleGuard - донор не может создавать госпитали
func TestHospitalCreate_RoleGuard(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	donorToken, _ := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeOPos, 43.2, 76.9)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/hospitals", donorToken, map[string]interface{}{
		"name":      "Rogue Hospital",
		"address":   "1 Nowhere Street",
		"phone":     "+77270000000",
		"email":     "rogue@test.com",
		"latitude":  43.2,
		"longitude": 76.9,
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, bodyStr, "Insufficient permissions")
	t.Logf("ЗАПРЕТ СОЗДАНИЯ: Успешно. Ответ: %s", bodyStr)
}

// TestHospitalList_NameFilter - фильтр по имени с пагинацией
func TestHospitalList_NameFilter(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, staff, _ := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)

	for i := 0; i < 3; i++ {
		hospital := &models.Hospital{
			Name:        fmt.Sprintf("Almaty Clinic %d", i),
			Address:     "5 Test Road",
			Phone:       "+77270001100",
			Email:       fmt.Sprintf("clinic%d@test.com", i),
			Latitude:    43.2,
			Longitude:   76.9,
			CreatedByID: staff.ID,
		}
		assert.NoError(t, hospital.SetBloodBank(models.DefaultBloodBank()))
		assert.NoError(t, tx.Create(hospital).Error)
	}

	res, bodyStr := ts.SendRequest(t, "GET", "/api/hospitals?name=Almaty+Clinic&limit=2", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var list struct {
		Hospitals []json.RawMessage `json:"hospitals"`
		Meta      struct {
			Total int64 `json:"total"`
			Limit int   `json:"limit"`
		} `json:"meta"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &list))
	assert.Len(t, list.Hospitals, 2)
	assert.Equal(t, int64(3), list.Meta.Total)
	t.Logf("СПИСОК С ФИЛЬТРОМ: Успешно. Всего: %d", list.Meta.Total)
}

// TestNearbyHospitals - гео-поиск в радиусе
func TestNearbyHospitals(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	// Госпиталь рядом с точкой поиска и госпиталь далеко от нее
	token, _, near := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 0.0, 0.0)
	_, _, far := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 10.0, 10.0)

	// Радиус указывается в километрах
	res, bodyStr := ts.SendRequest(t, "GET", "/api/hospitals/nearby?latitude=0.001&longitude=0&radius=5", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, near.Name)
	assert.NotContains(t, bodyStr, far.Name)
	t.Logf("ГЕО-ПОИСК ГОСПИТАЛЕЙ: Успешно. Ответ: %s", bodyStr)
}

// TestAdjustBloodBank - пополнение и списание из банка крови
func TestAdjustBloodBank(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	_, _, hospital := helpers.CreateAndLoginHospitalStaff(t, ts, tx, 43.2, 76.9)

	// Пополнение
	upRes, upBodyStr := ts.SendRequest(t, "PATCH", "/api/hospitals/"+hospital.ID.String()+"/blood-bank", adminToken, map[string]interface{}{
		"blood_type": "O+",
		"delta":      5,
	})
	assert.Equal(t, http.StatusOK, upRes.StatusCode)
	assert.Contains(t, upBodyStr, `"O+":5`)

	// Списание
	downRes, downBodyStr := ts.SendRequest(t, "PATCH", "/api/hospitals/"+hospital.ID.String()+"/blood-bank", adminToken, map[string]interface{}{
		"blood_type": "O+",
		"delta":      -2,
	})
	assert.Equal(t, http.StatusOK, downRes.StatusCode)
	assert.Contains(t, downBodyStr, `"O+":3`)

	// Списание больше остатка не уводит счетчик в минус
	floorRes, floorBodyStr := ts.SendRequest(t, "PATCH", "/api/hospitals/"+hospital.ID.String()+"/blood-bank", adminToken, map[string]interface{}{
		"blood_type": "O+",
		"delta":      -10,
	})
	assert.Equal(t, http.StatusOK, floorRes.StatusCode)
	assert.Contains(t, floorBodyStr, `"O+":0`)
	t.Logf("БАНК КРОВИ: Успешно. Ответ: %s", floorBodyStr)
}

// TestHospitalCreate_DuplicateEmail - email госпиталя уникален без учета регистра
func TestHospitalCreate_DuplicateEmail(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)

	body := map[string]interface{}{
		"name":      "First Clinic",
		"address":   "3 Dostyk Avenue",
		"phone":     "+77270003300",
		"email":     "unique@clinic.kz",
		"latitude":  43.2,
		"longitude": 76.9,
	}
	firstRes, _ := ts.SendRequest(t, "POST", "/api/hospitals", adminToken, body)
	assert.Equal(t, http.StatusCreated, firstRes.StatusCode)

	body["name"] = "Second Clinic"
	body["email"] = "Unique@Clinic.KZ"
	dupRes, dupBodyStr := ts.SendRequest(t, "POST", "/api/hospitals", adminToken, body)
	assert.Equal(t, http.StatusConflict, dupRes.StatusCode)
	assert.Contains(t, dupBodyStr, "already been registered")
	t.Logf("ДУБЛИКАТ EMAIL ГОСПИТАЛЯ: Успешно отклонен. Ответ: %s", dupBodyStr)
}
