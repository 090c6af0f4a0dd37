package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"bloodlink_backend/internal/models"
	"bloodlink_backend/test/helpers"

	"github.com/stretchr/testify/assert"
)

// TestFeedbackCreateAndListMine - создание отзыва и свой список
func TestFeedbackCreateAndListMine(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeOPos, 43.2, 76.9)

	createBody := map[string]interface{}{
		"type":    "hospital",
		"subject": "Great experience",
		"message": "The staff was very helpful during my donation.",
		"rating":  5,
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/feedback", token, createBody)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Contains(t, bodyStr, "Great experience")
	assert.Contains(t, bodyStr, `"rating":5`)
	t.Logf("СОЗДАНИЕ ОТЗЫВА: Успешно. Ответ: %s", bodyStr)

	mineRes, mineBodyStr := ts.SendRequest(t, "GET", "/api/feedback/mine", token, nil)
	assert.Equal(t, http.StatusOK, mineRes.StatusCode)
	assert.Contains(t, mineBodyStr, "Great experience")
}

// TestFeedbackCreate_InvalidRating - рейтинг вне диапазона отклоняется
func TestFeedbackCreate_InvalidRating(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeOPos, 43.2, 76.9)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/feedback", token, map[string]interface{}{
		"type":    "system",
		"subject": "Bad rating",
		"message": "This rating should not pass validation.",
		"rating":  9,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Отзыв без рейтинга тоже отклоняется
	noRatingRes, noRatingBodyStr := ts.SendRequest(t, "POST", "/api/feedback", token, map[string]interface{}{
		"type":    "system",
		"subject": "No rating",
		"message": "Feedback without a rating should be rejected.",
	})
	assert.Equal(t, http.StatusBadRequest, noRatingRes.StatusCode)
	assert.Contains(t, noRatingBodyStr, "rating")
	t.Logf("НЕВЕРНЫЙ РЕЙТИНГ: Успешно отклонен. Ответ: %s; без рейтинга: %s", bodyStr, noRatingBodyStr)
}

// TestFeedbackUpdate_OwnerOnly - правка отзыва владельцем и защита от чужих
func TestFeedbackUpdate_OwnerOnly(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	ownerToken, owner := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeOPos, 43.2, 76.9)
	strangerToken, _ := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeAPos, 43.2, 76.9)

	feedback := models.Feedback{
		UserID:  owner.ID,
		Type:    models.FeedbackTypeHospital,
		Subject: "Initial subject",
		Message: "The first version of this feedback.",
		Rating:  2,
	}
	assert.NoError(t, tx.Create(&feedback).Error)

	// Чужой пользователь не может редактировать
	forbRes, forbBodyStr := ts.SendRequest(t, "PATCH", "/api/feedback/"+feedback.ID.String(), strangerToken, map[string]interface{}{
		"rating": 5,
	})
	assert.Equal(t, http.StatusForbidden, forbRes.StatusCode)
	assert.Contains(t, forbBodyStr, "Insufficient permissions")

	// Владелец меняет рейтинг и текст
	okRes, okBodyStr := ts.SendRequest(t, "PATCH", "/api/feedback/"+feedback.ID.String(), ownerToken, map[string]interface{}{
		"rating":  4,
		"message": "Updated after a second visit.",
	})
	assert.Equal(t, http.StatusOK, okRes.StatusCode)
	assert.Contains(t, okBodyStr, `"rating":4`)
	assert.Contains(t, okBodyStr, "Updated after a second visit.")

	var fromDB models.Feedback
	assert.NoError(t, tx.First(&fromDB, "id = ?", feedback.ID).Error)
	assert.Equal(t, 4, fromDB.Rating)
	t.Logf("ПРАВКА ОТЗЫВА: Успешно. Ответ: %s", okBodyStr)
}

// TestFeedbackListAll_AdminOnly - общий список доступен только админу
func TestFeedbackListAll_AdminOnly(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	donorToken, donor := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeOPos, 43.2, 76.9)
	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)

	feedback := models.Feedback{
		UserID:  donor.ID,
		Type:    models.FeedbackTypeSystem,
		Subject: "Visible to admin",
		Message: "Feedback body for the admin list.",
		Rating:  4,
	}
	assert.NoError(t, tx.Create(&feedback).Error)

	// Донору запрещено
	forbRes, _ := ts.SendRequest(t, "GET", "/api/feedback", donorToken, nil)
	assert.Equal(t, http.StatusForbidden, forbRes.StatusCode)

	// Админ видит отзыв с именем автора
	okRes, okBodyStr := ts.SendRequest(t, "GET", "/api/feedback", adminToken, nil)
	assert.Equal(t, http.StatusOK, okRes.StatusCode)
	assert.Contains(t, okBodyStr, "Visible to admin")
	assert.Contains(t, okBodyStr, donor.Name)
	t.Logf("СПИСОК ОТЗЫВОВ: Успешно. Ответ: %s", okBodyStr)
}

// TestFeedbackDelete_OwnerOrAdmin - удаление владельцем и защита от чужих
func TestFeedbackDelete_OwnerOrAdmin(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	ownerToken, owner := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeOPos, 43.2, 76.9)
	strangerToken, _ := helpers.CreateAndLoginDonor(t, ts, tx, models.BloodTypeAPos, 43.2, 76.9)

	createRes, createBodyStr := ts.SendRequest(t, "POST", "/api/feedback", ownerToken, map[string]interface{}{
		"type":    "donation",
		"subject": "To be deleted",
		"message": "This feedback will be removed by its owner.",
		"rating":  3,
	})
	assert.Equal(t, http.StatusCreated, createRes.StatusCode)

	var created struct {
		Feedback struct {
			ID string `json:"id"`
		} `json:"feedback"`
	}
	assert.NoError(t, json.Unmarshal([]byte(createBodyStr), &created))

	// Чужой пользователь не может удалить
	forbRes, forbBodyStr := ts.SendRequest(t, "DELETE", "/api/feedback/"+created.Feedback.ID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, forbRes.StatusCode)
	assert.Contains(t, forbBodyStr, "Insufficient permissions")

	// Владелец удаляет
	okRes, okBodyStr := ts.SendRequest(t, "DELETE", "/api/feedback/"+created.Feedback.ID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, okRes.StatusCode)
	assert.Contains(t, okBodyStr, "Feedback deleted")

	var count int64
	assert.NoError(t, tx.Model(&models.Feedback{}).Where("user_id = ?", owner.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
