package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := DatabaseError(cause, "users", "Failed to load user")

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode)
	assert.True(t, Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAsThroughWrapping(t *testing.T) {
	inner := ErrNotFound("hospitals", "some-id")
	wrapped := fmt.Errorf("loading hospital: %w", inner)

	var appErr *AppError
	assert.True(t, As(wrapped, &appErr))
	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode)
}

func TestMarshalJSON_HidesInternals(t *testing.T) {
	err := Wrap(errors.New("secret cause"), CodeDatabaseError, "users", "Failed to save", http.StatusInternalServerError)

	raw, marshalErr := json.Marshal(err)
	assert.NoError(t, marshalErr)

	body := string(raw)
	assert.Contains(t, body, `"message":"Failed to save"`)
	assert.NotContains(t, body, "secret cause")
	assert.NotContains(t, body, "500")
}

func TestErrNotFound_CarriesID(t *testing.T) {
	err := ErrNotFound("requests", "abc-123")

	raw, marshalErr := json.Marshal(err)
	assert.NoError(t, marshalErr)
	assert.Contains(t, string(raw), `"id":"abc-123"`)
}

func TestSentinelIdentity(t *testing.T) {
	assert.True(t, Is(ErrAdminAlreadyExists, ErrAdminAlreadyExists))
	assert.False(t, Is(ErrAdminAlreadyExists, ErrEmailAlreadyExists))
}

func TestDonationCooldownMessage(t *testing.T) {
	next := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	err := ErrDonationCooldown(next)

	assert.Equal(t, http.StatusConflict, err.HTTPCode)
	assert.Equal(t, "You must wait until 2026-03-15 to donate again", err.Message)
}

func TestBloodTypeMismatchMessage(t *testing.T) {
	err := ErrBloodTypeMismatch("A+", "O-")

	assert.Equal(t, http.StatusBadRequest, err.HTTPCode)
	assert.Contains(t, err.Message, "A+")
	assert.Contains(t, err.Message, "O-")
}
