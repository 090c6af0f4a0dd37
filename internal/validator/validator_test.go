package validator

import (
	"testing"

	"bloodlink_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
)

func TestValidate_RegisterRequest(t *testing.T) {
	v := New()

	valid := dto.RegisterRequest{
		Name:      "Test Donor",
		Email:     "donor@test.com",
		Password:  "password123",
		Role:      "donor",
		BloodType: "O+",
		Latitude:  43.238949,
		Longitude: 76.889709,
		Phone:     "+77011112233",
	}
	assert.NoError(t, v.Validate(valid))
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := New()

	invalid := dto.RegisterRequest{
		Name:      "X",
		Email:     "not-an-email",
		Password:  "123",
		Role:      "superuser",
		BloodType: "C+",
		Latitude:  99.0,
		Longitude: 76.9,
		Phone:     "123",
	}

	err := v.Validate(invalid)
	assert.Error(t, err)

	vErr, ok := err.(*ValidationError)
	assert.True(t, ok)

	// Ключи карты - это json-имена полей DTO
	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "role")
	assert.Contains(t, vErr.Errors, "blood_type")
	assert.Contains(t, vErr.Errors, "latitude")
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Equal(t, "Must be a valid blood type (A+, A-, B+, B-, AB+, AB-, O+, O-)", vErr.Errors["blood_type"])
}

func TestCustomRules(t *testing.T) {
	v := New()

	type probe struct {
		BloodType string `json:"blood_type" validate:"omitempty,is-blood-type"`
		Role      string `json:"role" validate:"omitempty,is-user-role"`
		Urgency   string `json:"urgency" validate:"omitempty,is-urgency"`
		Status    string `json:"status" validate:"omitempty,is-donation-status"`
	}

	// Пустые значения пропускаются через omitempty
	assert.NoError(t, v.Validate(probe{}))

	assert.NoError(t, v.Validate(probe{BloodType: "AB-", Role: "staff", Urgency: "critical", Status: "completed"}))

	assert.Error(t, v.Validate(probe{BloodType: "AB"}))
	assert.Error(t, v.Validate(probe{Role: "root"}))
	assert.Error(t, v.Validate(probe{Urgency: "now"}))
	assert.Error(t, v.Validate(probe{Status: "done"}))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: map[string]string{"email": "Must be a valid email address"}}
	assert.Contains(t, err.Error(), "Validation failed")
	assert.Contains(t, err.Error(), "field 'email'")
}
