package services

import (
	"testing"
	"time"

	"bloodlink_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNextEligibleDate_NeverDonated(t *testing.T) {
	svc := NewDonationService(2, nil)

	assert.Nil(t, svc.NextEligibleDate(&models.User{}))
}

func TestNextEligibleDate_WithinCooldown(t *testing.T) {
	svc := NewDonationService(2, nil)

	last := time.Now().AddDate(0, 0, -10)
	user := &models.User{LastDonationDate: &last}

	next := svc.NextEligibleDate(user)
	assert.NotNil(t, next)
	assert.Equal(t, last.AddDate(0, 2, 0), *next)
}

func TestNextEligibleDate_CooldownPassed(t *testing.T) {
	svc := NewDonationService(2, nil)

	last := time.Now().AddDate(0, -3, 0)
	user := &models.User{LastDonationDate: &last}

	assert.Nil(t, svc.NextEligibleDate(user))
}

func TestNextEligibleDate_DefaultCooldown(t *testing.T) {
	// Нулевой или отрицательный кулдаун заменяется на два месяца
	svc := NewDonationService(0, nil)

	last := time.Now().AddDate(0, -1, 0)
	user := &models.User{LastDonationDate: &last}

	assert.NotNil(t, svc.NextEligibleDate(user))
}
