package services

import (
	"bloodlink_backend/internal/config"
	"bloodlink_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	HospitalService     HospitalService
	RequestService      RequestService
	DonationService     DonationService
	MatchingService     MatchingService
	NotificationService NotificationService
	FeedbackService     FeedbackService
	EmailProvider       email.Provider
}

// NewServiceContainer собирает контейнер из конфигурации и провайдера почты.
func NewServiceContainer(cfg *config.Config, emailProvider email.Provider) *ServiceContainer {
	notifications := NewNotificationService()
	matching := NewMatchingService(cfg.Matching.MaxDistanceMeters)

	return &ServiceContainer{
		AuthService:         NewAuthService(emailProvider),
		HospitalService:     NewHospitalService(cfg.Matching.MaxDistanceMeters),
		RequestService:      NewRequestService(matching, notifications),
		DonationService:     NewDonationService(cfg.Donation.CooldownMonths, notifications),
		MatchingService:     matching,
		NotificationService: notifications,
		FeedbackService:     NewFeedbackService(),
		EmailProvider:       emailProvider,
	}
}
