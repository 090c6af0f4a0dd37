package handlers

// AppHandlers содержит все HTTP-хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	HospitalHandler     *HospitalHandler
	RequestHandler      *RequestHandler
	DonationHandler     *DonationHandler
	NotificationHandler *NotificationHandler
	FeedbackHandler     *FeedbackHandler
}
