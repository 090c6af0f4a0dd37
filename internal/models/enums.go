package models

type UserRole string
type BloodType string
type RequestStatus string
type RequestUrgency string
type DonationStatus string
type NotificationType string
type FeedbackType string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleDonor     UserRole = "donor"
	UserRoleHospital  UserRole = "hospital"
	UserRoleRecipient UserRole = "recipient"
	UserRoleStaff     UserRole = "staff"

	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"

	RequestStatusOpen      RequestStatus = "open"
	RequestStatusFulfilled RequestStatus = "fulfilled"
	RequestStatusCancelled RequestStatus = "cancelled"

	UrgencyLow      RequestUrgency = "low"
	UrgencyMedium   RequestUrgency = "medium"
	UrgencyHigh     RequestUrgency = "high"
	UrgencyCritical RequestUrgency = "critical"

	DonationStatusScheduled DonationStatus = "scheduled"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusCancelled DonationStatus = "cancelled"

	NotificationTypeDonation    NotificationType = "donation"
	NotificationTypeRequest     NotificationType = "request"
	NotificationTypeAppointment NotificationType = "appointment"
	NotificationTypeSystem      NotificationType = "system"

	FeedbackTypeDonation FeedbackType = "donation"
	FeedbackTypeRequest  FeedbackType = "request"
	FeedbackTypeHospital FeedbackType = "hospital"
	FeedbackTypeSystem   FeedbackType = "system"
)

// AllBloodTypes in stable order; also the exact key set of a hospital blood bank.
var AllBloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg,
	BloodTypeBPos, BloodTypeBNeg,
	BloodTypeABPos, BloodTypeABNeg,
	BloodTypeOPos, BloodTypeONeg,
}

func (b BloodType) Valid() bool {
	for _, t := range AllBloodTypes {
		if b == t {
			return true
		}
	}
	return false
}

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleDonor, UserRoleHospital, UserRoleRecipient, UserRoleStaff:
		return true
	}
	return false
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusOpen, RequestStatusFulfilled, RequestStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusFulfilled || s == RequestStatusCancelled
}

func (u RequestUrgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationStatusScheduled, DonationStatusCompleted, DonationStatusCancelled:
		return true
	}
	return false
}

func (n NotificationType) Valid() bool {
	switch n {
	case NotificationTypeDonation, NotificationTypeRequest, NotificationTypeAppointment, NotificationTypeSystem:
		return true
	}
	return false
}

func (f FeedbackType) Valid() bool {
	switch f {
	case FeedbackTypeDonation, FeedbackTypeRequest, FeedbackTypeHospital, FeedbackTypeSystem:
		return true
	}
	return false
}
