package apperrors

import (
	"fmt"
	"net/http"
	"time"
)

/*
Factories and predefined variables for the blood-donation domain.
Factories wrap repository errors; variables cover frequent static cases.
*/

// ErrNotFound reports a missing record; id goes into the details payload.
func ErrNotFound(domain, id string) *AppError {
	return New(CodeNotFound, domain, "Resource not found", http.StatusNotFound).
		WithDetails(map[string]string{"id": id})
}

func ErrAlreadyExists(domain, message string) *AppError {
	return New(CodeAlreadyExists, domain, message, http.StatusConflict)
}

// DatabaseError wraps an unexpected storage failure.
func DatabaseError(err error, domain, message string) *AppError {
	return Wrap(err, CodeDatabaseError, domain, message, http.StatusInternalServerError)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid credentials",
	http.StatusUnauthorized,
)

var ErrEmailNotVerified = New(
	CodeUnauthorized,
	"auth",
	"Please verify your email first",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- users ---

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"users",
	"This email has already been registered",
	http.StatusConflict,
)

var ErrAdminAlreadyExists = New(
	CodeConflict,
	"users",
	"An admin account already exists",
	http.StatusConflict,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"users",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

// --- hospitals ---

var ErrHospitalEmailExists = New(
	CodeAlreadyExists,
	"hospitals",
	"A hospital with this email has already been registered",
	http.StatusConflict,
)

// --- requests ---

var ErrRequestAlreadyFulfilled = New(
	CodeConflict,
	"requests",
	"Request has already been fulfilled",
	http.StatusConflict,
)

var ErrRequestClosed = New(
	CodeInvalidStatus,
	"requests",
	"Request is no longer open",
	http.StatusBadRequest,
)

var ErrDonorNotAvailable = New(
	CodeInvalidOperation,
	"requests",
	"You are not currently available for donation",
	http.StatusBadRequest,
)

// ErrBloodTypeMismatch reports the donor/request pair that does not match.
func ErrBloodTypeMismatch(donorType, requestType string) *AppError {
	return New(
		CodeValidationFailed,
		"requests",
		fmt.Sprintf("Your blood type (%s) does not match the request (%s)", donorType, requestType),
		http.StatusBadRequest,
	)
}

// --- donations ---

// ErrDonationCooldown names the next date the donor becomes eligible.
func ErrDonationCooldown(nextEligible time.Time) *AppError {
	return New(
		CodeConflict,
		"donations",
		fmt.Sprintf("You must wait until %s to donate again", nextEligible.Format("2006-01-02")),
		http.StatusConflict,
	)
}

func ErrWrongBloodType(registered string) *AppError {
	return New(
		CodeValidationFailed,
		"donations",
		fmt.Sprintf("You can only donate your registered blood type (%s)", registered),
		http.StatusBadRequest,
	)
}
