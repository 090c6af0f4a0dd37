package auth

// Role literals as stored on the user record.
const (
	RoleAdmin     = "admin"
	RoleDonor     = "donor"
	RoleHospital  = "hospital"
	RoleRecipient = "recipient"
	RoleStaff     = "staff"
)

// Operations guarded by role membership. Routes reference these instead of
// listing roles inline, so the full authorization table lives in one place.
const (
	OpRegisterStaff   = "auth:register_staff"
	OpAssignRole      = "auth:assign_role"
	OpCreateHospital  = "hospitals:create"
	OpManageHospital  = "hospitals:manage"
	OpCreateRequest   = "requests:create"
	OpManageRequest   = "requests:manage"
	OpFulfillRequest  = "requests:fulfill"
	OpCreateDonation  = "donations:create"
	OpManageDonation  = "donations:manage"
	OpListAllFeedback = "feedback:list_all"
)

var allowedRoles = map[string][]string{
	OpRegisterStaff:   {RoleAdmin},
	OpAssignRole:      {RoleAdmin},
	OpCreateHospital:  {RoleAdmin, RoleStaff},
	OpManageHospital:  {RoleAdmin},
	OpCreateRequest:   {RoleHospital, RoleAdmin},
	OpManageRequest:   {RoleHospital, RoleAdmin},
	OpFulfillRequest:  {RoleDonor},
	OpCreateDonation:  {RoleDonor},
	OpManageDonation:  {RoleDonor, RoleAdmin},
	OpListAllFeedback: {RoleAdmin},
}

// RoleAllowed reports whether role may perform operation.
func RoleAllowed(operation, role string) bool {
	roles, exists := allowedRoles[operation]
	if !exists {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// AllowedRoles returns the role set for an operation, for error messages.
func AllowedRoles(operation string) []string {
	return allowedRoles[operation]
}

func IsAdmin(claims *Claims) bool {
	return claims.Role == RoleAdmin
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDonor, RoleHospital, RoleRecipient, RoleStaff:
		return true
	}
	return false
}
