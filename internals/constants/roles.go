package constants

import "fmt"

const (
	RoleStudent    = "student"
	RoleStaff      = "staff"
	RoleAdmin      = "admin"
	RoleOwner      = "owner"
	RoleAccountant = "accountant"
)

// Role error message templates
const (
	ErrOnlyStaffCanAccess  = "Only staff, admin, or owner may access %s."
	ErrOnlyAdminsCanAccess = "Only admins may access %s."
	ErrOnlyOwnersCanAccess = "Only owners may access %s."
)

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorOwner(feature string) string {
	return fmt.Sprintf(ErrOnlyOwnersCanAccess, feature)
}

// ==========================
// Grouped role slices
// ==========================
var (
	AllRoles = []string{
		RoleStudent,
		RoleStaff,
		RoleAdmin,
		RoleOwner,
		RoleAccountant,
	}

	StaffAndAbove = []string{
		RoleStaff,
		RoleAdmin,
		RoleOwner,
	}

	AdminAndAbove = []string{
		RoleAdmin,
		RoleOwner,
	}
)
