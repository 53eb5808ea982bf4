package constants

import (
	"fmt"
	"strings"
)

const (
	RoleSurveyor = "surveyor"
	RoleReviewer = "reviewer"
	RoleAdmin    = "admin"
)

// Template pesan error role
const (
	ErrOnlyReviewersCanAccess = "❌ Only reviewer or admin may access %s."
	ErrOnlyAdminsCanAccess    = "❌ Only admin may access %s."
)

func RoleErrorReviewer(feature string) string {
	return fmt.Sprintf(ErrOnlyReviewersCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleSurveyor,
		RoleReviewer,
		RoleAdmin,
	}

	ReviewerAndAbove = []string{
		RoleReviewer,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)

func IsValidRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsReviewerOrAbove reports whether the role may approve, block or reject work.
func IsReviewerOrAbove(role string) bool {
	return role == RoleReviewer || role == RoleAdmin
}
