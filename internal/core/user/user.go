package user

import "strings"

// AdminRole is the canonical role name that bypasses permission checks.
// Seed data and route checks both use the lowercase form; the comparison
// stays case-insensitive so records predating the casing cleanup still
// authorize.
const AdminRole = "admin"

// User is the resolved identity attached to every authenticated request:
// the token subject joined with its role and the role's permission set.
type User struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FullNameAr  string   `json:"full_name_ar"`
	FullNameEn  string   `json:"full_name_en"`
	RoleName    string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (u *User) IsAdmin() bool {
	return strings.EqualFold(u.RoleName, AdminRole)
}

// Can reports whether the user may perform the named permission,
// e.g. "correspondence:update". The admin role passes every check.
func (u *User) Can(permission string) bool {
	if u.IsAdmin() {
		return true
	}
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasRole reports membership in an explicit role allow-list.
func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if strings.EqualFold(u.RoleName, r) {
			return true
		}
	}
	return false
}
