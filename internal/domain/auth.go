package domain

import "time"

// ============================================================
// Auth: Request / Response types
// ============================================================

// Role determines which dashboard pages a user can reach.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleMaster   Role = "master"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleMaster:
		return true
	}
	return false
}

// Privileged reports whether the role reaches Reports and Settings.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleMaster
}

// User is the signed-in staff member.
type User struct {
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	DisplayName string `json:"displayName"`
}

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the body for 200 from POST /v1/auth/login.
type Session struct {
	User        User      `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	ExpiresIn   int       `json:"expiresIn"`
}
