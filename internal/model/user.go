package model

import (
	"fmt"
	"time"
)

// User represents an authentication user: an officer or an admin.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	OfficerID    string     `json:"officer_id"`
	FullName     string     `json:"full_name"`
	Designation  string     `json:"designation"`
	Rank         string     `json:"rank,omitempty"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleAdmin   = "admin"
	RoleOfficer = "officer"
)

// ValidatePassword enforces the minimum password policy.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// RoleAtLeast checks if role meets or exceeds the minimum required role.
func RoleAtLeast(role, minimum string) bool {
	levels := map[string]int{
		RoleAdmin:   2,
		RoleOfficer: 1,
	}
	return levels[role] >= levels[minimum]
}
