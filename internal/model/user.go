package model

import "time"

// Role names stored in users.role and embedded in access tokens.
const (
    RoleCommercial = "commercial"
    RoleTechnician = "technician"
    RoleAdmin      = "admin"
)

// Approval statuses stored in users.status.  A freshly registered
// account is pending until an admin flips it to active or rejected;
// only active accounts may log in.
const (
    UserPending  = "pending"
    UserActive   = "active"
    UserRejected = "rejected"
)

// ValidRegistrationRole reports whether a role may be chosen at
// registration time.  Admin accounts are seeded, never self-registered.
func ValidRegistrationRole(role string) bool {
    return role == RoleCommercial || role == RoleTechnician
}

// User represents a row in the `users` table.  The password hash is
// excluded from JSON so it can never leak through an API response.
//
// Fields:
//  ID           – UUID primary key.
//  Email        – unique, stored lower-cased.
//  PasswordHash – bcrypt hash of the password; never serialized.
//  Name         – display name shown on declarations.
//  Role         – one of commercial, technician, admin.
//  Status       – approval status (pending, active, rejected).
//  CreatedAt    – timestamp of registration.
type User struct {
    ID           string    `json:"id"`
    Email        string    `json:"email"`
    PasswordHash string    `json:"-"`
    Name         string    `json:"name"`
    Role         string    `json:"role"`
    Status       string    `json:"status"`
    CreatedAt    time.Time `json:"created_at"`
}
