package domain

import (
	"errors"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleRider    = "rider"
)

// Identity origin distinguishes how the account was created. Legacy
// identities carry a placeholder password hash the user never knows and can
// only authenticate through the phone flow.
const (
	OriginPassword = "password"
	OriginLegacy   = "legacy"
)

var ErrInvalidRequest = errors.New("invalid request")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrEmailExists = errors.New("email already in use")
var ErrRoleMismatch = errors.New("phone number and role do not match")
var ErrInvalidToken = errors.New("invalid refresh token")
var ErrIdentityNotFound = errors.New("user not found")

// ValidRole reports whether role is one of the fixed account roles.
// Roles are assigned at creation and never change afterwards.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleRider
}

// Identity is the persisted user record. The password hash is never
// serialized into responses.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Origin       string    `json:"origin,omitempty"`
	FirstName    string    `json:"firstName,omitempty"`
	MiddleName   string    `json:"middleName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	SchoolID     string    `json:"schoolId,omitempty"`
	LicenseID    string    `json:"licenseId,omitempty"`
	Sex          string    `json:"sex,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
