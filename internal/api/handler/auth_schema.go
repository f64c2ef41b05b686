package handler

// loginRequest deliberately does not validate the email's shape: a malformed
// email can never match an identity, so it falls through to the same generic
// invalid-credentials failure as a wrong password.
type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=customer rider"`
}

type registerRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Role       string `json:"role" validate:"required,oneof=customer rider"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	SchoolID   string `json:"schoolId"`
	LicenseID  string `json:"licenseId"`
	Sex        string `json:"sex"`
}

// legacyAuthRequest is the payload of the backward-compatible phone flow.
type legacyAuthRequest struct {
	Phone string `json:"phone" validate:"required"`
	Role  string `json:"role" validate:"required,oneof=customer rider"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// updateProfileRequest distinguishes absent fields (nil) from explicitly
// empty ones, which matters for the clearable fields.
type updateProfileRequest struct {
	FirstName  *string `json:"firstName"`
	MiddleName *string `json:"middleName"`
	LastName   *string `json:"lastName"`
	Phone      *string `json:"phone"`
	SchoolID   *string `json:"schoolId"`
	LicenseID  *string `json:"licenseId"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Sex        *string `json:"sex"`
}
