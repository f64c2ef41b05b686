package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecoride/auth-service/internal/api/metrics"
	"github.com/ecoride/auth-service/internal/core/domain"
	"github.com/ecoride/auth-service/internal/core/ports"
)

type ProfileHandler struct {
	authService ports.AuthService
}

func NewProfileHandler(authService ports.AuthService) *ProfileHandler {
	return &ProfileHandler{authService: authService}
}

type profileResponse struct {
	Message string           `json:"message,omitempty"`
	User    *domain.Identity `json:"user"`
}

// Get returns the caller's profile, password hash excluded.
//
// @Summary      Get user profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{User: user})
}

// Update applies a partial profile update. Absent fields stay untouched;
// explicit empty strings clear the nullable fields. Role is not updatable.
//
// @Summary      Update user profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to update"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), id, ports.UpdateProfileInput{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		SchoolID:   req.SchoolID,
		LicenseID:  req.LicenseID,
		Email:      req.Email,
		Sex:        req.Sex,
	})
	if err != nil {
		metrics.ProfileUpdatesTotal.WithLabelValues("failed").Inc()
		return err
	}

	metrics.ProfileUpdatesTotal.WithLabelValues("succeeded").Inc()
	return c.JSON(http.StatusOK, profileResponse{
		Message: "Profile updated successfully",
		User:    user,
	})
}
