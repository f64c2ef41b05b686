package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecoride/auth-service/internal/api/metrics"
	"github.com/ecoride/auth-service/internal/core/domain"
	"github.com/ecoride/auth-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type authResponse struct {
	Message      string           `json:"message"`
	User         *domain.Identity `json:"user"`
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Test reports that the auth endpoint group is reachable.
//
// @Summary      Auth test endpoint
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth [get]
func (h *AuthHandler) Test(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Auth endpoint is working"})
}

// Login authenticates by email, password and role and returns a token pair.
//
// @Summary      Password login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(ports.AuditFlowLogin, ports.AuditOutcomeFailed).Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues(ports.AuditFlowLogin, ports.AuditOutcomeSucceeded).Inc()
	return c.JSON(http.StatusOK, authResponse{
		Message:      "User logged in successfully",
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// Register creates a new account and returns a token pair.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		SchoolID:   req.SchoolID,
		LicenseID:  req.LicenseID,
		Sex:        req.Sex,
	})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(ports.AuditFlowRegister, ports.AuditOutcomeFailed).Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues(ports.AuditFlowRegister, ports.AuditOutcomeCreated).Inc()
	return c.JSON(http.StatusCreated, authResponse{
		Message:      "User created successfully",
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// LegacyAuth is the backward-compatible phone login. An unseen phone
// auto-registers a legacy account (201), a known phone with a matching role
// logs in (200).
//
// @Summary      Legacy phone login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      legacyAuthRequest  true  "Phone and role"
// @Success      200   {object}  authResponse
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/signin [post]
func (h *AuthHandler) LegacyAuth(c echo.Context) error {
	var req legacyAuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.authService.LegacyAuth(c.Request().Context(), req.Phone, req.Role)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(ports.AuditFlowLegacy, ports.AuditOutcomeFailed).Inc()
		return err
	}

	status := http.StatusOK
	message := "User logged in successfully"
	outcome := ports.AuditOutcomeSucceeded
	if result.Created {
		status = http.StatusCreated
		message = "User created successfully"
		outcome = ports.AuditOutcomeCreated
	}

	metrics.AuthAttemptsTotal.WithLabelValues(ports.AuditFlowLegacy, outcome).Inc()
	return c.JSON(status, authResponse{
		Message:      message,
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// Refresh exchanges a valid refresh token for a new access/refresh pair.
//
// @Summary      Rotate tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(ports.AuditFlowRefresh, ports.AuditOutcomeFailed).Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues(ports.AuditFlowRefresh, ports.AuditOutcomeSucceeded).Inc()
	return c.JSON(http.StatusOK, refreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
