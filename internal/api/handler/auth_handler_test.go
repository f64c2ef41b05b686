package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ecoride/auth-service/internal/core/domain"
	"github.com/ecoride/auth-service/internal/core/ports"
)

type stubAuthService struct {
	loginFn         func(ctx context.Context, email, password, role string) (*ports.AuthResult, error)
	registerFn      func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error)
	legacyAuthFn    func(ctx context.Context, phone, role string) (*ports.AuthResult, error)
	refreshFn       func(ctx context.Context, refreshToken string) (*ports.TokenPair, error)
	profileFn       func(ctx context.Context, id string) (*domain.Identity, error)
	updateProfileFn func(ctx context.Context, id string, input ports.UpdateProfileInput) (*domain.Identity, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password, role string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password, role)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) LegacyAuth(ctx context.Context, phone, role string) (*ports.AuthResult, error) {
	return s.legacyAuthFn(ctx, phone, role)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Profile(ctx context.Context, id string) (*domain.Identity, error) {
	return s.profileFn(ctx, id)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, id string, input ports.UpdateProfileInput) (*domain.Identity, error) {
	return s.updateProfileFn(ctx, id, input)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, role string) (*ports.AuthResult, error) {
			if email != "a@x.com" || password != "secret1" || role != "customer" {
				t.Fatalf("unexpected args: %s %s %s", email, password, role)
			}
			return &ports.AuthResult{
				User:         &domain.Identity{ID: "id_1", Email: email, Role: role, PasswordHash: "hash"},
				AccessToken:  "access",
				RefreshToken: "refresh",
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret1","role":"customer"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "access" || resp["refresh_token"] != "refresh" {
		t.Fatalf("tokens missing from response: %+v", resp)
	}

	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password leaked in response")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, role string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong","role":"customer"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MalformedEmailReachesService(t *testing.T) {
	// A malformed email is not a 400: it goes through to the service and
	// fails exactly like any other unknown credential.
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, role string) (*ports.AuthResult, error) {
			if email != "not-an-email" {
				t.Fatalf("unexpected email: %s", email)
			}
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"secret1","role":"customer"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingRole(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, role string) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret1"}`)
	_ = handler.Login(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_BadRole(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, role string) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret1","role":"driver"}`)
	_ = handler.Login(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
			if input.Email != "a@x.com" || input.Role != "customer" || input.FirstName != "A" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.AuthResult{
				User:         &domain.Identity{ID: "id_1", Email: input.Email, Role: input.Role},
				AccessToken:  "access",
				RefreshToken: "refresh",
				Created:      true,
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"email":"a@x.com","password":"secret1","role":"customer","firstName":"A","lastName":"B"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/register", body)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "User created successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrEmailExists
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"email":"a@x.com","password":"secret1","role":"customer"}`
	c, _ := newTestContext(t, http.MethodPost, "/auth/register", body)
	if err := handler.Register(c); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthHandler_LegacyAuth_StatusByCreation(t *testing.T) {
	created := false
	stub := &stubAuthService{
		legacyAuthFn: func(ctx context.Context, phone, role string) (*ports.AuthResult, error) {
			return &ports.AuthResult{
				User:         &domain.Identity{ID: "id_1", Phone: phone, Role: role},
				AccessToken:  "access",
				RefreshToken: "refresh",
				Created:      created,
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/signin", `{"phone":"0700111222","role":"rider"}`)
	if err := handler.LegacyAuth(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for login, got %d", rec.Code)
	}

	created = true
	c, rec = newTestContext(t, http.MethodPost, "/auth/signin", `{"phone":"0700111222","role":"rider"}`)
	if err := handler.LegacyAuth(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for creation, got %d", rec.Code)
	}
}

func TestAuthHandler_LegacyAuth_MissingPhone(t *testing.T) {
	stub := &stubAuthService{
		legacyAuthFn: func(ctx context.Context, phone, role string) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/signin", `{"role":"rider"}`)
	_ = handler.LegacyAuth(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
			if refreshToken != "old-refresh" {
				t.Fatalf("unexpected token: %s", refreshToken)
			}
			return &ports.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/refresh-token", `{"refresh_token":"old-refresh"}`)
	if err := handler.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "new-access" || resp["refresh_token"] != "new-refresh" {
		t.Fatalf("unexpected pair: %+v", resp)
	}
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
			return nil, domain.ErrInvalidToken
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/refresh-token", `{"refresh_token":"forged"}`)
	if err := handler.Refresh(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/refresh-token", `{}`)
	_ = handler.Refresh(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, role string) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", "not-json")
	_ = handler.Login(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Test(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, rec := newTestContext(t, http.MethodGet, "/auth", "")
	if err := handler.Test(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
