package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/service"
)

type stubAuthService struct {
	signupFn  func(ctx context.Context, input service.SignupInput) (*domain.User, error)
	loginFn   func(ctx context.Context, email, password, userAgent, ip string) (*service.LoginResult, error)
	refreshFn func(ctx context.Context, rawRefresh, userAgent, ip string) (*service.TokenPair, error)
	logoutFn  func(ctx context.Context, rawRefresh string) error
}

func (s *stubAuthService) Signup(ctx context.Context, input service.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password, userAgent, ip string) (*service.LoginResult, error) {
	return s.loginFn(ctx, email, password, userAgent, ip)
}

func (s *stubAuthService) Refresh(ctx context.Context, rawRefresh, userAgent, ip string) (*service.TokenPair, error) {
	return s.refreshFn(ctx, rawRefresh, userAgent, ip)
}

func (s *stubAuthService) Logout(ctx context.Context, rawRefresh string) error {
	return s.logoutFn(ctx, rawRefresh)
}

type stubVerification struct {
	verifyFn func(ctx context.Context, rawToken string) (*domain.User, error)
	resendFn func(ctx context.Context, email string) error
}

func (s *stubVerification) Issue(context.Context, *domain.User) (string, *domain.VerificationToken, error) {
	return "", nil, nil
}

func (s *stubVerification) Verify(ctx context.Context, rawToken string) (*domain.User, error) {
	return s.verifyFn(ctx, rawToken)
}

func (s *stubVerification) Resend(ctx context.Context, email string) error {
	return s.resendFn(ctx, email)
}

func postJSON(t *testing.T, h http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSignupValidationAndConflict(t *testing.T) {
	auth := &stubAuthService{
		signupFn: func(_ context.Context, input service.SignupInput) (*domain.User, error) {
			if input.Email == "taken@example.com" {
				return nil, service.ErrEmailTaken
			}
			return &domain.User{ID: 1, Email: input.Email}, nil
		},
	}
	h := NewAuthHandler(auth, &stubVerification{})

	rr := postJSON(t, h.Signup, "/api/v1/auth/signup", map[string]string{"email": "not-an-email", "password": "password123"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad email, got %d", rr.Code)
	}

	rr = postJSON(t, h.Signup, "/api/v1/auth/signup", map[string]string{"email": "a@example.com", "password": "short"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", rr.Code)
	}

	rr = postJSON(t, h.Signup, "/api/v1/auth/signup", map[string]string{"email": "taken@example.com", "password": "password123"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for taken email, got %d", rr.Code)
	}

	rr = postJSON(t, h.Signup, "/api/v1/auth/signup", map[string]string{"email": "new@example.com", "password": "password123"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestVerifyEmailTokenSources(t *testing.T) {
	verification := &stubVerification{
		verifyFn: func(_ context.Context, rawToken string) (*domain.User, error) {
			if rawToken == "good" {
				return &domain.User{ID: 2, EmailVerified: true}, nil
			}
			return nil, service.ErrInvalidOrExpiredToken
		},
	}
	h := NewAuthHandler(&stubAuthService{}, verification)

	rr := postJSON(t, h.VerifyEmail, "/api/v1/auth/verify-email", map[string]string{"token": "good"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for body token, got %d", rr.Code)
	}

	// Query-string token works for emailed links.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify-email?token=good", nil)
	rr = httptest.NewRecorder()
	h.VerifyEmail(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for query token, got %d", rr.Code)
	}

	rr = postJSON(t, h.VerifyEmail, "/api/v1/auth/verify-email", map[string]string{"token": "bad"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad token, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	apiErr, _ := body["error"].(map[string]any)
	if apiErr["code"] != "INVALID_OR_EXPIRED_TOKEN" {
		t.Fatalf("expected INVALID_OR_EXPIRED_TOKEN code, got %+v", body)
	}

	rr = postJSON(t, h.VerifyEmail, "/api/v1/auth/verify-email", map[string]string{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing token, got %d", rr.Code)
	}
}

func TestResendVerificationIsAlwaysGeneric(t *testing.T) {
	var seen []string
	verification := &stubVerification{
		resendFn: func(_ context.Context, email string) error {
			seen = append(seen, email)
			return nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, verification)

	for _, email := range []string{"ghost@example.com", "pending@example.com"} {
		rr := postJSON(t, h.ResendVerification, "/api/v1/auth/resend-verification", map[string]string{"email": email})
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", email, rr.Code)
		}
	}
	if len(seen) != 2 {
		t.Fatalf("expected both resends forwarded, got %v", seen)
	}

	rr := postJSON(t, h.ResendVerification, "/api/v1/auth/resend-verification", map[string]string{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing email, got %d", rr.Code)
	}
}

func TestLoginMapsInvalidCredentials(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(_ context.Context, email, password, _, _ string) (*service.LoginResult, error) {
			if password != "password123" {
				return nil, service.ErrInvalidCredentials
			}
			return &service.LoginResult{
				TokenPair: service.TokenPair{AccessToken: "a", RefreshToken: "r"},
				User:      &domain.User{ID: 3, Email: email},
			}, nil
		},
	}
	h := NewAuthHandler(auth, &stubVerification{})

	rr := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{"email": "u@example.com", "password": "wrong"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	rr = postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{"email": "u@example.com", "password": "password123"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRefreshAndLogoutRequireToken(t *testing.T) {
	auth := &stubAuthService{
		refreshFn: func(_ context.Context, raw, _, _ string) (*service.TokenPair, error) {
			if raw != "valid" {
				return nil, service.ErrInvalidCredentials
			}
			return &service.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil
		},
		logoutFn: func(context.Context, string) error { return nil },
	}
	h := NewAuthHandler(auth, &stubVerification{})

	rr := postJSON(t, h.Refresh, "/api/v1/auth/refresh", map[string]string{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing refresh token, got %d", rr.Code)
	}

	rr = postJSON(t, h.Refresh, "/api/v1/auth/refresh", map[string]string{"refresh_token": "stale"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for stale token, got %d", rr.Code)
	}

	rr = postJSON(t, h.Refresh, "/api/v1/auth/refresh", map[string]string{"refresh_token": "valid"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	rr = postJSON(t, h.Logout, "/api/v1/auth/logout", map[string]string{"refresh_token": "valid"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for logout, got %d", rr.Code)
	}
}
