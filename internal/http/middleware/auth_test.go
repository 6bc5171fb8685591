package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/security"
)

type stubUserService struct {
	user *domain.User
	err  error
}

func (s *stubUserService) GetByID(uint) (*domain.User, error) {
	return s.user, s.err
}

func newAuthTestJWT() *security.JWTManager {
	return security.NewJWTManager(
		"iss",
		"aud",
		"abcdefghijklmnopqrstuvwxyz123456",
		"abcdefghijklmnopqrstuvwxyz654321",
	)
}

func TestRequireAuthRejectsMissingAndInvalidTokens(t *testing.T) {
	jwtMgr := newAuthTestJWT()
	h := RequireAuth(jwtMgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing token, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", rr.Code)
	}

	// A refresh token is not an access token.
	refresh, err := jwtMgr.SignRefreshToken(9, time.Hour)
	if err != nil {
		t.Fatalf("sign refresh: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for refresh token, got %d", rr.Code)
	}
}

func TestRequireAuthStoresClaims(t *testing.T) {
	jwtMgr := newAuthTestJWT()
	token, err := jwtMgr.SignAccessToken(9, 15*time.Minute)
	if err != nil {
		t.Fatalf("sign access: %v", err)
	}

	var gotID uint
	h := RequireAuth(jwtMgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Fatal("expected user id in context")
		}
		gotID = id
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotID != 9 {
		t.Fatalf("expected subject 9, got %d", gotID)
	}
}

func TestRequireVerifiedEmailGate(t *testing.T) {
	jwtMgr := newAuthTestJWT()
	token, err := jwtMgr.SignAccessToken(5, 15*time.Minute)
	if err != nil {
		t.Fatalf("sign access: %v", err)
	}

	serve := func(users *stubUserService) *httptest.ResponseRecorder {
		h := RequireAuth(jwtMgr)(RequireVerifiedEmail(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserFromContext(r.Context()) == nil {
				t.Fatal("expected user in context past the gate")
			}
			w.WriteHeader(http.StatusOK)
		})))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/expenses", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	// Unverified accounts are authenticated but still forbidden.
	rr := serve(&stubUserService{user: &domain.User{Email: "u@example.com"}})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unverified account, got %d", rr.Code)
	}

	verifiedAt := time.Now().UTC()
	rr = serve(&stubUserService{user: &domain.User{Email: "u@example.com", EmailVerified: true, EmailVerifiedAt: &verifiedAt}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for verified account, got %d", rr.Code)
	}

	rr = serve(&stubUserService{err: errors.New("not found")})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown account, got %d", rr.Code)
	}
}

func TestRequireVerifiedEmailWithoutAuthContext(t *testing.T) {
	h := RequireVerifiedEmail(&stubUserService{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/expenses", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %d", rr.Code)
	}
}
