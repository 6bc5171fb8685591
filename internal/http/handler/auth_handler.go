package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/http/response"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/observability"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/service"
)

type AuthHandler struct {
	authSvc         service.AuthServiceInterface
	verificationSvc service.VerificationServiceInterface
}

func NewAuthHandler(authSvc service.AuthServiceInterface, verificationSvc service.VerificationServiceInterface) *AuthHandler {
	return &AuthHandler{
		authSvc:         authSvc,
		verificationSvc: verificationSvc,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	email := strings.TrimSpace(body.Email)
	if email == "" || !strings.Contains(email, "@") {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "a valid email is required", nil)
		return
	}
	if len(body.Password) < 8 {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "password must be at least 8 characters", nil)
		return
	}

	user, err := h.authSvc.Signup(r.Context(), service.SignupInput{
		Email:     email,
		Password:  body.Password,
		FirstName: strings.TrimSpace(body.FirstName),
		LastName:  strings.TrimSpace(body.LastName),
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			observability.RecordAuthEvent(r.Context(), "signup", "conflict")
			response.Error(w, r, http.StatusConflict, "CONFLICT", "email is already registered", nil)
			return
		}
		observability.RecordAuthEvent(r.Context(), "signup", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create account", nil)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "auth.signup",
		ActorUserID: observability.ActorUserID(user.ID),
		TargetType:  "user",
		TargetID:    observability.ActorUserID(user.ID),
		Action:      "signup",
		Outcome:     "success",
		Reason:      "account_created",
	}, "email_verified", user.EmailVerified)
	observability.RecordAuthEvent(r.Context(), "signup", "success")
	response.JSON(w, r, http.StatusCreated, map[string]any{
		"user":    user,
		"message": "account created, check your inbox for a verification link",
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	token := strings.TrimSpace(body.Token)
	if token == "" {
		token = strings.TrimSpace(r.URL.Query().Get("token"))
	}
	if token == "" {
		observability.RecordVerificationEvent(r.Context(), "verify", "bad_request")
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "token is required", nil)
		return
	}

	user, err := h.verificationSvc.Verify(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrExpiredToken) {
			observability.RecordVerificationEvent(r.Context(), "verify", "rejected")
			response.Error(w, r, http.StatusBadRequest, "INVALID_OR_EXPIRED_TOKEN", "token is invalid or expired", nil)
			return
		}
		observability.RecordVerificationEvent(r.Context(), "verify", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to verify email", nil)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "auth.email_verify",
		ActorUserID: observability.ActorUserID(user.ID),
		TargetType:  "user",
		TargetID:    observability.ActorUserID(user.ID),
		Action:      "verify",
		Outcome:     "success",
		Reason:      "email_verified",
	})
	observability.RecordVerificationEvent(r.Context(), "verify", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{
		"user":    user,
		"message": "email verified",
	})
}

// ResendVerification answers identically for unknown, already-verified and
// pending accounts so the endpoint cannot be used to probe which emails
// exist.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	email := strings.TrimSpace(body.Email)
	if email == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "email is required", nil)
		return
	}

	if err := h.verificationSvc.Resend(r.Context(), email); err != nil {
		observability.RecordVerificationEvent(r.Context(), "resend", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to process request", nil)
		return
	}

	observability.RecordVerificationEvent(r.Context(), "resend", "accepted")
	response.JSON(w, r, http.StatusOK, map[string]any{
		"accepted": true,
		"message":  "if the account exists and is unverified, a new link has been sent",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	result, err := h.authSvc.Login(r.Context(), body.Email, body.Password, r.UserAgent(), clientIP(r))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			observability.RecordAuthEvent(r.Context(), "login", "rejected")
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid email or password", nil)
			return
		}
		observability.RecordAuthEvent(r.Context(), "login", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to log in", nil)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "auth.login",
		ActorUserID: observability.ActorUserID(result.User.ID),
		TargetType:  "session",
		TargetID:    "new",
		Action:      "login",
		Outcome:     "success",
		Reason:      "credentials_accepted",
	})
	observability.RecordAuthEvent(r.Context(), "login", "success")
	response.JSON(w, r, http.StatusOK, result)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.RefreshToken) == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "refresh_token is required", nil)
		return
	}

	pair, err := h.authSvc.Refresh(r.Context(), body.RefreshToken, r.UserAgent(), clientIP(r))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			observability.RecordAuthEvent(r.Context(), "refresh", "rejected")
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid refresh token", nil)
			return
		}
		observability.RecordAuthEvent(r.Context(), "refresh", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to refresh session", nil)
		return
	}

	observability.RecordAuthEvent(r.Context(), "refresh", "success")
	response.JSON(w, r, http.StatusOK, pair)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.RefreshToken) == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "refresh_token is required", nil)
		return
	}

	if err := h.authSvc.Logout(r.Context(), body.RefreshToken); err != nil {
		observability.RecordAuthEvent(r.Context(), "logout", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to log out", nil)
		return
	}

	observability.RecordAuthEvent(r.Context(), "logout", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"message": "logged out"})
}
