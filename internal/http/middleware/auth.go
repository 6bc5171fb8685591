package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/http/response"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/security"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/service"
)

type contextKey string

const (
	claimsContextKey contextKey = "auth_claims"
	userContextKey   contextKey = "auth_user"
)

// RequireAuth validates the bearer access token and stores its claims on
// the request context. Requests without a valid token never reach the
// next handler.
func RequireAuth(jwtMgr *security.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing access token", nil)
				return
			}
			claims, err := jwtMgr.ParseAccessToken(raw)
			if err != nil {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid access token", nil)
				return
			}
			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireVerifiedEmail loads the authenticated account and rejects it with
// 403 EMAIL_UNVERIFIED until the verification flow has flipped the flag.
// The flag is read from storage on every request, so access opens on the
// first request after a successful verify without re-issuing tokens.
func RequireVerifiedEmail(users service.UserServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing access token", nil)
				return
			}
			userID, err := strconv.ParseUint(claims.Subject, 10, 64)
			if err != nil {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid access token", nil)
				return
			}
			user, err := users.GetByID(uint(userID))
			if err != nil {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unknown account", nil)
				return
			}
			if !user.EmailVerified {
				response.Error(w, r, http.StatusForbidden, "EMAIL_UNVERIFIED", "email address is not verified", nil)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimsFromContext(ctx context.Context) *security.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*security.Claims)
	return claims
}

func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// UserIDFromContext resolves the numeric subject of the validated claims.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return 0, false
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
