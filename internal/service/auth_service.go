package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/repository"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/security"
)

type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginResult struct {
	TokenPair
	User *domain.User `json:"user"`
}

type AuthServiceInterface interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password, userAgent, ip string) (*LoginResult, error)
	Refresh(ctx context.Context, rawRefresh, userAgent, ip string) (*TokenPair, error)
	Logout(ctx context.Context, rawRefresh string) error
}

// AuthService owns signup and the session boundary. It never gates login
// on the verified flag; verification gating applies to protected
// resources, not to obtaining a session.
type AuthService struct {
	db           *gorm.DB
	users        repository.UserRepository
	credentials  repository.LocalCredentialRepository
	sessions     repository.SessionRepository
	verification VerificationServiceInterface
	jwt          *security.JWTManager
	accessTTL    time.Duration
	refreshTTL   time.Duration
	pepper       string
	now          func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	users repository.UserRepository,
	credentials repository.LocalCredentialRepository,
	sessions repository.SessionRepository,
	verification VerificationServiceInterface,
	jwt *security.JWTManager,
	accessTTL, refreshTTL time.Duration,
	refreshTokenPepper string,
) *AuthService {
	return &AuthService{
		db:           db,
		users:        users,
		credentials:  credentials,
		sessions:     sessions,
		verification: verification,
		jwt:          jwt,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
		pepper:       refreshTokenPepper,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	email := repository.NormalizeEmail(input.Email)
	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("check existing account: %w", err)
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:     email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Create(user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		cred := &domain.LocalCredential{UserID: user.ID, PasswordHash: passwordHash}
		if err := s.credentials.WithTx(tx).Create(cred); err != nil {
			return fmt.Errorf("create credential: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The account exists even if issuance fails; resend recovers from a
	// failed first issue, so the error still surfaces to the caller.
	if _, _, err := s.verification.Issue(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password, userAgent, ip string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	cred, err := s.credentials.FindByUserID(user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrLocalCredentialNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}
	if !security.CheckPassword(cred.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.startSession(user.ID, userAgent, ip)
	if err != nil {
		return nil, err
	}
	return &LoginResult{TokenPair: *pair, User: user}, nil
}

func (s *AuthService) Refresh(ctx context.Context, rawRefresh, userAgent, ip string) (*TokenPair, error) {
	if _, err := s.jwt.ParseRefreshToken(rawRefresh); err != nil {
		return nil, ErrInvalidCredentials
	}
	now := s.now()
	hash := security.HashRefreshToken(rawRefresh, s.pepper)
	session, err := s.sessions.FindActiveByHash(hash, now)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	// Rotation: the presented refresh token is burned before a new pair
	// is issued.
	if err := s.sessions.RevokeByHash(hash, now); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return nil, fmt.Errorf("revoke rotated session: %w", err)
	}
	return s.startSession(session.UserID, userAgent, ip)
}

func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	hash := security.HashRefreshToken(rawRefresh, s.pepper)
	if err := s.sessions.RevokeByHash(hash, s.now()); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			// Logout is idempotent.
			return nil
		}
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *AuthService) startSession(userID uint, userAgent, ip string) (*TokenPair, error) {
	access, err := s.jwt.SignAccessToken(userID, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.jwt.SignRefreshToken(userID, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	session := &domain.Session{
		UserID:           userID,
		RefreshTokenHash: security.HashRefreshToken(refresh, s.pepper),
		UserAgent:        userAgent,
		IP:               ip,
		ExpiresAt:        s.now().Add(s.refreshTTL),
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
