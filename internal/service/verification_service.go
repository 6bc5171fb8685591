package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"gorm.io/gorm"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/repository"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/security"
)

// VerificationServiceInterface is the email-verification token lifecycle:
// issue a single-use secret, consume it exactly once, and replace any
// outstanding secret on resend.
type VerificationServiceInterface interface {
	Issue(ctx context.Context, user *domain.User) (string, *domain.VerificationToken, error)
	Verify(ctx context.Context, rawToken string) (*domain.User, error)
	Resend(ctx context.Context, email string) error
}

type VerificationService struct {
	db       *gorm.DB
	tokens   repository.VerificationTokenRepository
	users    repository.UserRepository
	notifier EmailVerificationNotifier
	logger   *slog.Logger
	tokenTTL time.Duration
	baseURL  string
	now      func() time.Time
}

func NewVerificationService(
	db *gorm.DB,
	tokens repository.VerificationTokenRepository,
	users repository.UserRepository,
	notifier EmailVerificationNotifier,
	logger *slog.Logger,
	tokenTTL time.Duration,
	verificationBaseURL string,
) *VerificationService {
	return &VerificationService{
		db:       db,
		tokens:   tokens,
		users:    users,
		notifier: notifier,
		logger:   logger,
		tokenTTL: tokenTTL,
		baseURL:  verificationBaseURL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Issue creates a fresh verification token for the user and returns the
// raw secret alongside the persisted record. The raw secret exists only in
// the return value; storage holds its digest.
func (s *VerificationService) Issue(ctx context.Context, user *domain.User) (string, *domain.VerificationToken, error) {
	raw, token, err := s.issueTx(s.tokens, user)
	if err != nil {
		return "", nil, err
	}
	s.deliver(ctx, user, raw, token)
	return raw, token, nil
}

// Verify consumes a raw secret. Consuming the token and flipping the
// account's verified flag happen in one transaction; the compare-and-swap
// on used_at makes a concurrent double-submit lose cleanly.
func (s *VerificationService) Verify(ctx context.Context, rawToken string) (*domain.User, error) {
	now := s.now()
	hash := security.HashVerificationToken(rawToken)

	token, err := s.tokens.FindActiveByHash(hash, now)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationTokenNotFound) {
			s.logger.DebugContext(ctx, "verification token rejected", "reason", "no_active_match")
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("lookup verification token: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.tokens.WithTx(tx).Consume(token.ID, token.UserID, now); err != nil {
			return err
		}
		return s.users.WithTx(tx).MarkEmailVerified(token.UserID, now)
	})
	if err != nil {
		if errors.Is(err, repository.ErrVerificationTokenNotFound) {
			// Lost the race against a concurrent verify or resend.
			s.logger.DebugContext(ctx, "verification token rejected", "reason", "consumed_concurrently", "user_id", token.UserID)
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("consume verification token: %w", err)
	}

	user, err := s.users.FindByID(token.UserID)
	if err != nil {
		return nil, fmt.Errorf("load verified user: %w", err)
	}
	s.logger.InfoContext(ctx, "email verified", "user_id", user.ID)
	return user, nil
}

// Resend invalidates every live token of the account and issues a new one,
// so at most one secret can verify afterwards. Unknown and already-verified
// accounts are silent no-ops; the boundary answers identically for all
// three cases.
func (s *VerificationService) Resend(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.DebugContext(ctx, "verification resend ignored", "reason", "unknown_email")
			return nil
		}
		return fmt.Errorf("lookup account for resend: %w", err)
	}
	if user.EmailVerified {
		s.logger.DebugContext(ctx, "verification resend ignored", "reason", "already_verified", "user_id", user.ID)
		return nil
	}

	var (
		raw   string
		token *domain.VerificationToken
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		tokens := s.tokens.WithTx(tx)
		if err := tokens.InvalidateActiveByUser(user.ID, s.now()); err != nil {
			return fmt.Errorf("invalidate outstanding tokens: %w", err)
		}
		raw, token, err = s.issueTx(tokens, user)
		return err
	})
	if err != nil {
		return err
	}

	s.deliver(ctx, user, raw, token)
	return nil
}

func (s *VerificationService) issueTx(tokens repository.VerificationTokenRepository, user *domain.User) (string, *domain.VerificationToken, error) {
	raw, err := security.NewVerificationToken()
	if err != nil {
		return "", nil, fmt.Errorf("generate verification token: %w", err)
	}
	now := s.now()
	token := &domain.VerificationToken{
		UserID:    user.ID,
		TokenHash: security.HashVerificationToken(raw),
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := tokens.Create(token); err != nil {
		return "", nil, fmt.Errorf("persist verification token: %w", err)
	}
	return raw, token, nil
}

// deliver hands the raw secret to the notifier. Delivery is fire-and-forget:
// a failed send is logged but never fails the issuing operation, since the
// token is already durable and resend can recover.
func (s *VerificationService) deliver(ctx context.Context, user *domain.User, raw string, token *domain.VerificationToken) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.SendEmailVerification(ctx, VerificationNotification{
		UserID:          user.ID,
		Email:           user.Email,
		Token:           raw,
		ExpiresAt:       token.ExpiresAt,
		VerificationURL: s.verificationURL(raw),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "verification email dispatch failed", "user_id", user.ID, "error", err)
	}
}

func (s *VerificationService) verificationURL(raw string) string {
	if s.baseURL == "" {
		return ""
	}
	return s.baseURL + "?token=" + url.QueryEscape(raw)
}
