package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
)

var ErrVerificationTokenNotFound = errors.New("verification token not found")

// VerificationTokenRepository persists email-verification tokens. A token
// is active when used_at is null and expires_at is in the future; every
// lookup and mutation below is expressed against that predicate so that
// expired and consumed tokens are indistinguishable from absent ones.
type VerificationTokenRepository interface {
	Create(token *domain.VerificationToken) error
	FindActiveByHash(hash string, now time.Time) (*domain.VerificationToken, error)
	// Consume marks a token used via a compare-and-swap on used_at.
	// Exactly one of any number of concurrent calls succeeds; the rest
	// get ErrVerificationTokenNotFound.
	Consume(id, userID uint, now time.Time) error
	// InvalidateActiveByUser marks every live token of the account used,
	// enforcing the at-most-one-live-token guarantee of the resend path.
	InvalidateActiveByUser(userID uint, now time.Time) error
	WithTx(tx *gorm.DB) VerificationTokenRepository
}

type gormVerificationTokenRepository struct {
	db *gorm.DB
}

func NewVerificationTokenRepository(db *gorm.DB) VerificationTokenRepository {
	return &gormVerificationTokenRepository{db: db}
}

func (r *gormVerificationTokenRepository) WithTx(tx *gorm.DB) VerificationTokenRepository {
	return &gormVerificationTokenRepository{db: tx}
}

func (r *gormVerificationTokenRepository) Create(token *domain.VerificationToken) error {
	return r.db.Create(token).Error
}

func (r *gormVerificationTokenRepository) FindActiveByHash(hash string, now time.Time) (*domain.VerificationToken, error) {
	var token domain.VerificationToken
	err := r.db.
		Where("token_hash = ? AND used_at IS NULL AND expires_at > ?", hash, now).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *gormVerificationTokenRepository) Consume(id, userID uint, now time.Time) error {
	res := r.db.Model(&domain.VerificationToken{}).
		Where("id = ? AND user_id = ? AND used_at IS NULL AND expires_at > ?", id, userID, now).
		Updates(map[string]interface{}{"used_at": now, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVerificationTokenNotFound
	}
	return nil
}

func (r *gormVerificationTokenRepository) InvalidateActiveByUser(userID uint, now time.Time) error {
	return r.db.Model(&domain.VerificationToken{}).
		Where("user_id = ? AND used_at IS NULL AND expires_at > ?", userID, now).
		Updates(map[string]interface{}{"used_at": now, "updated_at": now}).Error
}
